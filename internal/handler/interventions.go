package handler

import (
	"net/http"
	"strconv"

	"github.com/lesdavils/MedimexResolv/internal/dto"
	"github.com/lesdavils/MedimexResolv/internal/service"

	"github.com/gin-gonic/gin"
)

type InterventionsHandler struct{ svc service.InterventionService }

func NewInterventionsHandler(svc service.InterventionService) *InterventionsHandler {
	return &InterventionsHandler{svc: svc}
}

// Record godoc
// @Summary      Record an intervention
// @Description  Atomically records the work report, decrements stock for consumed parts and closes the ticket. Rolls back entirely on any failure, including insufficient stock.
// @Tags         interventions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RecordInterventionRequest true "Intervention data"
// @Success      201  {object} dto.InterventionResponse
// @Failure      409  {object} apierror.Error
// @Router       /v1/interventions [post]
func (h *InterventionsHandler) Record(c *gin.Context) {
	var req dto.RecordInterventionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Record(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary      Get intervention
// @Tags         interventions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Intervention UUID"
// @Success      200 {object} dto.InterventionResponse
// @Router       /v1/interventions/{id} [get]
func (h *InterventionsHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List interventions
// @Tags         interventions
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page (default 1)"
// @Param        limit query int false "Records per page (default 100)"
// @Success      200 {array} dto.InterventionResponse
// @Router       /v1/interventions [get]
func (h *InterventionsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	data, total, err := h.svc.List(c.Request.Context(), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "total": total, "page": page, "limit": limit})
}

// Report godoc
// @Summary      Download intervention report
// @Description  Generates the PDF report for a completed intervention and streams it back.
// @Tags         interventions
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "Intervention UUID"
// @Success      200
// @Router       /v1/interventions/{id}/report [get]
func (h *InterventionsHandler) Report(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	path, err := h.svc.ReportPDF(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.FileAttachment(path, "intervention_"+id.String()+".pdf")
}

// ByTicket godoc
// @Summary      Get the intervention recorded on a ticket
// @Tags         interventions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Ticket UUID"
// @Success      200 {object} dto.InterventionResponse
// @Router       /v1/tickets/{id}/intervention [get]
func (h *InterventionsHandler) ByTicket(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetByTicket(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
