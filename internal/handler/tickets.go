package handler

import (
	"net/http"
	"strconv"

	"github.com/lesdavils/MedimexResolv/internal/dto"
	"github.com/lesdavils/MedimexResolv/internal/service"

	"github.com/gin-gonic/gin"
)

type TicketsHandler struct{ svc service.TicketService }

func NewTicketsHandler(svc service.TicketService) *TicketsHandler {
	return &TicketsHandler{svc: svc}
}

// Create godoc
// @Summary      Open a ticket
// @Description  Creates a ticket in the open state. An optional technician hint is validated but does not assign.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateTicketRequest true "Ticket data"
// @Success      201  {object} dto.TicketResponse
// @Failure      422  {object} apierror.Error
// @Router       /v1/tickets [post]
func (h *TicketsHandler) Create(c *gin.Context) {
	var req dto.CreateTicketRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Assign godoc
// @Summary      Assign a ticket
// @Description  Moves an open ticket to assigned and notifies the technician by email.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Ticket UUID"
// @Param        body body dto.AssignTicketRequest true "Technician"
// @Success      200  {object} dto.TicketResponse
// @Failure      409  {object} apierror.Error
// @Router       /v1/tickets/{id}/assign [post]
func (h *TicketsHandler) Assign(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AssignTicketRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Assign(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Start godoc
// @Summary      Start work on a ticket
// @Description  Moves an assigned ticket to in_progress. Only the assigned technician (or a supervisor) may start.
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Ticket UUID"
// @Success      200 {object} dto.TicketResponse
// @Failure      409 {object} apierror.Error
// @Router       /v1/tickets/{id}/start [post]
func (h *TicketsHandler) Start(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Start(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary      Cancel a ticket
// @Description  Cancels from any non-terminal state. A reason is mandatory.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Ticket UUID"
// @Param        body body dto.CancelTicketRequest true "Cancellation reason"
// @Success      200  {object} dto.TicketResponse
// @Failure      409  {object} apierror.Error
// @Router       /v1/tickets/{id}/cancel [post]
func (h *TicketsHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.CancelTicketRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cancel(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get ticket
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Ticket UUID"
// @Success      200 {object} dto.TicketResponse
// @Router       /v1/tickets/{id} [get]
func (h *TicketsHandler) Get(c *gin.Context) {
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
// @Summary      List tickets
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        status        query string false "open | assigned | in_progress | done | cancelled"
// @Param        priority      query string false "low | normal | high | critical"
// @Param        client_id     query string false "Filter by client"
// @Param        technician_id query string false "Filter by technician"
// @Param        planned_date  query string false "YYYY-MM-DD"
// @Param        page          query int    false "Page (default 1)"
// @Param        limit         query int    false "Records per page (default 100)"
// @Success      200 {object} dto.TicketListResponse
// @Router       /v1/tickets [get]
func (h *TicketsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	filter := dto.TicketFilter{
		Status:       c.Query("status"),
		Priority:     c.Query("priority"),
		ClientID:     c.Query("client_id"),
		TechnicianID: c.Query("technician_id"),
		PlannedDate:  c.Query("planned_date"),
		Page:         page,
		Limit:        limit,
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Activity godoc
// @Summary      Ticket history
// @Description  Returns the append-only activity trail for a ticket, oldest first.
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Ticket UUID"
// @Success      200 {array} dto.ActivityResponse
// @Router       /v1/tickets/{id}/activity [get]
func (h *TicketsHandler) Activity(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListActivity(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
