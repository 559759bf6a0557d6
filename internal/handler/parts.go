package handler

import (
	"net/http"
	"strconv"

	"github.com/lesdavils/MedimexResolv/internal/dto"
	"github.com/lesdavils/MedimexResolv/internal/service"

	"github.com/gin-gonic/gin"
)

type PartsHandler struct{ svc service.StockService }

func NewPartsHandler(svc service.StockService) *PartsHandler { return &PartsHandler{svc: svc} }

// Create godoc
// @Summary      Create part
// @Description  Registers a spare part. A non-zero opening stock writes an initial ledger entry.
// @Tags         parts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreatePartRequest true "Part data"
// @Success      201  {object} dto.PartResponse
// @Failure      409  {object} apierror.Error
// @Router       /v1/parts [post]
func (h *PartsHandler) Create(c *gin.Context) {
	var req dto.CreatePartRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreatePart(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary      Update part
// @Description  Updates descriptive fields. Stock levels only move through the adjust endpoint.
// @Tags         parts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Part UUID"
// @Param        body body dto.UpdatePartRequest true "Fields to change"
// @Success      200  {object} dto.PartResponse
// @Router       /v1/parts/{id} [put]
func (h *PartsHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdatePartRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdatePart(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get part
// @Tags         parts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Part UUID"
// @Success      200 {object} dto.PartResponse
// @Router       /v1/parts/{id} [get]
func (h *PartsHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetPart(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List parts
// @Tags         parts
// @Produce      json
// @Security     BearerAuth
// @Param        name      query string false "Name filter (substring)"
// @Param        low_stock query bool   false "Only parts at or below their minimum"
// @Param        page      query int    false "Page (default 1)"
// @Param        limit     query int    false "Records per page (default 100)"
// @Success      200 {object} dto.PartListResponse
// @Router       /v1/parts [get]
func (h *PartsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	filter := dto.PartFilter{
		Name:     c.Query("name"),
		LowStock: c.Query("low_stock") == "true",
		Page:     page,
		Limit:    limit,
	}
	resp, err := h.svc.ListParts(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LowStock godoc
// @Summary      Parts below minimum stock
// @Description  Returns parts at or below their minimum, most deficient first.
// @Tags         parts
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.PartResponse
// @Router       /v1/parts/low-stock [get]
func (h *PartsHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.ListLowStock(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Adjust godoc
// @Summary      Adjust stock
// @Description  Applies a signed delta with a mandatory reason. Deltas that would take stock negative are rejected with 409.
// @Tags         parts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Part UUID"
// @Param        body body dto.AdjustStockRequest true "Delta and reason"
// @Success      200  {object} dto.PartResponse
// @Failure      409  {object} apierror.Error
// @Router       /v1/parts/{id}/adjust [post]
func (h *PartsHandler) Adjust(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Adjust(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movements godoc
// @Summary      Stock movement ledger
// @Tags         parts
// @Produce      json
// @Security     BearerAuth
// @Param        part_id query string false "Filter by part"
// @Param        type    query string false "consumption | restock | adjustment"
// @Param        page    query int    false "Page (default 1)"
// @Param        limit   query int    false "Records per page (default 100)"
// @Success      200 {object} dto.StockMovementListResponse
// @Router       /v1/stock-movements [get]
func (h *PartsHandler) Movements(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	filter := dto.StockMovementFilter{
		PartID: c.Query("part_id"),
		Type:   c.Query("type"),
		Page:   page,
		Limit:  limit,
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
