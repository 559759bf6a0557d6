package handler

import (
	"net/http"
	"strconv"

	"github.com/lesdavils/MedimexResolv/internal/dto"
	"github.com/lesdavils/MedimexResolv/internal/service"

	"github.com/gin-gonic/gin"
)

type MachinesHandler struct{ svc service.MachineService }

func NewMachinesHandler(svc service.MachineService) *MachinesHandler {
	return &MachinesHandler{svc: svc}
}

// Create godoc
// @Summary      Register machine
// @Description  Registers equipment at a client site. Serial numbers are globally unique.
// @Tags         machines
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateMachineRequest true "Machine data"
// @Success      201  {object} dto.MachineResponse
// @Failure      409  {object} apierror.Error
// @Router       /v1/machines [post]
func (h *MachinesHandler) Create(c *gin.Context) {
	var req dto.CreateMachineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary      Update machine
// @Tags         machines
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Machine UUID"
// @Param        body body dto.UpdateMachineRequest true "Fields to change"
// @Success      200  {object} dto.MachineResponse
// @Router       /v1/machines/{id} [put]
func (h *MachinesHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateMachineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get machine
// @Tags         machines
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Machine UUID"
// @Success      200 {object} dto.MachineResponse
// @Router       /v1/machines/{id} [get]
func (h *MachinesHandler) Get(c *gin.Context) {
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
// @Summary      List machines
// @Tags         machines
// @Produce      json
// @Security     BearerAuth
// @Param        client_id query string false "Filter by client"
// @Param        status    query string false "active | maintenance | out_of_service"
// @Param        page      query int    false "Page (default 1)"
// @Param        limit     query int    false "Records per page (default 100)"
// @Success      200 {array} dto.MachineResponse
// @Router       /v1/machines [get]
func (h *MachinesHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	filter := dto.MachineFilter{
		ClientID: c.Query("client_id"),
		Status:   c.Query("status"),
		Page:     page,
		Limit:    limit,
	}
	data, total, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "total": total, "page": page, "limit": limit})
}
