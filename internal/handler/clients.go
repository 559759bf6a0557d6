package handler

import (
	"net/http"
	"strconv"

	"github.com/lesdavils/MedimexResolv/internal/dto"
	"github.com/lesdavils/MedimexResolv/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientsHandler struct{ svc service.ClientService }

func NewClientsHandler(svc service.ClientService) *ClientsHandler {
	return &ClientsHandler{svc: svc}
}

// Create godoc
// @Summary      Create client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateClientRequest true "Client data"
// @Success      201  {object} dto.ClientResponse
// @Router       /v1/clients [post]
func (h *ClientsHandler) Create(c *gin.Context) {
	var req dto.CreateClientRequest
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
// @Summary      Update client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Client UUID"
// @Param        body body dto.UpdateClientRequest true "Fields to change"
// @Success      200  {object} dto.ClientResponse
// @Router       /v1/clients/{id} [put]
func (h *ClientsHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateClientRequest
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
// @Summary      Get client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Client UUID"
// @Success      200 {object} dto.ClientResponse
// @Router       /v1/clients/{id} [get]
func (h *ClientsHandler) Get(c *gin.Context) {
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
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        name  query string false "Name filter (substring)"
// @Param        page  query int    false "Page (default 1)"
// @Param        limit query int    false "Records per page (default 100)"
// @Success      200 {array} dto.ClientResponse
// @Router       /v1/clients [get]
func (h *ClientsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	data, total, err := h.svc.List(c.Request.Context(), c.Query("name"), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "total": total, "page": page, "limit": limit})
}
