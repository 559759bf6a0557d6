package handler

import (
	"net/http"

	"github.com/lesdavils/MedimexResolv/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Overview godoc
// @Summary      Operational overview
// @Description  Ticket counters, resolution rate, recent activity, today's planned tickets and low-stock parts. Recomputed on every call.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.DashboardResponse
// @Router       /v1/dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	resp, err := h.svc.Overview(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
