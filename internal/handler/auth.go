package handler

import (
	"net/http"

	"github.com/lesdavils/MedimexResolv/internal/dto"
	"github.com/lesdavils/MedimexResolv/internal/middleware"
	"github.com/lesdavils/MedimexResolv/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary      Log in
// @Description  Authenticates by username or email and returns an access/refresh token pair.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.LoginRequest true "Credentials"
// @Success      200  {object} dto.LoginResponse
// @Failure      422  {object} apierror.Error
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary      Refresh tokens
// @Description  Exchanges a valid refresh token for a new token pair. The presented token is revoked.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.RefreshRequest true "Refresh token"
// @Success      200  {object} dto.LoginResponse
// @Failure      422  {object} apierror.Error
// @Router       /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the refresh token so it can no longer be exchanged.
// @Tags         auth
// @Accept       json
// @Security     BearerAuth
// @Param        body body dto.LogoutRequest true "Refresh token"
// @Success      204
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Logout(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.UserResponse
// @Router       /v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	actor := actorFrom(c)
	resp, err := h.svc.GetUser(c.Request.Context(), actor.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Capabilities godoc
// @Summary      Feature access for the current role
// @Description  Returns the features the caller's role may view; the frontend builds its navigation from this.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.CapabilitiesResponse
// @Router       /v1/auth/capabilities [get]
func (h *AuthHandler) Capabilities(c *gin.Context) {
	claims := middleware.GetClaims(c)
	c.JSON(http.StatusOK, h.svc.Capabilities(claims.Role))
}
