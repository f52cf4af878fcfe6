package handlers

import (
	"net/http"

	"github.com/moesamiii/production/internal/services"
	"github.com/moesamiii/production/internal/services/dto"
	"github.com/moesamiii/production/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/admin/login", h.AdminLogin)
	}
}

// AdminLogin exchanges the shared admin password for a short-lived
// bearer token. Wrong passwords get the same 401 regardless of cause.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req dto.AdminLoginRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.authService.AdminLogin(req.Password)
	if err != nil {
		if apperrors.Is(err, services.ErrInvalidPassword) || apperrors.Is(err, services.ErrAdminDisabled) {
			h.HandleServiceError(c, apperrors.NewUnauthorizedError("Incorrect password"))
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
