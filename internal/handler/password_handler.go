package handler

import (
	"log/slog"
	"net/http"

	"lms_backend/internal/model"
	"lms_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// PasswordHandler serves the unauthenticated password reset exchange
type PasswordHandler struct {
	service service.PasswordResetService
	logger  *slog.Logger
}

// NewPasswordHandler creates a new PasswordHandler
func NewPasswordHandler(s service.PasswordResetService, logger *slog.Logger) *PasswordHandler {
	return &PasswordHandler{service: s, logger: logger}
}

// ForgotPassword emails a reset link. The token itself is never returned to
// the caller; it only travels by email.
func (h *PasswordHandler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	if _, err := h.service.RequestReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.logger, err, "Password reset request failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
}

func (h *PasswordHandler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token and new password are required"})
		return
	}

	if err := h.service.RedeemReset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		respondError(c, h.logger, err, "Password reset failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}

// RegisterPasswordRoutes registers the reset routes
func (h *PasswordHandler) RegisterPasswordRoutes(rg *gin.RouterGroup) {
	passwordGroup := rg.Group("/password")
	{
		passwordGroup.POST("/forgot-password", h.ForgotPassword)
		passwordGroup.POST("/reset-password", h.ResetPassword)
	}
}
