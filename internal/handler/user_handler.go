package handler

import (
	"log/slog"
	"net/http"

	"lms_backend/internal/model"
	"lms_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves profile endpoints for authenticated users
type UserHandler struct {
	service service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: s, logger: logger}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve profile")
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), identity.UserID, req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

func (h *UserHandler) GetMyPortfolio(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	portfolio, err := h.service.GetPortfolio(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve portfolio")
		return
	}
	c.JSON(http.StatusOK, portfolio)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve users")
		return
	}

	out := make([]model.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	c.JSON(http.StatusOK, out)
}

// RegisterUserRoutes registers profile routes behind authMW; listing all
// users additionally requires adminMW.
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	userGroup := rg.Group("/users")
	userGroup.Use(authMW)
	{
		userGroup.GET("/me", h.GetMe)
		userGroup.PATCH("/me", h.UpdateMe)
		userGroup.GET("/me/portfolio", h.GetMyPortfolio)
		userGroup.GET("", adminMW, h.ListUsers)
	}
}
