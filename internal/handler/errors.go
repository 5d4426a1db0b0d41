package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"lms_backend/internal/middleware"
	"lms_backend/internal/service"
	"lms_backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// errorStatus maps service errors onto the HTTP error taxonomy. Only the
// listed errors have client-safe messages.
var errorStatus = []struct {
	err     error
	status  int
	message string
}{
	{service.ErrInvalidRole, http.StatusBadRequest, "Invalid role specified"},
	{service.ErrInvalidPassword, http.StatusBadRequest, service.ErrInvalidPassword.Error()},
	{utils.ErrInvalidToken, http.StatusBadRequest, "Invalid or expired token"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{service.ErrForbidden, http.StatusForbidden, "You do not have permission to access this resource"},
	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{service.ErrComplaintNotFound, http.StatusNotFound, "Complaint not found"},
	{service.ErrPortfolioNotFound, http.StatusNotFound, "Portfolio not found"},
	{service.ErrDuplicateEmail, http.StatusConflict, "User already exists"},
	{service.ErrDuplicateUsername, http.StatusConflict, "Username already taken"},
}

// respondError writes the mapped status for err. Anything unmapped is logged
// with its full chain and answered with a generic 500.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{"error": e.message})
			return
		}
	}
	logger.ErrorContext(c.Request.Context(), fallback,
		"error", err,
		"path", c.Request.URL.Path,
		"request_id", c.GetString(middleware.RequestIDHeader),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
}

// mustIdentity returns the caller identity, answering 401 when it is absent
func mustIdentity(c *gin.Context) (middleware.Identity, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return identity, ok
}
