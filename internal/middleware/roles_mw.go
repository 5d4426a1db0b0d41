package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"lms_backend/internal/metrics"
	"lms_backend/internal/model"

	"github.com/gin-gonic/gin"
)

var ErrForbidden = errors.New("forbidden")

// Authorize admits identity if its role is one of allowedRoles. Matching is
// exact membership: admin does not implicitly satisfy an instructor route.
func Authorize(identity Identity, allowedRoles ...model.Role) error {
	if !slices.Contains(allowedRoles, identity.Role) {
		return ErrForbidden
	}
	return nil
}

// RoleMiddleware creates a middleware to check for specific user roles.
// It must run after JWTAuthMiddleware.
func RoleMiddleware(logger *slog.Logger, allowedRoles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			// Route wiring bug, not a client error.
			logger.ErrorContext(c.Request.Context(), "Role check reached without an authenticated identity",
				"path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if err := Authorize(identity, allowedRoles...); err != nil {
			metrics.AuthRejectionsTotal.WithLabelValues("forbidden").Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			return
		}

		c.Next()
	}
}

// AdminMiddleware checks if the user is an admin
func AdminMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return RoleMiddleware(logger, model.RoleAdmin)
}

// InstructorMiddleware checks if the user is an instructor
func InstructorMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return RoleMiddleware(logger, model.RoleInstructor)
}
