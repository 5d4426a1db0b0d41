package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"lms_backend/internal/metrics"
	"lms_backend/internal/model"
	"lms_backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// IdentityKey is the gin context key holding the authenticated Identity
const IdentityKey = "authIdentity"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	errMissingHeader   = errors.New("missing authorization header")
	errMalformedHeader = errors.New("malformed authorization header")
)

// Identity is the authenticated caller resolved from a bearer token
type Identity struct {
	UserID string
	Role   model.Role
}

// Authenticate resolves an Authorization header value to an Identity. Every
// failure wraps ErrUnauthenticated; the cause is kept for logging only.
func Authenticate(jwtUtil *utils.JWTUtil, authHeader string) (Identity, error) {
	if authHeader == "" {
		return Identity{}, fmt.Errorf("%w: %w", ErrUnauthenticated, errMissingHeader)
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return Identity{}, fmt.Errorf("%w: %w", ErrUnauthenticated, errMalformedHeader)
	}

	claims, err := jwtUtil.ValidateToken(parts[1])
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

// JWTAuthMiddleware creates a middleware for JWT authentication. Clients get
// the same response whether the token was missing, forged or expired.
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := Authenticate(jwtUtil, c.GetHeader("Authorization"))
		if err != nil {
			reason := rejectionReason(err)
			metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
			logger.DebugContext(c.Request.Context(), "Authentication failed",
				"reason", reason, "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(IdentityKey, identity)

		c.Next()
	}
}

// IdentityFrom returns the identity stored by JWTAuthMiddleware
func IdentityFrom(c *gin.Context) (Identity, bool) {
	val, exists := c.Get(IdentityKey)
	if !exists {
		return Identity{}, false
	}
	identity, ok := val.(Identity)
	return identity, ok
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, errMissingHeader):
		return "missing_header"
	case errors.Is(err, errMalformedHeader):
		return "malformed_header"
	default:
		return utils.Reason(err)
	}
}
