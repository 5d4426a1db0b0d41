package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"lms_backend/internal/middleware"
	"lms_backend/internal/service"
	"lms_backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports store reachability for the health check
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps carries everything the HTTP surface needs
type RouterDeps struct {
	Logger           *slog.Logger
	JWT              *utils.JWTUtil
	Registry         *prometheus.Registry
	DB               Pinger
	AuthService      service.AuthService
	PasswordService  service.PasswordResetService
	UserService      service.UserService
	ComplaintService service.ComplaintService
}

// NewRouter builds the gin engine with every route registered
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(deps.Logger),
		gin.Recovery(),
		middleware.CORS(),
	)

	jwtAuthMW := middleware.JWTAuthMiddleware(deps.JWT, deps.Logger)
	adminRoleMW := middleware.AdminMiddleware(deps.Logger)
	instructorRoleMW := middleware.InstructorMiddleware(deps.Logger)

	apiGroup := router.Group("/api")
	NewAuthHandler(deps.AuthService, deps.Logger).RegisterAuthRoutes(apiGroup)
	NewPasswordHandler(deps.PasswordService, deps.Logger).RegisterPasswordRoutes(apiGroup)
	NewUserHandler(deps.UserService, deps.Logger).RegisterUserRoutes(apiGroup, jwtAuthMW, adminRoleMW)
	NewComplaintHandler(deps.ComplaintService, deps.Logger).
		RegisterComplaintRoutes(apiGroup, jwtAuthMW, instructorRoleMW, adminRoleMW)

	router.GET("/health", func(c *gin.Context) {
		if deps.DB != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.DB.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	if deps.Registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	return router
}
