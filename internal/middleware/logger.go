package middleware

import (
	"log/slog"
	"time"

	"lms_backend/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Logger logs every completed request and records it in the HTTP metrics
func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		requestID := c.GetString(RequestIDHeader)
		status := c.Writer.Status()
		metrics.ObserveRequest(c.Request.Method, c.FullPath(), status, latency)

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		}
		log.Log(c.Request.Context(), level, "request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", latency,
			"request_id", requestID,
			"ip", c.ClientIP(),
		)
	}
}
