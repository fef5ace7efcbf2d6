package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/sentinela/internal/auth"
	"github.com/your-org/sentinela/internal/models"
	"github.com/your-org/sentinela/internal/observability"
)

// LoggingMiddleware logs each request with slog.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		slog.Info("request",
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration", duration.String(),
			"ip", c.ClientIP(),
		)

		observability.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			fmt.Sprintf("%d", status),
		).Observe(duration.Seconds())
	}
}

// AuditRecorder persists audit log entries.
type AuditRecorder interface {
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
}

// AuditMiddleware records the action after the handler completes
// successfully. Failed requests are not audited.
func AuditMiddleware(recorder AuditRecorder, action, targetEntity string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		details, _ := json.Marshal(gin.H{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		entry := &models.AuditLog{
			Action:       action,
			Actor:        auth.CurrentPrincipal(c).Name,
			TargetEntity: targetEntity,
			Details:      details,
			IPAddress:    c.ClientIP(),
		}

		// Audit writes never fail the request they describe.
		if err := recorder.CreateAuditLog(c.Request.Context(), entry); err != nil {
			slog.Error("write audit log", "action", action, "error", err)
		}
	}
}
