package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"medreport/internal/shared/telemetry"
)

// Context keys handlers set so the request log can report them.
const (
	ReportKindKey = "reportKind"
	OutcomeKey    = "outcome"
	TabKey        = "tab"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"session_id":  SessionIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"report_kind": c.GetString(ReportKindKey),
			"outcome":     c.GetString(OutcomeKey),
			"tab":         c.GetString(TabKey),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
