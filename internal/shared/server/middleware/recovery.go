package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"medreport/internal/shared/server/respond"
	"medreport/internal/shared/telemetry"
)

// Recovery turns a panic in a view or handler into a 500 error envelope.
// The session's stored analysis is left as it was.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			c.Set(OutcomeKey, "panic")
			telemetry.Error("request.panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"session_id": SessionIDFromContext(c),
				"tab":        c.GetString(TabKey),
				"error":      rec,
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			})
			respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
