package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medreport/internal/shared/server/respond"
)

const (
	// SessionHeader carries the anonymous session identity.
	SessionHeader = "X-Session-Id"

	sessionIDKey    = "sessionId"
	maxSessionIDLen = 128
)

// Session resolves the caller's session id from the X-Session-Id header.
// A missing header starts a new session whose id is echoed back so the client can keep it.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		id := strings.TrimSpace(c.GetHeader(SessionHeader))
		if id == "" {
			id = uuid.NewString()
			c.Set("sessionNew", true)
		} else if !validSessionID(id) {
			respond.Error(c, http.StatusBadRequest, "invalid_session", "Invalid session id", nil)
			return
		}

		c.Set(sessionIDKey, id)
		c.Writer.Header().Set(SessionHeader, id)
		c.Next()
	}
}

// SessionIDFromContext fetches the session id set by the Session middleware.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(sessionIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

func validSessionID(id string) bool {
	if len(id) > maxSessionIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}
