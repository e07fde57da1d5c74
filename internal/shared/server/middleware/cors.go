package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"medreport/internal/shared/server/respond"
)

const anyOrigin = "*"

var (
	corsAllowMethods  = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}, ",")
	corsAllowHeaders  = strings.Join([]string{"Content-Type", SessionHeader, RequestIDHeader}, ", ")
	corsExposeHeaders = strings.Join([]string{RequestIDHeader, SessionHeader}, ", ")
)

// CORS lets the dashboard origins call the API with their session header.
// A "*" entry admits any origin, but such responses never allow credentials.
// Preflights from origins that are not admitted are refused.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	origins := make(map[string]struct{})
	wildcard := false
	for _, o := range allowedOrigins {
		trimmed := strings.TrimRight(strings.TrimSpace(o), "/")
		switch trimmed {
		case "":
		case anyOrigin:
			wildcard = true
		default:
			origins[trimmed] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		preflight := c.Request.Method == http.MethodOptions
		if origin == "" {
			if preflight {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Add("Vary", "Origin")
		_, listed := origins[origin]
		if !listed && !wildcard {
			if preflight {
				respond.Error(c, http.StatusForbidden, "cors_origin", "Origin not allowed", nil)
				return
			}
			c.Next()
			return
		}

		h.Set("Access-Control-Allow-Origin", origin)
		if listed {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
		if preflight {
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Max-Age", "600")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
