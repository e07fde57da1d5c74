package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medreport/internal/services/health"
	"medreport/internal/session"
	"medreport/internal/shared/config"
	"medreport/internal/shared/metrics"
	"medreport/internal/shared/server/middleware"
	"medreport/internal/shared/server/respond"
	"medreport/internal/web"
)

const (
	rateLimitGroupDefault = "DEFAULT"
	rateLimitGroupUpload  = "UPLOAD"
	uploadRoute           = "/api/v1/reports"
)

// RouterDeps carries the long-lived services the routes depend on.
type RouterDeps struct {
	Config      config.Config
	Sessions    *session.Registry
	RateLimiter *middleware.RateLimiter
	Health      *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		metrics.Middleware(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	api.GET("/health", func(c *gin.Context) {
		report := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})

	scoped := api.Group("")
	scoped.Use(
		middleware.Session(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				rateLimitGroupDefault: {Rate: 10, Burst: 30},
				rateLimitGroupUpload:  {Rate: 0.2, Burst: 3},
			},
			DefaultGroup: rateLimitGroupDefault,
			GroupFor:     rateLimitGroup,
			Limiter:      deps.RateLimiter,
		}),
	)
	web.NewHandler(deps.Sessions, cfg.MaxUploadBytes).RegisterRoutes(scoped)

	return r
}

func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && c.FullPath() == uploadRoute {
		return rateLimitGroupUpload
	}
	return rateLimitGroupDefault
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
