package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_submissions_total",
			Help: "Report submissions by file kind and terminal state",
		},
		[]string{"kind", "outcome"},
	)

	analysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_analysis_duration_seconds",
			Help:    "Round trip to the analysis service in seconds",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"kind"},
	)

	sessionRehydrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_rehydrations_total",
			Help: "Session rehydration attempts by result",
		},
		[]string{"result"},
	)

	sessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Sessions currently held by the registry",
		},
	)
)

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Middleware records request counts and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordSubmission records a finished submission.
func RecordSubmission(kind, outcome string, duration time.Duration) {
	if kind == "" {
		kind = "unknown"
	}
	submissionsTotal.WithLabelValues(kind, outcome).Inc()
	if duration > 0 {
		analysisDuration.WithLabelValues(kind).Observe(duration.Seconds())
	}
}

// RecordRehydration records one rehydration attempt: restored, empty or corrupt.
func RecordRehydration(result string) {
	sessionRehydrations.WithLabelValues(result).Inc()
}

// SessionOpened and SessionClosed track the registry size.
func SessionOpened() {
	sessionsActive.Inc()
}

func SessionClosed() {
	sessionsActive.Dec()
}
