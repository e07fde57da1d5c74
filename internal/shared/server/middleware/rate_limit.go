package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	defaultRateLimitGroup = "DEFAULT"
	defaultMaxBuckets     = 10000
	defaultBucketIdleTTL  = 10 * time.Minute
)

type RateLimitRule struct {
	Rate  float64
	Burst int
}

type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      *RateLimiter
}

// RateLimiter keeps one token bucket per principal and group. Buckets idle
// for longer than the bucket TTL are dropped, and at most maxBuckets are kept.
type RateLimiter struct {
	mu      sync.Mutex
	buckets *expirable.LRU[string, *rate.Limiter]
	now     func() time.Time
}

type RateLimiterOption func(*rateLimiterOptions)

type rateLimiterOptions struct {
	maxBuckets int
	idleTTL    time.Duration
}

// WithMaxBuckets caps how many buckets are tracked; the least recently used goes first.
func WithMaxBuckets(n int) RateLimiterOption {
	return func(o *rateLimiterOptions) { o.maxBuckets = n }
}

// WithBucketTTL sets how long an unused bucket is kept.
func WithBucketTTL(d time.Duration) RateLimiterOption {
	return func(o *rateLimiterOptions) { o.idleTTL = d }
}

func NewRateLimiter(now func() time.Time, opts ...RateLimiterOption) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	o := rateLimiterOptions{maxBuckets: defaultMaxBuckets, idleTTL: defaultBucketIdleTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxBuckets <= 0 {
		o.maxBuckets = defaultMaxBuckets
	}
	if o.idleTTL <= 0 {
		o.idleTTL = defaultBucketIdleTTL
	}
	return &RateLimiter{
		buckets: expirable.NewLRU[string, *rate.Limiter](o.maxBuckets, nil, o.idleTTL),
		now:     now,
	}
}

// Len reports how many buckets are tracked.
func (l *RateLimiter) Len() int {
	if l == nil {
		return 0
	}
	return l.buckets.Len()
}

func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = defaultRateLimitGroup
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		principal := strings.TrimSpace(SessionIDFromContext(c))
		if principal == "" {
			principal = strings.TrimSpace(c.ClientIP())
		}
		key := principal + "|" + group
		allowed, retryAfter := cfg.Limiter.Allow(key, rule)
		if allowed {
			c.Next()
			return
		}
		retryAfterMs := int(retryAfter / time.Millisecond)
		if retryAfterMs <= 0 {
			retryAfterMs = 1000
		}
		retryAfterSeconds := int(math.Ceil(float64(retryAfterMs) / 1000.0))
		if retryAfterSeconds <= 0 {
			retryAfterSeconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":        "rate_limited",
			"retryAfterMs": retryAfterMs,
		})
		c.Abort()
	}
}

// Allow takes one token for key. When the bucket is empty it reports how long until one is available.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	if rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	limiter, ok := l.buckets.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(rule.Rate), rule.Burst)
	}
	// Re-adding refreshes the idle timer.
	l.buckets.Add(key, limiter)
	l.mu.Unlock()

	if limiter.AllowN(now, 1) {
		return true, 0
	}
	reservation := limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, time.Second
	}
	wait := reservation.DelayFrom(now)
	reservation.CancelAt(now)
	return false, wait
}
