package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimiterConfig bounds the per-user request rate and the limiter's own
// memory.
type RateLimiterConfig struct {
	// RatePerSecond is the steady-state refill rate per user.
	RatePerSecond float64

	// Burst is the bucket capacity.
	Burst float64

	// TTL is how long an idle bucket survives before eviction.
	TTL time.Duration

	// MaxBuckets caps how many user buckets may exist at once. When the cap
	// is hit the stalest bucket is evicted, so memory stays bounded no
	// matter how many distinct users appear.
	MaxBuckets int
}

// RateLimiter is a bounded per-key token bucket store. Idle buckets expire
// after the TTL; the bucket count never exceeds MaxBuckets.
type RateLimiter struct {
	cfg     RateLimiterConfig
	mu      sync.Mutex
	buckets map[string]*tokenBucket
}

type tokenBucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewRateLimiter creates a bounded rate limiter.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	return &RateLimiter{
		cfg:     cfg,
		buckets: make(map[string]*tokenBucket),
	}
}

// Allow reports whether the keyed caller may proceed at the given time.
func (l *RateLimiter) Allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		l.evictLocked(now)
		b = &tokenBucket{tokens: l.cfg.Burst}
		l.buckets[key] = b
	} else {
		elapsed := now.Sub(b.lastSeen).Seconds()
		b.tokens = min(l.cfg.Burst, b.tokens+elapsed*l.cfg.RatePerSecond)
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Len returns the current bucket count.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// evictLocked drops expired buckets, and if the store is still full, the
// stalest one.
func (l *RateLimiter) evictLocked(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.cfg.TTL {
			delete(l.buckets, key)
		}
	}

	if len(l.buckets) < l.cfg.MaxBuckets {
		return
	}

	var stalest string
	var stalestSeen time.Time
	for key, b := range l.buckets {
		if stalest == "" || b.lastSeen.Before(stalestSeen) {
			stalest = key
			stalestSeen = b.lastSeen
		}
	}
	if stalest != "" {
		delete(l.buckets, stalest)
	}
}

// RateLimitMiddleware rejects callers that exceed their per-user budget.
// Keys by the authenticated actor, falling back to the client IP for
// unauthenticated routes.
func RateLimitMiddleware(limiter *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if actorID, ok := ActorFromContext(c); ok {
				key = actorID.String()
			}

			if !limiter.Allow(key, time.Now()) {
				return c.JSON(http.StatusTooManyRequests,
					errorBody(http.StatusTooManyRequests, "rate limit exceeded"))
			}
			return next(c)
		}
	}
}
