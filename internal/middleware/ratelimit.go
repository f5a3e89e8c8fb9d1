package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meetfair/meetpoint-backend-go/pkg/response"
)

// window tracks request counts for one client within a fixed window
type window struct {
	start time.Time
	count int
}

// RateLimiter implements a fixed-window rate limiter keyed by client IP.
// Optimization runs spend external matrix budget, so the limit guards the
// provider quota as much as the server itself.
type RateLimiter struct {
	windows map[string]*window
	mu      sync.Mutex
	limit   int
	period  time.Duration
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
	}

	go rl.cleanup()

	return rl
}

// cleanup drops expired windows periodically
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.period)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, w := range rl.windows {
			if now.Sub(w.start) >= rl.period {
				delete(rl.windows, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow reports whether a request from the given IP may proceed, and if
// not, how long until the current window resets.
func (rl *RateLimiter) Allow(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	w, ok := rl.windows[ip]
	if !ok || now.Sub(w.start) >= rl.period {
		rl.windows[ip] = &window{start: now, count: 1}
		return true, 0
	}

	if w.count >= rl.limit {
		return false, rl.period - now.Sub(w.start)
	}

	w.count++
	return true, 0
}

// RateLimit middleware limits requests per IP
func RateLimit(limit int, period time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(limit, period)

	return func(c *gin.Context) {
		ok, retryAfter := limiter.Allow(c.ClientIP())
		if !ok {
			seconds := int(retryAfter.Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(seconds))
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			c.Abort()
			return
		}

		c.Next()
	}
}
