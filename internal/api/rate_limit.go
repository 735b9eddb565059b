package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type requestLimiter interface {
	Allow() bool
}

// fixedWindowLimiter admits at most limit requests per wall-clock minute.
type fixedWindowLimiter struct {
	mu          sync.Mutex
	limit       int
	windowStart time.Time
	count       int
	now         func() time.Time
}

func newFixedWindowLimiter(limit int, now func() time.Time) *fixedWindowLimiter {
	if now == nil {
		now = time.Now
	}
	return &fixedWindowLimiter{limit: limit, now: now}
}

func (l *fixedWindowLimiter) Allow() bool {
	window := l.now().UTC().Truncate(time.Minute)

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.windowStart.Equal(window) {
		l.windowStart = window
		l.count = 0
	}
	if l.count >= l.limit {
		return false
	}
	l.count++
	return true
}

// newTranslateLimiter returns nil when limit is 0, which disables limiting.
func newTranslateLimiter(limit int) requestLimiter {
	if limit <= 0 {
		return nil
	}
	return newFixedWindowLimiter(limit, time.Now)
}

func enforceRateLimit(c *gin.Context, limiter requestLimiter) bool {
	if limiter == nil || limiter.Allow() {
		return true
	}
	writeError(c, http.StatusTooManyRequests, "rate_limited", "translate rate limit exceeded")
	return false
}
