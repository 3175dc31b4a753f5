package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window request counter keyed by caller.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type window struct {
	used    int
	started time.Time
}

const (
	defaultRateLimit  = 300
	defaultRatePeriod = time.Minute
)

// NewRateLimiter allows limit requests per period for each key. Stale keys are
// swept every two periods until Stop is called. Non-positive values fall back
// to 300 requests per minute.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = defaultRateLimit
	}
	if period <= 0 {
		period = defaultRatePeriod
	}
	rl := &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.sweep(2 * period)
	return rl
}

// Stop ends the background sweep.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evictStale()
		}
	}
}

func (rl *RateLimiter) evictStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-2 * rl.period)
	for key, w := range rl.windows {
		if w.started.Before(cutoff) {
			delete(rl.windows, key)
		}
	}
}

// Allow consumes one request for key and reports whether it fits the window.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || now.Sub(w.started) >= rl.period {
		rl.windows[key] = &window{used: 1, started: now}
		return true
	}
	if w.used >= rl.limit {
		return false
	}
	w.used++
	return true
}

// Remaining returns how many requests key may still make in its window.
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || rl.now().Sub(w.started) >= rl.period {
		return rl.limit
	}
	return rl.limit - w.used
}

// Limit returns the per-window request budget.
func (rl *RateLimiter) Limit() int {
	return rl.limit
}

// RateLimit limits by restaurant and user once a principal is resolved, and by
// client IP otherwise.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, callerKey)
}

// RateLimitByKey limits requests grouped by keyFunc.
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)
		if !limiter.Allow(key) {
			c.Header("Retry-After", strconv.Itoa(int(limiter.period.Seconds())))
			abortWithError(c, http.StatusTooManyRequests, dto.ErrCodeRateLimited, "Too many requests, please retry later")
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))
		c.Next()
	}
}

func callerKey(c *gin.Context) string {
	if p, ok := GetPrincipal(c); ok {
		return p.RestaurantID.String() + ":" + p.UserID.String()
	}
	if userID := GetJWTUserID(c); userID != "" {
		return "user:" + userID
	}
	return "ip:" + c.ClientIP()
}
