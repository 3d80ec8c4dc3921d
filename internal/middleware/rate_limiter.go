package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/ElenaG-E/temucosoft/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Fixed-window per-IP limiter. One instance per route group; each keeps its
// own window map so the login limiter and the general limiter never share
// counters.

type ipWindow struct {
	hits    int
	resetAt time.Time
}

type limiter struct {
	mu      sync.Mutex
	windows map[string]*ipWindow
	limit   int
	window  time.Duration
	message string
}

func newLimiter(limit int, window time.Duration, message string) *limiter {
	l := &limiter{
		windows: make(map[string]*ipWindow),
		limit:   limit,
		window:  window,
		message: message,
	}
	go l.sweep()
	return l
}

// allow counts a hit and reports whether the caller is still under the
// limit, plus when the window resets.
func (l *limiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[ip]
	if !ok || now.After(w.resetAt) {
		w = &ipWindow{resetAt: now.Add(l.window)}
		l.windows[ip] = w
	}
	w.hits++
	return w.hits <= l.limit, w.resetAt
}

// sweep drops expired windows so IPs that never return do not leak.
func (l *limiter) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		purged := 0
		l.mu.Lock()
		for ip, w := range l.windows {
			if now.After(w.resetAt) {
				delete(l.windows, ip)
				purged++
			}
		}
		l.mu.Unlock()
		if purged > 0 {
			log.Debug().Int("purged", purged).Msg("rate limiter windows purged")
		}
	}
}

func (l *limiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, resetAt := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", resetAt.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.message))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter caps login attempts at 20 per minute per IP to slow down
// credential stuffing.
func LoginRateLimiter() gin.HandlerFunc {
	return newLimiter(20, time.Minute, "too many login attempts, try again in a minute").handler()
}

// RateLimiter is the general per-IP limiter applied to the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return newLimiter(limit, window, "too many requests, try again shortly").handler()
}
