package middleware

import (
	"net/http"
	"sync"
	"time"

	"stockroom/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rate_limiter.go
// Fixed-window per-IP limiting. Two instances are wired: a global one over
// the whole API (API_RATE_LIMIT) and a tighter one on the credential
// endpoints (LOGIN_RATE_LIMIT). Counters live in process memory; the
// janitor goroutine drops windows that have lapsed.

// ipWindow counts requests from one IP inside the current window.
type ipWindow struct {
	mu    sync.Mutex
	hits  int
	reset time.Time
}

// limiter owns the per-IP windows for one middleware instance.
type limiter struct {
	mu      sync.Mutex
	byIP    map[string]*ipWindow
	limit   int
	window  time.Duration
	message string
}

func newLimiter(limit int, window time.Duration, message string) *limiter {
	l := &limiter{
		byIP:    make(map[string]*ipWindow),
		limit:   limit,
		window:  window,
		message: message,
	}
	go l.janitor()
	return l
}

func (l *limiter) handle(c *gin.Context) {
	ip := c.ClientIP()

	l.mu.Lock()
	w, ok := l.byIP[ip]
	if !ok {
		w = &ipWindow{}
		l.byIP[ip] = w
	}
	l.mu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if now.After(w.reset) {
		w.hits = 0
		w.reset = now.Add(l.window)
	}
	w.hits++
	if w.hits > l.limit {
		c.Header("Retry-After", w.reset.Format(time.RFC1123))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.message))
		return
	}
	c.Next()
}

const janitorInterval = 5 * time.Minute

// janitor drops lapsed windows so IPs that never return do not accumulate.
func (l *limiter) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		purged := 0

		l.mu.Lock()
		for ip, w := range l.byIP {
			w.mu.Lock()
			if now.After(w.reset) {
				delete(l.byIP, ip)
				purged++
			}
			w.mu.Unlock()
		}
		l.mu.Unlock()

		if purged > 0 {
			log.Debug().Int("windows_purged", purged).Msg("rate limiter map purged")
		}
	}
}

// RateLimiter limits every endpoint to limit requests per window per IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newLimiter(limit, window, "too many requests, retry shortly")
	return l.handle
}

// LoginRateLimiter limits credential attempts to limit per minute per IP.
func LoginRateLimiter(limit int) gin.HandlerFunc {
	l := newLimiter(limit, time.Minute, "too many login attempts, retry in 1 minute")
	return l.handle
}
