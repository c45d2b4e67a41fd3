package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const staleClientWindow = 5 * time.Minute

// RateLimiter throttles clients per IP, with separate budgets for login and
// for everything else. A login runs the whole verify-upsert-resolve chain
// against external services while a session read only re-runs the lookup, so
// logins get a tenth of the configured budget.
type RateLimiter struct {
	sessions *classLimiter
	logins   *classLimiter
}

// NewRateLimiter creates a limiter for the provided requests-per-minute
// budget. A non-positive budget disables throttling.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		return nil
	}
	loginBudget := requestsPerMinute / 10
	if loginBudget < 1 {
		loginBudget = 1
	}
	return &RateLimiter{
		sessions: newClassLimiter(requestsPerMinute),
		logins:   newClassLimiter(loginBudget),
	}
}

// Handler returns the gin middleware enforcing throttling behaviour.
func (r *RateLimiter) Handler() gin.HandlerFunc {
	if r == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		class := r.sessions
		if c.FullPath() == "/auth/login" {
			class = r.logins
		}
		if !class.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":             "rate_limited",
				"error_description": "Too many requests. Please slow down.",
			})
			return
		}

		c.Next()
	}
}

// classLimiter tracks one token bucket per client IP for a request class.
type classLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*clientEntry
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClassLimiter(requestsPerMinute int) *classLimiter {
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}
	return &classLimiter{
		limit:   rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:   burst,
		clients: make(map[string]*clientEntry),
	}
}

func (l *classLimiter) allow(key string) bool {
	now := time.Now()
	l.mu.Lock()

	entry, ok := l.clients[key]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = entry
		l.evictStaleLocked(now)
	}
	entry.lastSeen = now

	l.mu.Unlock()
	return entry.limiter.Allow()
}

func (l *classLimiter) evictStaleLocked(now time.Time) {
	for key, entry := range l.clients {
		if now.Sub(entry.lastSeen) > staleClientWindow {
			delete(l.clients, key)
		}
	}
}
