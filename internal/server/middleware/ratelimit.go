// file: internal/server/middleware/ratelimit.go
// version: 1.1.0
// guid: 2f8d6b40-9c3e-47a1-b0d8-5e7a2c4f9b16

package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/sfalken/quickbar/internal/config"
)

const (
	// sweepInterval bounds how often idle visitors are pruned.
	sweepInterval = time.Minute
	// visitorTTL is how long an idle client keeps its token bucket.
	visitorTTL = 15 * time.Minute
)

type visitor struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter throttles requests per client IP. Search traffic arrives
// one request per keystroke, so the refill rate is generous and the burst
// must cover a fast typist.
type IPRateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	every     rate.Limit
	burst     int
	lastSweep time.Time
}

// New builds a limiter from the rate-limit section of the app config.
// Zero or negative settings are clamped to one request per minute.
func New(cfg config.RateLimitConfig) *IPRateLimiter {
	rpm := cfg.RequestsPerMinute
	if rpm < 1 {
		rpm = 1
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{
		visitors:  make(map[string]*visitor),
		every:     rate.Every(time.Minute / time.Duration(rpm)),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

func (l *IPRateLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > sweepInterval {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) > visitorTTL {
				delete(l.visitors, key)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{bucket: rate.NewLimiter(l.every, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.bucket.Allow()
}

// Middleware rejects over-limit requests with 429 and the same error
// envelope the server's Respond helpers produce.
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !l.allow(ip, time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":  "rate limit exceeded",
				"code":   "RATE_LIMITED",
				"status": http.StatusTooManyRequests,
			})
			return
		}
		c.Next()
	}
}
