// file: internal/server/middleware/ratelimit_test.go
// version: 1.1.0
// guid: 8b4e2d70-1f6a-49c3-a5e8-7d0b3f9c2a54

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/sfalken/quickbar/internal/config"
)

func newLimitedRouter(limiter *IPRateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return router
}

func ping(router *gin.Engine, addr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = addr
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	router := newLimitedRouter(New(config.RateLimitConfig{RequestsPerMinute: 60, Burst: 5}))

	for i := 0; i < 5; i++ {
		w := ping(router, "10.0.0.1:1234")
		assert.Equal(t, http.StatusOK, w.Code, "request %d within burst", i)
	}
}

func TestRateLimiter_RejectsBeyondBurst(t *testing.T) {
	router := newLimitedRouter(New(config.RateLimitConfig{RequestsPerMinute: 1, Burst: 2}))

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		codes = append(codes, ping(router, "10.0.0.2:1234").Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
	assert.Equal(t, http.StatusTooManyRequests, codes[3])
}

func TestRateLimiter_ErrorEnvelope(t *testing.T) {
	router := newLimitedRouter(New(config.RateLimitConfig{RequestsPerMinute: 1, Burst: 1}))

	ping(router, "10.0.0.6:1234")
	w := ping(router, "10.0.0.6:1234")
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var body struct {
		Error  string `json:"error"`
		Code   string `json:"code"`
		Status int    `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "RATE_LIMITED", body.Code)
	assert.Equal(t, http.StatusTooManyRequests, body.Status)
	assert.NotEmpty(t, body.Error)
}

func TestRateLimiter_TracksIPsIndependently(t *testing.T) {
	router := newLimitedRouter(New(config.RateLimitConfig{RequestsPerMinute: 1, Burst: 1}))

	for _, addr := range []string{"10.0.0.3:1", "10.0.0.4:1", "10.0.0.5:1"} {
		w := ping(router, addr)
		assert.Equal(t, http.StatusOK, w.Code, "first request from %s", addr)
	}
}

func TestRateLimiter_SweepsIdleVisitors(t *testing.T) {
	limiter := New(config.RateLimitConfig{RequestsPerMinute: 60, Burst: 1})

	now := time.Now()
	limiter.allow("10.0.0.7", now)
	limiter.allow("10.0.0.8", now.Add(visitorTTL+time.Minute))

	// The second visitor arrives past the idle TTL of the first and more
	// than a sweep interval after construction, so the first is pruned.
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.NotContains(t, limiter.visitors, "10.0.0.7")
	assert.Contains(t, limiter.visitors, "10.0.0.8")
}

func TestRateLimiter_ClampsInvalidConfig(t *testing.T) {
	limiter := New(config.RateLimitConfig{RequestsPerMinute: 0, Burst: -3})
	assert.Equal(t, 1, limiter.burst)
	assert.Equal(t, rate.Every(time.Minute), limiter.every)
}
