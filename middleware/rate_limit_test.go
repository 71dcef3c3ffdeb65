package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: map[string]int64{}}
}

func (f *fakeCounter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.counts[key]++
	return f.counts[key], nil
}

// reset simulates the window expiring for every client.
func (f *fakeCounter) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts = map[string]int64{}
}

func rateLimitRouter(counter *fakeCounter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/analytics/top", RateLimit(counter, 50, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusOK, []any{})
	})
	return r
}

func TestRateLimit_FiftyFirstRequestIsRejected(t *testing.T) {
	counter := newFakeCounter()
	r := rateLimitRouter(counter)

	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/top", nil))
		require.Equal(t, http.StatusOK, w.Code, "request %d must pass", i+1)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/top", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var body struct {
		Error      string `json:"error"`
		RetryAfter int    `json:"retry_after"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "Rate limit exceeded")
	assert.Equal(t, 60, body.RetryAfter)

	// One window later the counter has expired and requests pass again.
	counter.reset()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/top", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_CountsPerClientIP(t *testing.T) {
	counter := newFakeCounter()
	r := rateLimitRouter(counter)

	req := httptest.NewRequest(http.MethodGet, "/analytics/top", nil)
	req.RemoteAddr = "10.0.0.1:12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req2 := httptest.NewRequest(http.MethodGet, "/analytics/top", nil)
	req2.RemoteAddr = "10.0.0.2:12345"
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req2)
	require.Equal(t, http.StatusOK, w2.Code)

	assert.Equal(t, int64(1), counter.counts["ratelimit:10.0.0.1"])
	assert.Equal(t, int64(1), counter.counts["ratelimit:10.0.0.2"])
}

func TestRateLimit_FailsOpenOnCounterErrors(t *testing.T) {
	counter := newFakeCounter()
	counter.err = errors.New("counter store unreachable")
	r := rateLimitRouter(counter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/top", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
