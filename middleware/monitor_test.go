package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func monitorEntry(t *testing.T, logs *observer.ObservedLogs) map[string]interface{} {
	t.Helper()
	entries := logs.FilterMessage("analytics request").All()
	require.Len(t, entries, 1, "exactly one telemetry entry per request")
	return entries[0].ContextMap()
}

func TestMonitor_LogsOneStructuredEntryPerRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var handlerSawID string

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/analytics/top", Monitor(nil, zap.New(core)), func(c *gin.Context) {
		handlerSawID = c.GetString(CtxRequestID)
		c.Set(CtxResultCount, 3)
		c.JSON(http.StatusOK, []any{})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/top?top=user", nil))
	require.Equal(t, http.StatusOK, w.Code)

	fields := monitorEntry(t, logs)
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/analytics/top", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, false, fields["cache_hit"])
	assert.GreaterOrEqual(t, fields["response_time_ms"].(float64), 0.0)

	// The request ID is minted before the handler runs and logged after.
	id, ok := fields["request_id"].(string)
	require.True(t, ok)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, handlerSawID)
}

func TestMonitor_LogsCacheHits(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	replay := func(c *gin.Context) {
		c.Set(CtxCacheHit, true)
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(`[]`))
		c.Abort()
	}
	r.GET("/analytics/top", Monitor(nil, zap.New(core)), replay, func(c *gin.Context) {
		t.Fatal("handler must not run behind the replay")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/top?top=user", nil))
	require.Equal(t, http.StatusOK, w.Code)

	fields := monitorEntry(t, logs)
	assert.Equal(t, true, fields["cache_hit"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
}

func TestMonitor_LogsErrorStatuses(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/analytics/top", Monitor(nil, zap.New(core)), func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "top must be user, country, or blog"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/top?top=planet", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)

	fields := monitorEntry(t, logs)
	assert.Equal(t, int64(http.StatusBadRequest), fields["status"])
	assert.Equal(t, false, fields["cache_hit"])
}
