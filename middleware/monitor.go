package middleware

import (
	"encoding/json"
	"math"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"blogmetrics/models"
)

// Monitor times each analytics request, samples system CPU/memory around it,
// emits one structured log entry, and appends a QueryOptimization telemetry
// record. The record write is fire-and-forget: telemetry never fails a
// response.
func Monitor(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		startCPU := sampleCPU()
		startMem := sampleMemory()

		requestID := uuid.NewString()
		c.Set(CtxRequestID, requestID)

		c.Next()

		elapsed := time.Since(start)
		cpuDelta := sampleCPU() - startCPU
		memDelta := sampleMemory() - startMem

		responseMs := round2(float64(elapsed.Microseconds()) / 1000)
		cpuDelta = round2(cpuDelta)
		memDelta = round2(memDelta)
		cacheHit := c.GetBool(CtxCacheHit)
		query := c.Request.URL.Query()

		logger.Info("analytics request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Any("query_params", query),
			zap.Int("status", c.Writer.Status()),
			zap.Float64("response_time_ms", responseMs),
			zap.Float64("cpu_usage_percent", cpuDelta),
			zap.Float64("memory_usage_percent", memDelta),
			zap.Bool("cache_hit", cacheHit),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)

		if db == nil {
			return
		}
		params, err := json.Marshal(query)
		if err != nil {
			params = []byte("{}")
		}
		_ = db.Create(&models.QueryOptimization{
			Endpoint:       c.Request.URL.Path,
			Method:         c.Request.Method,
			QueryParams:    string(params),
			ExecutionTime:  elapsed.Seconds(),
			ResultCount:    uint(c.GetInt(CtxResultCount)),
			CacheHit:       cacheHit,
			CPUUsage:       cpuDelta,
			MemoryUsage:    memDelta,
			DBQueriesCount: uint(c.GetInt(CtxDBQueries)),
		}).Error
	}
}

// sampleCPU returns the system-wide CPU utilization percentage since the
// previous call (gopsutil keeps the last sample internally).
func sampleCPU() float64 {
	percents, err := cpu.Percent(0, false)
	if err != nil || len(percents) == 0 {
		return 0
	}
	return percents[0]
}

func sampleMemory() float64 {
	stat, err := mem.VirtualMemory()
	if err != nil {
		return 0
	}
	return stat.UsedPercent
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
