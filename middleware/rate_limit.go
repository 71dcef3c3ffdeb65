package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"blogmetrics/utils"
)

// RateLimit rejects clients that exceed limit requests within a fixed window,
// counted per client IP in the shared counter store. The window starts on a
// client's first request and the counter expires with it, so the ceiling is
// approximate under concurrent increments; rejected requests carry a
// retry_after hint of one full window. Counter-store errors fail open.
func RateLimit(counter utils.WindowCounter, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + c.ClientIP()
		n, err := counter.Incr(c.Request.Context(), key, window)
		if err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Warnf("rate limit counter unavailable, allowing request: %v", err)
			}
			c.Next()
			return
		}
		if n > limit {
			utils.RateLimited(c, int(window/time.Second))
			return
		}
		c.Next()
	}
}
