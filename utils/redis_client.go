package utils

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"blogmetrics/config"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// GetRedis returns the shared client backing the response cache and the
// rate-limit counters. Both consumers tolerate an unreachable store, so a
// failed boot ping is logged and the process keeps serving.
func GetRedis() *redis.Client {
	redisOnce.Do(func() {
		cfg := config.Get()
		redisClient = redis.NewClient(&redis.Options{
			Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  3 * time.Second,
			ReadTimeout:  storeCallTimeout,
			WriteTimeout: storeCallTimeout,
		})

		ctx, cancel := context.WithTimeout(context.Background(), storeCallTimeout)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil && Sugar != nil {
			Sugar.Warnf("redis unreachable at boot, caching and rate limiting degrade: %v", err)
		}
	})
	return redisClient
}
