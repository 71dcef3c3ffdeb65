package utils

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResponseCache is the key/value contract the cache middleware consumes:
// byte values with a TTL, best-effort on both sides.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// WindowCounter is the counter-store contract the rate limiter consumes.
// Incr bumps the counter for key and returns the new count; the window TTL
// is attached when the counter is created. The count is a soft ceiling:
// callers must tolerate slight over-admission under races.
type WindowCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

const storeCallTimeout = 2 * time.Second

// RedisStore backs both ports with the shared Redis client.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client; pass GetRedis() in production.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get fetches cached bytes; any error counts as a miss.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, storeCallTimeout)
	defer cancel()
	b, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if Sugar != nil && err != redis.Nil {
			Sugar.Debugf("cache get failed key=%s err=%v", key, err)
		}
		return nil, false
	}
	return b, true
}

// Set stores bytes with the given TTL; failures are logged and swallowed.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, storeCallTimeout)
	defer cancel()
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		if Sugar != nil {
			Sugar.Warnf("cache set failed key=%s err=%v", key, err)
		}
	}
}

// Incr bumps the window counter and keeps its expiry armed: a fresh key gets
// the window TTL, and a key whose TTL was lost (an earlier Expire failed) is
// re-armed instead of counting forever. Arming failures are returned so the
// limiter fails open rather than throttle on a counter that never resets.
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, storeCallTimeout)
	defer cancel()

	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	if ttl.Val() < 0 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			if Sugar != nil {
				Sugar.Warnf("rate limit window not armed key=%s err=%v", key, err)
			}
			return 0, err
		}
	}
	return incr.Val(), nil
}
