package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether one more action under key is allowed right now
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter is a fixed-window counter: the first hit in a window creates
// the key with a TTL of one window, later hits increment it.
type RedisLimiter struct {
	rdb    *redis.Client
	action string
	limit  int
	window time.Duration
}

func NewRedisLimiter(rdb *redis.Client, action string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, action: action, limit: limit, window: window}
}

func (rl *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if rl == nil || rl.rdb == nil {
		return false, fmt.Errorf("Redis client not available")
	}

	redisKey := fmt.Sprintf("rate:%s:%s", rl.action, key)

	count, err := rl.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}

	// Set expiration if first time
	if count == 1 {
		if err := rl.rdb.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			return false, err
		}
	}

	return count <= int64(rl.limit), nil
}
