package users

import (
	"context"
	"time"

	"vod-platform/pkg/storage"

	"github.com/redis/go-redis/v9"
)

const loginAttemptKeyPrefix = "login:attempts:"

// RedisLoginLimiter throttles login attempts with a fixed redis window.
type RedisLoginLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLoginLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisLoginLimiter {
	return &RedisLoginLimiter{rdb: rdb, limit: limit, window: window}
}

func (l *RedisLoginLimiter) Allow(ctx context.Context, username string) (bool, error) {
	return storage.AllowAttempt(ctx, l.rdb, loginAttemptKeyPrefix+username, l.limit, l.window)
}
