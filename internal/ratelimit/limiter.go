package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter implements fixed-window rate limiting on Redis counters.
type Limiter struct {
	client    *redis.Client
	keyPrefix string
}

// NewLimiter creates a rate limiter with a Redis backend.
func NewLimiter(client *redis.Client, keyPrefix string) *Limiter {
	return &Limiter{client: client, keyPrefix: keyPrefix}
}

// Allow records one attempt for key and reports whether it is within limit
// for the current window. When Redis is unreachable the limiter fails open:
// login availability wins over throttling.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	redisKey := l.keyPrefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, nil
	}
	if count == 1 {
		// First hit opens the window.
		if err := l.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return true, nil
		}
	}
	return count <= int64(limit), nil
}

// Reset clears the counter for a key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.keyPrefix+key).Err()
}
