// internal/pkg/ratelimit/ratelimit.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a redis-backed fixed-window rate limiter.
type Limiter struct {
	client *redis.Client
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

// Allow counts a request for client against a fixed window and reports
// whether it stays within maxRequests. The counter expires with the window.
func (l *Limiter) Allow(ctx context.Context, client string, maxRequests int64, window time.Duration) (bool, error) {
	key := fmt.Sprintf("ratelimit:api:%s", client)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	// Set expiration on first request in the window
	if count == 1 {
		l.client.Expire(ctx, key, window)
	}

	return count <= maxRequests, nil
}
