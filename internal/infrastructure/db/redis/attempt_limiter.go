package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	attemptWindow      = 15 * time.Minute
	defaultMaxAttempts = 10
)

// AttemptLimiter throttles credential exchanges per email using a fixed
// window counter. When the window's budget is exhausted the gateway reports
// too-many-requests until the window expires.
// Key format: login_attempts:<email>
type AttemptLimiter struct {
	client      *redis.Client
	maxAttempts int64
}

// NewAttemptLimiter creates an AttemptLimiter wrapping the given client.
// If maxAttempts <= 0, defaultMaxAttempts is used.
func NewAttemptLimiter(client *redis.Client, maxAttempts int64) *AttemptLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &AttemptLimiter{client: client, maxAttempts: maxAttempts}
}

// Allow records one attempt and reports whether it fits the window budget.
func (l *AttemptLimiter) Allow(ctx context.Context, email string) (bool, error) {
	key := l.key(email)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("attempt count: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, attemptWindow).Err(); err != nil {
			return false, fmt.Errorf("attempt window: %w", err)
		}
	}
	return n <= l.maxAttempts, nil
}

// Reset clears the counter after a successful exchange.
func (l *AttemptLimiter) Reset(ctx context.Context, email string) error {
	if err := l.client.Del(ctx, l.key(email)).Err(); err != nil {
		return fmt.Errorf("attempt reset: %w", err)
	}
	return nil
}

func (l *AttemptLimiter) key(email string) string {
	return "login_attempts:" + strings.ToLower(email)
}
