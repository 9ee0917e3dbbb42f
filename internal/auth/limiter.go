package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/libbyyosef/team-availability/internal/logger"
)

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = 5 * time.Minute
)

// LoginLimiter throttles repeated login attempts per (email, client IP)
// using a Redis counter with a sliding window. A nil *LoginLimiter is a
// valid no-op limiter, so deployments without Redis skip throttling.
type LoginLimiter struct {
	client *redis.Client
}

func NewLoginLimiter(client *redis.Client) *LoginLimiter {
	return &LoginLimiter{client: client}
}

// Allow reports whether another login attempt for this email/IP pair is
// permitted. Redis errors fail open: a broken limiter must not lock
// everyone out.
func (l *LoginLimiter) Allow(ctx context.Context, email, ip string) bool {
	if l == nil || l.client == nil {
		return true
	}

	key := fmt.Sprintf("login_attempts:%s:%s", email, ip)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		logger.Warn("login limiter unavailable", map[string]any{
			"error": err.Error(),
		})
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, loginAttemptWindow).Err(); err != nil {
			logger.Warn("login limiter expire failed", map[string]any{
				"error": err.Error(),
			})
		}
	}

	return count <= loginAttemptLimit
}

// Reset clears the attempt counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email, ip string) {
	if l == nil || l.client == nil {
		return
	}
	key := fmt.Sprintf("login_attempts:%s:%s", email, ip)
	_ = l.client.Del(ctx, key).Err()
}
