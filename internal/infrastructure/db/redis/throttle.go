package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultThrottleWindow = time.Minute

// SendThrottle limits how often a code or OTP may be sent to one address.
// Key format: throttle:<kind>:<email>
type SendThrottle struct {
	client *redis.Client
	window time.Duration
}

// NewSendThrottle creates a SendThrottle wrapping the given Redis client.
// A default window is applied when none is provided.
func NewSendThrottle(client *redis.Client, window time.Duration) *SendThrottle {
	if window <= 0 {
		window = defaultThrottleWindow
	}
	return &SendThrottle{client: client, window: window}
}

// Allow reserves a send slot. It returns false while a previous send for the
// same kind and address is still inside the window.
func (t *SendThrottle) Allow(ctx context.Context, kind, email string) (bool, error) {
	ok, err := t.client.SetNX(ctx, t.key(kind, email), "1", t.window).Result()
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return ok, nil
}

func (t *SendThrottle) key(kind, email string) string {
	return fmt.Sprintf("throttle:%s:%s", kind, email)
}
