// Package survivor talks to the external counter store that persists
// the health-check count across process restarts. Every call is
// best-effort: the caller always gets a usable value.
package survivor

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Counter increments a single Redis key. A Counter built with no
// address is a no-op that always reports zero, so the service runs
// fine without the store.
type Counter struct {
	client  *redis.Client
	key     string
	timeout time.Duration
	log     *zap.Logger
}

// New builds a Counter. addr may be empty to disable the store.
func New(addr, key string, timeout time.Duration, log *zap.Logger) *Counter {
	c := &Counter{
		key:     key,
		timeout: timeout,
		log:     log,
	}
	if addr != "" {
		c.client = redis.NewClient(&redis.Options{
			Addr:        addr,
			DialTimeout: timeout,
		})
	}
	return c
}

// Increment bumps the counter and returns the new value. Any failure
// (store disabled, unreachable, slow) degrades to 0; the caller's
// request must still succeed.
func (c *Counter) Increment(ctx context.Context) int64 {
	if c.client == nil {
		return 0
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	n, err := c.client.Incr(ctx, c.key).Result()
	if err != nil {
		c.log.Warn("survivor counter increment failed, defaulting to 0",
			zap.String("key", c.key), zap.Error(err))
		return 0
	}
	return n
}

// Close releases the underlying connection pool.
func (c *Counter) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
