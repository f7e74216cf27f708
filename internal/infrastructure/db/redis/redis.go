// Package redis holds the portal's Redis-backed infrastructure: the
// connection bootstrap, the session persistence repository, and the
// duplicate-submission guard.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPingTimeout = 5 * time.Second

// Config carries the connection settings for the portal's Redis instance.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect opens a client against cfg.Addr and proves the connection with
// a bounded ping, so a misconfigured address fails at startup instead of
// on the first session write.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}
