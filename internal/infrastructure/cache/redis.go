package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPingTimeout = 5 * time.Second

// OpenRedis connects the idempotency cache and verifies it answers within
// pingTimeout. Zero or negative means the 5s default.
func OpenRedis(addr string, db int, pingTimeout time.Duration) (*redis.Client, error) {
	if pingTimeout <= 0 {
		pingTimeout = defaultPingTimeout
	}
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}
