package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Cache is a small byte-oriented cache used for catalog snapshots and
// the fixed-window rate limiter.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error

	// Incr increments a counter and sets its expiry when the counter is
	// created. It returns the value after the increment.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
