package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ValkeyCache implements Cache on top of a Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "askbar"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

func (c *ValkeyCache) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := c.client.B().Get().Key(c.key(key)).Build()
	payload, err := c.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, ErrMiss
		}
		return nil, err
	}
	return payload, nil
}

func (c *ValkeyCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	builder := c.client.B().Set().Key(c.key(key)).Value(string(value))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = c.key(key)
	}
	return c.client.Do(ctx, c.client.B().Del().Key(prefixed...).Build()).Error()
}

func (c *ValkeyCache) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	name := c.key(key)
	count, err := c.client.Do(ctx, c.client.B().Incr().Key(name).Build()).AsInt64()
	if err != nil {
		return 0, err
	}
	// The expiry marks the window boundary, so only the first increment sets it.
	if count == 1 && ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		if err := c.client.Do(ctx, c.client.B().Expire().Key(name).Seconds(int64(ttl/time.Second)).Build()).Error(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (c *ValkeyCache) key(key string) string {
	return fmt.Sprintf("%s:%s", c.prefix, key)
}

var _ Cache = (*ValkeyCache)(nil)
var _ Cache = (*MemoryCache)(nil)
