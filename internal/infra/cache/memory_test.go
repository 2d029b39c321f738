package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)

	require.NoError(t, c.Del(ctx, "k"))
	_, err = c.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Now()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	now = now.Add(2 * time.Minute)
	_, err := c.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)
}

func TestMemoryCacheIncrWindow(t *testing.T) {
	c := NewMemoryCache()
	now := time.Now()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		count, err := c.Incr(ctx, "rl:ip", time.Minute)
		require.NoError(t, err)
		require.Equal(t, int64(i), count)
	}

	// A new window starts counting from one again.
	now = now.Add(2 * time.Minute)
	count, err := c.Incr(ctx, "rl:ip", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
