package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/bloglist/internal/repository"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c := NewCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_SetGetDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	// Returned slices are copies.
	got[0] = 'x'
	again, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), again)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	require.ErrorIs(t, err, repository.ErrCacheMiss)
}

func TestCache_Expiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "short", []byte("v"), time.Second))
	require.NoError(t, c.Set(ctx, "forever", []byte("v"), 0))

	now = now.Add(2 * time.Second)

	_, err := c.Get(ctx, "short")
	require.ErrorIs(t, err, repository.ErrCacheMiss)

	c.sweep()
	c.mu.RLock()
	_, kept := c.entries["short"]
	n := len(c.entries)
	c.mu.RUnlock()
	assert.False(t, kept, "sweep drops expired entries")
	assert.Equal(t, 1, n)

	_, err = c.Get(ctx, "forever")
	assert.NoError(t, err)
}

func TestCache_CloseTwice(t *testing.T) {
	c := NewCache(0)
	require.NoError(t, c.Close())
	assert.NotPanics(t, func() { _ = c.Close() })
}
