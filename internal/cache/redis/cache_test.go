package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/bloglist/internal/config"
	"github.com/prn-tf/bloglist/internal/repository"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	c := NewCache(client, "bloglist:")
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	_, err := c.Get(ctx, "user:1")
	assert.ErrorIs(t, err, repository.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "user:1", []byte(`{"id":1}`), time.Minute))

	got, err := c.Get(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, string(got))

	// Keys live under the prefix.
	assert.True(t, mr.Exists("bloglist:user:1"))
	assert.False(t, mr.Exists("user:1"))
	assert.Equal(t, time.Minute, mr.TTL("bloglist:user:1"))

	require.NoError(t, c.Delete(ctx, "user:1"))
	_, err = c.Get(ctx, "user:1")
	assert.ErrorIs(t, err, repository.ErrCacheMiss)

	assert.NoError(t, c.Delete(ctx, "user:1"), "deleting a missing key is not an error")
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, repository.ErrCacheMiss)
}

func TestCache_Unavailable(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	mr.Close()

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, repository.ErrCacheUnavailable)
	assert.ErrorIs(t, c.Set(ctx, "k", []byte("v"), 0), repository.ErrCacheUnavailable)
	assert.ErrorIs(t, c.Delete(ctx, "k"), repository.ErrCacheUnavailable)
}

func TestNewClient(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := NewClient(ctx, config.RedisConfig{Host: mr.Host(), Port: port}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, client.Close())

	mr.Close()
	_, err = NewClient(ctx, config.RedisConfig{Host: mr.Host(), Port: port, DialTimeout: 100 * time.Millisecond}, zerolog.Nop())
	assert.ErrorContains(t, err, "failed to ping redis")
}
