package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLockers(t *testing.T) (*RedisLocker, *RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client, "bloglist:"), NewRedisLocker(client, "bloglist:"), mr
}

func TestRedisLocker_AcquireRelease(t *testing.T) {
	ctx := context.Background()
	first, second, mr := newRedisLockers(t)

	ok, err := first.Acquire(ctx, Keys.Migrations(), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists("bloglist:lock:migrations"))
	assert.Equal(t, time.Minute, mr.TTL("bloglist:lock:migrations"))

	ok, err = second.Acquire(ctx, Keys.Migrations(), time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "held by another locker")

	released, err := second.Release(ctx, Keys.Migrations())
	require.NoError(t, err)
	assert.False(t, released, "a locker cannot release what it never took")
	assert.True(t, mr.Exists("bloglist:lock:migrations"))

	released, err = first.Release(ctx, Keys.Migrations())
	require.NoError(t, err)
	assert.True(t, released)
	assert.False(t, mr.Exists("bloglist:lock:migrations"))

	ok, err = second.Acquire(ctx, Keys.Migrations(), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLocker_StaleReleaseKeepsNewHolder(t *testing.T) {
	ctx := context.Background()
	first, second, mr := newRedisLockers(t)

	ok, err := first.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	// first's lock expires and second takes the key.
	mr.FastForward(2 * time.Second)
	ok, err = second.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	token, err := mr.Get("bloglist:k")
	require.NoError(t, err)

	released, err := first.Release(ctx, "k")
	require.NoError(t, err)
	assert.False(t, released)

	got, err := mr.Get("bloglist:k")
	require.NoError(t, err)
	assert.Equal(t, token, got, "the token check must leave second's lock in place")
}

func TestRedisLocker_WithLock(t *testing.T) {
	ctx := context.Background()
	first, second, mr := newRedisLockers(t)

	ok, err := second.Acquire(ctx, Keys.Migrations(), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	err = WithLock(ctx, first, Keys.Migrations(), time.Minute, 50*time.Millisecond, func(context.Context) error {
		t.Fatal("must not run while another locker holds the key")
		return nil
	})
	assert.ErrorIs(t, err, ErrNotAcquired)

	_, err = second.Release(ctx, Keys.Migrations())
	require.NoError(t, err)

	ran := false
	err = WithLock(ctx, first, Keys.Migrations(), time.Minute, time.Second, func(context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.False(t, mr.Exists("bloglist:lock:migrations"))
}

func TestRedisLocker_Unavailable(t *testing.T) {
	first, _, mr := newRedisLockers(t)
	mr.Close()

	_, err := first.Acquire(context.Background(), "k", time.Minute)
	assert.ErrorContains(t, err, "redis lock acquire")
}
