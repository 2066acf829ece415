package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/bloglist/internal/cache/memory"
	"github.com/prn-tf/bloglist/internal/domain"
	"github.com/prn-tf/bloglist/internal/repository"
)

// countingUsers is a map-backed UserRepository that counts GetByID calls.
type countingUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
	gets  int
}

func newCountingUsers() *countingUsers {
	return &countingUsers{users: make(map[uuid.UUID]*domain.User)}
}

func (c *countingUsers) Create(ctx context.Context, user *domain.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[user.ID] = user
	return nil
}

func (c *countingUsers) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if u, ok := c.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (c *countingUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (c *countingUsers) List(ctx context.Context) ([]*domain.User, error) {
	return nil, nil
}

func (c *countingUsers) Delete(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(c.users, id)
	return nil
}

// failingCache fails every operation.
type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, repository.ErrCacheUnavailable
}

func (failingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return repository.ErrCacheUnavailable
}

func (failingCache) Delete(ctx context.Context, key string) error {
	return repository.ErrCacheUnavailable
}

func TestCachedUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	store := newCountingUsers()
	cache := memory.NewCache(time.Minute)
	t.Cleanup(func() { _ = cache.Close() })

	var hits, misses int
	repo := repository.NewCachedUserRepository(store, cache, time.Minute, zerolog.Nop()).
		OnLookup(func(hit bool) {
			if hit {
				hits++
			} else {
				misses++
			}
		})

	ada := domain.NewUser("ada", "Ada", "hash")
	require.NoError(t, repo.Create(ctx, ada))

	for i := 0; i < 3; i++ {
		got, err := repo.GetByID(ctx, ada.ID)
		require.NoError(t, err)
		assert.Equal(t, "ada", got.Username)
		assert.Equal(t, "Ada", got.Name)
		assert.Empty(t, got.PasswordHash, "GetByID never hands out the hash, cached or not")
	}

	assert.Equal(t, 1, store.gets)
	assert.Equal(t, 2, hits)
	assert.Equal(t, 1, misses)

	raw, err := cache.Get(ctx, repository.CacheKeys.UserByID(ada.ID))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hash")
	assert.NotContains(t, string(raw), "password")

	// The store's own record keeps its hash.
	assert.Equal(t, "hash", ada.PasswordHash)
}

func TestCachedUserRepository_DeleteEvicts(t *testing.T) {
	ctx := context.Background()
	store := newCountingUsers()
	cache := memory.NewCache(time.Minute)
	t.Cleanup(func() { _ = cache.Close() })
	repo := repository.NewCachedUserRepository(store, cache, time.Minute, zerolog.Nop())

	ada := domain.NewUser("ada", "Ada", "hash")
	require.NoError(t, repo.Create(ctx, ada))

	_, err := repo.GetByID(ctx, ada.ID)
	require.NoError(t, err)
	_, err = cache.Get(ctx, repository.CacheKeys.UserByID(ada.ID))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, ada.ID))
	_, err = cache.Get(ctx, repository.CacheKeys.UserByID(ada.ID))
	assert.ErrorIs(t, err, repository.ErrCacheMiss)

	_, err = repo.GetByID(ctx, ada.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCachedUserRepository_MissingUserNotCached(t *testing.T) {
	ctx := context.Background()
	cache := memory.NewCache(time.Minute)
	t.Cleanup(func() { _ = cache.Close() })
	store := newCountingUsers()
	repo := repository.NewCachedUserRepository(store, cache, time.Minute, zerolog.Nop())

	id := uuid.New()
	for i := 0; i < 2; i++ {
		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	}
	assert.Equal(t, 2, store.gets)
}

func TestCachedUserRepository_CacheFailureFallsThrough(t *testing.T) {
	ctx := context.Background()
	store := newCountingUsers()
	repo := repository.NewCachedUserRepository(store, failingCache{}, time.Minute, zerolog.Nop())

	ada := domain.NewUser("ada", "Ada", "hash")
	require.NoError(t, store.Create(ctx, ada))

	got, err := repo.GetByID(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, ada.ID, got.ID)

	require.NoError(t, repo.Delete(ctx, ada.ID))
	assert.False(t, errors.Is(err, repository.ErrCacheUnavailable))
}
