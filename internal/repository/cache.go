package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/bloglist/internal/domain"
)

// =============================================================================
// Cache Interface
// =============================================================================

// Cache defines the interface for caching operations.
// Implemented in memory for single-node deployments and with Redis otherwise.
type Cache interface {
	// Get retrieves a value by key.
	// Returns ErrCacheMiss if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an optional TTL.
	// If ttl is 0, the value doesn't expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error
}

// =============================================================================
// Common Cache Keys
// =============================================================================

// CacheKeys generates cache keys for common scenarios.
var CacheKeys = cacheKeys{}

type cacheKeys struct{}

// UserByID returns a cache key for a user record.
func (cacheKeys) UserByID(id uuid.UUID) string {
	return "cache:user:id:" + id.String()
}

// =============================================================================
// Cached User Repository
// =============================================================================

// cachedUser is the cache representation of a user.
// It leaves out the password hash; identity resolution never needs it.
type cachedUser struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (e cachedUser) user() *domain.User {
	return &domain.User{ID: e.ID, Username: e.Username, Name: e.Name, CreatedAt: e.CreatedAt}
}

// CachedUserRepository serves GetByID from a cache in front of another UserRepository.
// Identity resolution calls GetByID on every authenticated request.
type CachedUserRepository struct {
	UserRepository
	cache  Cache
	ttl    time.Duration
	logger zerolog.Logger

	observe func(hit bool)
}

// NewCachedUserRepository wraps next with cache.
func NewCachedUserRepository(next UserRepository, cache Cache, ttl time.Duration, logger zerolog.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		UserRepository: next,
		cache:          cache,
		ttl:            ttl,
		logger:         logger.With().Str("component", "user_cache").Logger(),
	}
}

// OnLookup registers fn to be told whether each GetByID was served from the cache.
func (r *CachedUserRepository) OnLookup(fn func(hit bool)) *CachedUserRepository {
	r.observe = fn
	return r
}

func (r *CachedUserRepository) record(hit bool) {
	if r.observe != nil {
		r.observe(hit)
	}
}

// GetByID retrieves a user by ID, consulting the cache first.
// The returned user never carries a password hash; use GetByUsername to
// check credentials. Cache failures fall through to the underlying repository.
func (r *CachedUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	key := CacheKeys.UserByID(id)

	raw, err := r.cache.Get(ctx, key)
	if err == nil {
		var entry cachedUser
		if jsonErr := json.Unmarshal(raw, &entry); jsonErr == nil {
			r.record(true)
			return entry.user(), nil
		}
		r.logger.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	} else if !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	r.record(false)

	user, err := r.UserRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entry := cachedUser{ID: user.ID, Username: user.Username, Name: user.Name, CreatedAt: user.CreatedAt}
	raw, err = json.Marshal(entry)
	if err == nil {
		if err := r.cache.Set(ctx, key, raw, r.ttl); err != nil {
			r.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}

	return entry.user(), nil
}

// Delete deletes the user and evicts the cached entry.
func (r *CachedUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.UserRepository.Delete(ctx, id); err != nil {
		return err
	}
	if err := r.cache.Delete(ctx, CacheKeys.UserByID(id)); err != nil {
		r.logger.Warn().Err(err).Str("user_id", id.String()).Msg("cache eviction failed")
	}
	return nil
}

// Ensure CachedUserRepository implements UserRepository.
var _ UserRepository = (*CachedUserRepository)(nil)
