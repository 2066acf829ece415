package repository

import (
	"errors"

	"github.com/prn-tf/bloglist/internal/domain"
)

// Repository errors
var (
	// ErrNotFound indicates the requested entity was not found.
	// Entity-specific errors (domain.ErrUserNotFound, domain.ErrPostNotFound) wrap it.
	ErrNotFound = domain.ErrNotFound
)

// Cache errors
var (
	// ErrCacheMiss indicates the key was not found in cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable indicates the cache is unavailable.
	ErrCacheUnavailable = errors.New("cache unavailable")
)
