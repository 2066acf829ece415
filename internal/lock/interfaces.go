// Package lock provides distributed and local locking abstractions.
// For single-node deployments, memory-based locks are used.
// For distributed deployments, Redis-based locks are used.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotAcquired is returned by WithLock when the lock stays held by
// someone else until the context ends.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker defines the interface for distributed/local locking.
type Locker interface {
	// Acquire attempts to acquire a lock.
	// Returns true if the lock was acquired, false if it's held by another holder.
	// The lock will automatically expire after the specified TTL.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release releases a lock this locker holds.
	// Returns true if the lock was released, false if it wasn't held.
	Release(ctx context.Context, key string) (bool, error)
}

// AcquireWithRetry polls Acquire every retryDelay until the lock is taken
// or ctx ends.
func AcquireWithRetry(ctx context.Context, l Locker, key string, ttl, retryDelay time.Duration) (bool, error) {
	for {
		acquired, err := l.Acquire(ctx, key, ttl)
		if err != nil || acquired {
			return acquired, err
		}

		select {
		case <-ctx.Done():
			return false, nil
		case <-time.After(retryDelay):
		}
	}
}

// WithLock runs fn while holding key. It waits at most wait for the lock.
func WithLock(ctx context.Context, l Locker, key string, ttl, wait time.Duration, fn func(context.Context) error) error {
	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	acquired, err := AcquireWithRetry(waitCtx, l, key, ttl, 250*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire %s: %w", key, err)
	}
	if !acquired {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", ErrNotAcquired, key)
	}

	defer func() {
		// Release on a fresh context so a cancelled caller still frees the key.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = l.Release(releaseCtx, key)
	}()

	return fn(ctx)
}

// =============================================================================
// Common Lock Keys
// =============================================================================

// Keys provides lock key generation for common scenarios.
var Keys = lockKeys{}

type lockKeys struct{}

// Migrations returns the lock key that serializes schema migrations
// between server instances starting at the same time.
func (lockKeys) Migrations() string {
	return "lock:migrations"
}
