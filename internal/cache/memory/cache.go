// Package memory provides a process-local cache.
package memory

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/prn-tf/bloglist/internal/repository"
)

// DefaultCleanupInterval is used when NewCache is given a non-positive interval.
const DefaultCleanupInterval = time.Minute

// Cache implements repository.Cache with a mutex-guarded map.
// Entries are visible only to the process that wrote them.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

type entry struct {
	value     []byte
	expiresAt time.Time // zero: never
}

func (e entry) live(now time.Time) bool {
	return e.expiresAt.IsZero() || now.Before(e.expiresAt)
}

// NewCache creates a cache that drops expired entries every interval.
func NewCache(interval time.Duration) *Cache {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}

	c := &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go c.sweepEvery(interval)
	return c
}

func (c *Cache) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if !e.live(now) {
			delete(c.entries, key)
		}
	}
}

// Close stops the sweeper. Calling it again is a no-op.
func (c *Cache) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

// Get returns a copy of the value stored under key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !e.live(c.now()) {
		return nil, repository.ErrCacheMiss
	}
	return bytes.Clone(e.value), nil
}

// Set stores a copy of value. A zero ttl keeps it until deleted.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: bytes.Clone(value)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// Delete removes key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

var _ repository.Cache = (*Cache)(nil)
