// Package app wires configuration, storage and the HTTP API together.
// The server, admin and migrate binaries share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/bloglist/internal/cache/memory"
	"github.com/prn-tf/bloglist/internal/cache/redis"
	"github.com/prn-tf/bloglist/internal/config"
	"github.com/prn-tf/bloglist/internal/lock"
	"github.com/prn-tf/bloglist/internal/metrics"
	"github.com/prn-tf/bloglist/internal/repository"
	"github.com/prn-tf/bloglist/internal/repository/postgres"
	"github.com/prn-tf/bloglist/internal/repository/sqlite"
)

// Migrator applies embedded schema migrations.
type Migrator interface {
	Migrate(ctx context.Context) error
}

// Database is an open store connection.
type Database interface {
	repository.DatabaseHealth
	Migrator
}

// Migration lock timings.
const (
	migrationLockTTL  = 5 * time.Minute
	migrationLockWait = 2 * time.Minute
)

// Stores holds the opened repositories and everything that must be closed with them.
type Stores struct {
	Repos *repository.Repositories
	DB    Database

	closers []func() error
}

// Close releases caches and the database connection in reverse order of opening.
func (s *Stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenDatabase connects to the configured backend without migrating.
func OpenDatabase(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (Database, *repository.Repositories, error) {
	switch cfg.Driver {
	case "postgres":
		db, err := postgres.NewDB(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return db, &repository.Repositories{
			User: postgres.NewUserRepository(db),
			Post: postgres.NewPostRepository(db),
		}, nil

	case "sqlite":
		db, err := sqlite.NewDB(ctx, sqliteConfig(cfg), logger)
		if err != nil {
			return nil, nil, err
		}
		return db, &repository.Repositories{
			User: sqlite.NewUserRepository(db),
			Post: sqlite.NewPostRepository(db),
		}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// OpenStores connects to the database, applies migrations when configured
// and puts the user cache in front of the user repository.
func OpenStores(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) (*Stores, error) {
	db, repos, err := OpenDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	stores := &Stores{Repos: repos, DB: db}
	stores.closers = append(stores.closers, db.Close)

	backend, err := openCache(ctx, cfg, logger)
	if err != nil {
		_ = stores.Close()
		return nil, err
	}
	if backend.close != nil {
		stores.closers = append(stores.closers, backend.close)
	}

	if cfg.Database.AutoMigrate {
		err := lock.WithLock(ctx, backend.locker, lock.Keys.Migrations(), migrationLockTTL, migrationLockWait, db.Migrate)
		if err != nil {
			_ = stores.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	if backend.cache != nil {
		repos.User = repository.NewCachedUserRepository(repos.User, backend.cache, cfg.Cache.UserTTL, logger).
			OnLookup(m.RecordCacheLookup)
	}

	return stores, nil
}

// cacheBackend is what the configured cache backend provides.
// cache is nil when caching is disabled.
type cacheBackend struct {
	cache  repository.Cache
	locker lock.Locker
	close  func() error
}

// openCache opens the cache backend. Redis also backs the migration
// lock so that instances sharing it migrate one at a time.
func openCache(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (cacheBackend, error) {
	switch cfg.Cache.Backend {
	case "memory":
		c := memory.NewCache(cfg.Cache.CleanupInterval)
		return cacheBackend{cache: c, locker: lock.NewMemoryLocker(), close: c.Close}, nil

	case "redis":
		client, err := redis.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			return cacheBackend{}, fmt.Errorf("failed to connect to redis: %w", err)
		}
		c := redis.NewCache(client, cfg.Redis.KeyPrefix)
		return cacheBackend{
			cache:  c,
			locker: lock.NewRedisLocker(client, cfg.Redis.KeyPrefix),
			close:  c.Close,
		}, nil

	case "", "none":
		return cacheBackend{locker: lock.NewMemoryLocker()}, nil

	default:
		return cacheBackend{}, fmt.Errorf("unsupported cache backend %q", cfg.Cache.Backend)
	}
}

func sqliteConfig(cfg config.DatabaseConfig) sqlite.Config {
	sc := sqlite.DefaultConfig(cfg.Path)
	if cfg.JournalMode != "" {
		sc.JournalMode = cfg.JournalMode
	}
	if cfg.BusyTimeout > 0 {
		sc.BusyTimeout = cfg.BusyTimeout
	}
	if cfg.SynchronousMode != "" {
		sc.SynchronousMode = cfg.SynchronousMode
	}
	if cfg.ConnMaxLifetime > 0 {
		sc.ConnMaxLifetime = cfg.ConnMaxLifetime
	}
	return sc
}
