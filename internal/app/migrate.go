package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/prn-tf/bloglist/internal/config"
	"github.com/prn-tf/bloglist/internal/repository/postgres"
	"github.com/prn-tf/bloglist/internal/repository/sqlite"
)

// OpenMigrator connects to the configured database and returns a goose
// provider over its embedded migrations. The returned func closes everything.
func OpenMigrator(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*goose.Provider, func() error, error) {
	switch cfg.Driver {
	case "postgres":
		db, err := postgres.NewDB(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		provider, sqlDB, err := db.Migrator()
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return provider, func() error {
			return errors.Join(sqlDB.Close(), db.Close())
		}, nil

	case "sqlite":
		db, err := sqlite.NewDB(ctx, sqliteConfig(cfg), logger)
		if err != nil {
			return nil, nil, err
		}
		provider, err := db.Migrator()
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return provider, db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
