// Package storage opens the task repository selected by configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/rezkam/dolist/internal/application/task"
	"github.com/rezkam/dolist/internal/config"
	"github.com/rezkam/dolist/internal/infrastructure/persistence/postgres"
	"github.com/rezkam/dolist/internal/infrastructure/persistence/sqlite"
	"github.com/rezkam/dolist/internal/storage/fs"
	"github.com/rezkam/dolist/internal/storage/gcs"
)

// Open creates the repository for cfg.Type. The returned close function
// releases connections and is never nil.
func Open(ctx context.Context, cfg config.StorageConfig) (task.Repository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Type {
	case config.StorageSQLite:
		store, err := sqlite.NewStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, store.Close, nil

	case config.StoragePostgres:
		store, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return store, store.Close, nil

	case config.StorageFS:
		store, err := fs.NewStore(cfg.FSDir)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open fs store: %w", err)
		}
		return store, noop, nil

	case config.StorageGCS:
		store, err := gcs.NewStore(ctx, cfg.GCSBucket, cfg.GCSPrefix)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open gcs store: %w", err)
		}
		return store, store.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage type: %q", cfg.Type)
	}
}
