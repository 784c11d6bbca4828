package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/dolist/internal/application/task"
	"github.com/rezkam/dolist/internal/config"
)

func TestOpen_LocalBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name       string
		cfg        config.StorageConfig
		bulkDelete bool
	}{
		{
			name:       "sqlite",
			cfg:        config.StorageConfig{Type: config.StorageSQLite, SQLitePath: filepath.Join(dir, "tasks.db")},
			bulkDelete: true,
		},
		{
			name: "fs",
			cfg:  config.StorageConfig{Type: config.StorageFS, FSDir: filepath.Join(dir, "tasks")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, closeFn, err := Open(ctx, tt.cfg)
			require.NoError(t, err)
			t.Cleanup(func() { assert.NoError(t, closeFn()) })

			tasks, err := repo.FindAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, tasks)

			_, ok := repo.(task.CompletedDeleter)
			assert.Equal(t, tt.bulkDelete, ok)
		})
	}
}

func TestOpen_UnknownType(t *testing.T) {
	_, closeFn, err := Open(context.Background(), config.StorageConfig{Type: "mysql"})
	require.Error(t, err)
	assert.NoError(t, closeFn())
}
