package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerConfig_Defaults(t *testing.T) {
	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageSQLite, cfg.Storage.Type)
	assert.Equal(t, "dolist.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "tasks/", cfg.Storage.GCSPrefix)
	assert.Equal(t, time.Second, cfg.Tick.Interval)
	assert.Equal(t, 30, cfg.Reminder.DeliveriesPerMinute)
	assert.Equal(t, time.Hour, cfg.Reminder.Lead)
	assert.Equal(t, 600, cfg.Auth.RateLimitPerMinute)
	assert.Empty(t, cfg.Auth.APIKeyHash)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.Observability.OTelEnabled)

	level, err := cfg.Observability.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadServerConfig_WithEnv(t *testing.T) {
	t.Setenv("DOLIST_STORAGE_TYPE", "postgres")
	t.Setenv("DOLIST_DB_DSN", "postgres://u:p@localhost:5432/dolist")
	t.Setenv("DOLIST_DB_MAX_OPEN_CONNS", "4")
	t.Setenv("DOLIST_HTTP_PORT", "9000")
	t.Setenv("DOLIST_REMINDER_LEAD", "30m")
	t.Setenv("DOLIST_TICK_INTERVAL", "250ms")
	t.Setenv("DOLIST_API_KEY_HASH", strings.Repeat("a", 64))
	t.Setenv("DOLIST_LOG_LEVEL", "debug")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.Storage.Type)
	assert.Equal(t, 4, cfg.Storage.Database.MaxOpenConns)
	assert.Equal(t, "9000", cfg.HTTP.Port)
	assert.Equal(t, 30*time.Minute, cfg.Reminder.Lead)
	assert.Equal(t, 250*time.Millisecond, cfg.Tick.Interval)

	level, err := cfg.Observability.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadServerConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "postgres without DSN",
			env:  map[string]string{"DOLIST_STORAGE_TYPE": "postgres"},
			want: "DOLIST_DB_DSN is required",
		},
		{
			name: "gcs without bucket",
			env:  map[string]string{"DOLIST_STORAGE_TYPE": "gcs"},
			want: "DOLIST_GCS_BUCKET is required",
		},
		{
			name: "unknown storage",
			env:  map[string]string{"DOLIST_STORAGE_TYPE": "mysql"},
			want: "unknown DOLIST_STORAGE_TYPE",
		},
		{
			name: "short key hash",
			env:  map[string]string{"DOLIST_API_KEY_HASH": "abc"},
			want: "DOLIST_API_KEY_HASH must be 64 hex characters",
		},
		{
			name: "bad log level",
			env:  map[string]string{"DOLIST_LOG_LEVEL": "chatty"},
			want: "invalid DOLIST_LOG_LEVEL",
		},
		{
			name: "bad duration",
			env:  map[string]string{"DOLIST_TICK_INTERVAL": "often"},
			want: "DOLIST_TICK_INTERVAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadServerConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadCLIConfig_Defaults(t *testing.T) {
	cfg, err := LoadCLIConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageSQLite, cfg.Storage.Type)
	assert.Equal(t, "dolist-settings.yaml", cfg.SettingsFile)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, time.Hour, cfg.Reminder.Lead)
}
