package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver used by goose
	"github.com/pressly/goose/v3"

	"github.com/rezkam/dolist/internal/config"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Pool defaults. One user's task collection needs very few connections.
const (
	defaultMaxConns        = 4
	defaultMinConns        = 1
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
)

// Open migrates the database at cfg.DSN and returns a store on a fresh pool.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	if cfg.DSN == "" {
		return nil, config.ErrDSNRequired
	}

	if err := migrate(ctx, cfg.DSN); err != nil {
		return nil, err
	}

	poolConfig, err := newPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.DebugContext(ctx, "Postgres store ready",
		"max_conns", poolConfig.MaxConns,
		"min_conns", poolConfig.MinConns)
	return NewStore(pool), nil
}

func newPoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	poolConfig.MaxConns = positiveOr(int32(cfg.MaxOpenConns), defaultMaxConns)
	poolConfig.MinConns = min(positiveOr(int32(cfg.MaxIdleConns), defaultMinConns), poolConfig.MaxConns)
	poolConfig.MaxConnLifetime = positiveOr(cfg.ConnMaxLifetime, defaultConnMaxLifetime)
	poolConfig.MaxConnIdleTime = positiveOr(cfg.ConnMaxIdleTime, defaultConnMaxIdleTime)

	// Deadlines and completion times are stored and compared in UTC.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, "SET TIMEZONE='UTC'")
		return err
	}
	return poolConfig, nil
}

func positiveOr[T int32 | time.Duration](v, fallback T) T {
	if v > 0 {
		return v
	}
	return fallback
}

// migrate applies the embedded migrations over a short-lived database/sql handle.
func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.ErrorContext(ctx, "Failed to close migration connection", "error", err)
		}
	}()

	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	if len(results) > 0 {
		slog.InfoContext(ctx, "Applied postgres migrations", "count", len(results))
	}
	return nil
}
