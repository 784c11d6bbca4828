// Package sqlite stores tasks in a local SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/rezkam/dolist/internal/application/task"
	"github.com/rezkam/dolist/internal/domain"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

var (
	_ task.Repository       = (*Store)(nil)
	_ task.CompletedDeleter = (*Store)(nil)
)

const taskColumns = `id, title, important, important_color_index, expiration_date,
	is_completed, completed_at, reminder_id, created_at, updated_at`

// Timestamps are stored as fixed-width RFC 3339 text so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is a SQLite implementation of task.Repository.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the database at path and runs migrations.
// Use ":memory:" for a private in-memory database.
func NewStore(ctx context.Context, path string) (*Store, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: opens a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// runMigrations runs SQLite database migrations using goose with embedded files.
func runMigrations(ctx context.Context, db *sql.DB) error {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, r := range results {
		slog.DebugContext(ctx, "Applied migration", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a new task.
func (s *Store) Create(ctx context.Context, t *domain.Task) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		t.ID, t.Title, t.Important, t.ImportantColorIndex, formatTime(t.ExpirationDate),
		t.IsCompleted, formatNullTime(t.CompletedAt), t.ReminderID,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTaskAlreadyExists, t.ID)
	}
	return nil
}

// Update overwrites every mutable column of an existing task.
func (s *Store) Update(ctx context.Context, t *domain.Task) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET
			title = ?, important = ?, important_color_index = ?, expiration_date = ?,
			is_completed = ?, completed_at = ?, reminder_id = ?, updated_at = ?
		WHERE id = ?`,
		t.Title, t.Important, t.ImportantColorIndex, formatTime(t.ExpirationDate),
		t.IsCompleted, formatNullTime(t.CompletedAt), t.ReminderID, formatTime(t.UpdatedAt),
		t.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return checkRowsAffected(res, t.ID)
}

// Delete removes a task.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return checkRowsAffected(res, id)
}

// DeleteCompleted removes every completed task in one transaction and
// returns the removed IDs.
func (s *Store) DeleteCompleted(ctx context.Context) (ids []string, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.ErrorContext(ctx, "rollback failed", "error", rbErr)
			}
		}
	}()

	rows, err := tx.QueryContext(ctx, `SELECT id FROM tasks WHERE is_completed = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed tasks: %w", err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan task id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate completed tasks: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE is_completed = 1`); err != nil {
		return nil, fmt.Errorf("failed to delete completed tasks: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return ids, nil
}

// FindAll returns every stored task.
func (s *Store) FindAll(ctx context.Context) ([]*domain.Task, error) {
	return s.query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY expiration_date, id`)
}

// FindByCompletion returns the tasks whose completion flag matches completed.
func (s *Store) FindByCompletion(ctx context.Context, completed bool) ([]*domain.Task, error) {
	return s.query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE is_completed = ? ORDER BY expiration_date, id`, completed)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(rows *sql.Rows) (*domain.Task, error) {
	var (
		t                            domain.Task
		expiration, created, updated string
		completedAt                  sql.NullString
	)
	if err := rows.Scan(&t.ID, &t.Title, &t.Important, &t.ImportantColorIndex, &expiration,
		&t.IsCompleted, &completedAt, &t.ReminderID, &created, &updated); err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	var err error
	if t.ExpirationDate, err = parseTime(expiration); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		c, err := parseTime(completedAt.String)
		if err != nil {
			return nil, err
		}
		t.CompletedAt = &c
	}
	return &t, nil
}

// checkRowsAffected validates that an UPDATE/DELETE affected a row.
// Returns domain.ErrTaskNotFound if it matched nothing.
func checkRowsAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored time %q: %w", s, err)
	}
	return t.UTC(), nil
}
