package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rezkam/dolist/internal/application/task"
	"github.com/rezkam/dolist/internal/domain"
)

var (
	_ task.Repository       = (*Store)(nil)
	_ task.CompletedDeleter = (*Store)(nil)
)

const taskColumns = `id::text, title, important, important_color_index, expiration_date,
	is_completed, completed_at, reminder_id, created_at, updated_at`

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store provides the PostgreSQL implementation of task.Repository.
type Store struct {
	pool *pgxpool.Pool
	db   querier
}

// NewStore creates a new PostgreSQL store with the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool: pool,
		db:   pool,
	}
}

// Pool returns the underlying connection pool.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Create inserts a new task.
func (s *Store) Create(ctx context.Context, t *domain.Task) error {
	id, err := parseID(t.ID)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, `
		INSERT INTO tasks (id, title, important, important_color_index, expiration_date,
			is_completed, completed_at, reminder_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING`,
		id, t.Title, t.Important, t.ImportantColorIndex, t.ExpirationDate,
		t.IsCompleted, t.CompletedAt, t.ReminderID, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTaskAlreadyExists, t.ID)
	}
	return nil
}

// Update overwrites every mutable column of an existing task.
func (s *Store) Update(ctx context.Context, t *domain.Task) error {
	id, err := parseID(t.ID)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE tasks SET
			title = $2, important = $3, important_color_index = $4, expiration_date = $5,
			is_completed = $6, completed_at = $7, reminder_id = $8, updated_at = $9
		WHERE id = $1`,
		id, t.Title, t.Important, t.ImportantColorIndex, t.ExpirationDate,
		t.IsCompleted, t.CompletedAt, t.ReminderID, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return checkRowsAffected(tag.RowsAffected(), t.ID)
}

// Delete removes a task.
func (s *Store) Delete(ctx context.Context, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, uid)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return checkRowsAffected(tag.RowsAffected(), id)
}

// DeleteCompleted removes every completed task in one transaction and
// returns the removed IDs.
func (s *Store) DeleteCompleted(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.executeInTransaction(ctx, "delete_completed", func(tx *Store) error {
		completed, err := tx.FindByCompletion(ctx, true)
		if err != nil {
			return err
		}
		for _, t := range completed {
			if err := tx.Delete(ctx, t.ID); err != nil {
				return err
			}
			ids = append(ids, t.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FindAll returns every stored task.
func (s *Store) FindAll(ctx context.Context) ([]*domain.Task, error) {
	return s.query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY expiration_date, id`)
}

// FindByCompletion returns the tasks whose completion flag matches completed.
func (s *Store) FindByCompletion(ctx context.Context, completed bool) ([]*domain.Task, error) {
	return s.query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE is_completed = $1 ORDER BY expiration_date, id`, completed)
}

func (s *Store) query(ctx context.Context, sql string, args ...any) ([]*domain.Task, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}

	tasks, err := pgx.CollectRows(rows, scanTask)
	if err != nil {
		return nil, fmt.Errorf("failed to scan tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(row pgx.CollectableRow) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Important, &t.ImportantColorIndex, &t.ExpirationDate,
		&t.IsCompleted, &t.CompletedAt, &t.ReminderID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}

	// timestamptz scans in the session's local zone.
	t.ExpirationDate = t.ExpirationDate.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	if t.CompletedAt != nil {
		c := t.CompletedAt.UTC()
		t.CompletedAt = &c
	}
	return &t, nil
}

// parseID validates a task ID before it reaches a UUID column.
func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}
	return uid, nil
}

// checkRowsAffected validates that an UPDATE/DELETE operation affected exactly one row.
// Returns domain.ErrTaskNotFound if rowsAffected == 0.
func checkRowsAffected(rowsAffected int64, id string) error {
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	return nil
}

// finalizeTx handles transaction cleanup for normal error/success cases.
// Rolls back on error, commits on success.
func finalizeTx(ctx context.Context, tx pgx.Tx, err *error) {
	if *err != nil {
		slog.ErrorContext(ctx, "transaction failed, rolling back",
			"error", *err)
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			*err = fmt.Errorf("transaction failed: %w (rollback error: %v)", *err, rbErr)
		}
		return
	}

	*err = tx.Commit(ctx)
	if *err != nil {
		slog.ErrorContext(ctx, "transaction commit failed",
			"error", *err)
	}
}

// executeInTransaction executes fn within a transaction with logging and panic recovery.
func (s *Store) executeInTransaction(ctx context.Context, operationName string, fn func(txStore *Store) error) (err error) {
	start := time.Now().UTC()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to begin transaction",
			"operation", operationName,
			"error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			slog.ErrorContext(ctx, "transaction panic, rolling back",
				"operation", operationName,
				"panic", p)
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.ErrorContext(ctx, "rollback after panic failed",
					"operation", operationName,
					"rollback_error", rbErr)
			}
			panic(p)
		}

		finalizeTx(ctx, tx, &err)
		if err == nil {
			slog.DebugContext(ctx, "transaction completed",
				"operation", operationName,
				"duration_ms", time.Since(start).Milliseconds())
		}
	}()

	err = fn(&Store{pool: s.pool, db: tx})
	return
}
