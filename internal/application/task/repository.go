package task

import (
	"context"

	"github.com/rezkam/dolist/internal/domain"
)

// Repository defines durable storage for tasks.
// The service keeps the authoritative in-memory model; the repository only mirrors it.
type Repository interface {
	// Create stores a new task.
	// Returns domain.ErrTaskAlreadyExists if the ID is taken.
	Create(ctx context.Context, task *domain.Task) error

	// Update overwrites a stored task.
	// Returns domain.ErrTaskNotFound if the task doesn't exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a stored task.
	// Returns domain.ErrTaskNotFound if the task doesn't exist.
	Delete(ctx context.Context, id string) error

	// FindAll returns every stored task in no particular order.
	FindAll(ctx context.Context) ([]*domain.Task, error)

	// FindByCompletion returns the stored tasks whose IsCompleted equals completed.
	FindByCompletion(ctx context.Context, completed bool) ([]*domain.Task, error)
}

// CompletedDeleter is implemented by repositories that can drop every
// completed task in a single statement.
type CompletedDeleter interface {
	DeleteCompleted(ctx context.Context) ([]string, error)
}
