package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rezkam/dolist/internal/application/task"
	"github.com/rezkam/dolist/internal/domain"
	"github.com/rezkam/dolist/internal/storage/codec"
)

var _ task.Repository = (*Store)(nil)

// Store is a filesystem-based implementation of task.Repository.
// Each task is one JSON file named after its ID.
type Store struct {
	baseDir string
	mu      sync.RWMutex
}

// NewStore creates a new filesystem store.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) getFilePath(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return filepath.Join(s.baseDir, codec.Name(id)), nil
}

// Create writes a new task file.
func (s *Store) Create(ctx context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.getFilePath(t.ID)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", domain.ErrTaskAlreadyExists, t.ID)
	}

	return s.write(path, t)
}

// Update overwrites an existing task file.
func (s *Store) Update(ctx context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.getFilePath(t.ID)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, t.ID)
	}

	return s.write(path, t)
}

// Delete removes a task file.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.getFilePath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
		}
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// FindAll scans the directory for task files and loads them in parallel.
// Unreadable or corrupt files are skipped.
func (s *Store) FindAll(ctx context.Context) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var mu sync.Mutex
	tasks := make([]*domain.Task, 0, len(entries))
	var wg sync.WaitGroup

	// Limit concurrency to avoid "too many open files" on large directories.
	const maxConcurrency = 20
	semaphore := make(chan struct{}, maxConcurrency)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), codec.Extension) {
			continue
		}

		semaphore <- struct{}{} // Acquire token
		wg.Go(func() {
			defer func() { <-semaphore }() // Release token

			path := filepath.Join(s.baseDir, entry.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				slog.WarnContext(ctx, "Skipping unreadable task file", "path", path, "error", err)
				return
			}

			t, err := codec.Decode(data)
			if err != nil {
				slog.WarnContext(ctx, "Skipping corrupt task file", "path", path, "error", err)
				return
			}

			mu.Lock()
			tasks = append(tasks, t)
			mu.Unlock()
		})
	}

	wg.Wait()
	return tasks, nil
}

// FindByCompletion returns the tasks whose completion flag matches completed.
func (s *Store) FindByCompletion(ctx context.Context, completed bool) ([]*domain.Task, error) {
	all, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*domain.Task, 0, len(all))
	for _, t := range all {
		if t.IsCompleted == completed {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// write replaces path atomically via a temp file and rename.
func (s *Store) write(path string, t *domain.Task) error {
	data, err := codec.Encode(t)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.baseDir, ".task-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
