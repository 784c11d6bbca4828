package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/rezkam/dolist/internal/application/task"
	"github.com/rezkam/dolist/internal/domain"
	"github.com/rezkam/dolist/internal/storage/codec"
)

var _ task.Repository = (*Store)(nil)

// Store is a GCS-based implementation of task.Repository.
// Each task is one JSON object named after its ID, optionally under a prefix.
type Store struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewStore creates a new GCS store.
// It assumes the client is authenticated (e.g. via GOOGLE_APPLICATION_CREDENTIALS)
// unless opts say otherwise.
func NewStore(ctx context.Context, bucketName, prefix string, opts ...option.ClientOption) (*Store, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &Store{
		client: client,
		bucket: bucketName,
		prefix: prefix,
	}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) object(id string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(s.prefix + codec.Name(id))
}

// Create writes a new task object. The write is conditional on the object
// not existing, so concurrent creators cannot overwrite each other.
func (s *Store) Create(ctx context.Context, t *domain.Task) error {
	obj := s.object(t.ID).If(storage.Conditions{DoesNotExist: true})

	if err := s.write(ctx, obj, t); err != nil {
		if isPreconditionFailed(err) {
			return fmt.Errorf("%w: %s", domain.ErrTaskAlreadyExists, t.ID)
		}
		return err
	}
	return nil
}

// Update overwrites an existing task object, conditional on the generation
// observed before the write.
func (s *Store) Update(ctx context.Context, t *domain.Task) error {
	obj := s.object(t.ID)

	attrs, err := obj.Attrs(ctx)
	if err != nil {
		// Use errors.Is to handle wrapped errors from GCS client
		if errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, t.ID)
		}
		return fmt.Errorf("failed to check object existence: %w", err)
	}

	return s.write(ctx, obj.If(storage.Conditions{GenerationMatch: attrs.Generation}), t)
}

// Delete removes a task object.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.object(id).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// FindAll scans the bucket prefix for task objects and loads them in parallel.
// Unreadable or corrupt objects are skipped.
func (s *Store) FindAll(ctx context.Context) ([]*domain.Task, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: s.prefix})

	// First, collect all object names
	var objectNames []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		if strings.HasSuffix(attrs.Name, codec.Extension) {
			objectNames = append(objectNames, attrs.Name)
		}
	}

	// Then, fetch objects in parallel
	var mu sync.Mutex
	tasks := make([]*domain.Task, 0, len(objectNames))
	var wg sync.WaitGroup

	// Limit concurrency to avoid overwhelming GCS and local resources.
	const maxConcurrency = 20
	semaphore := make(chan struct{}, maxConcurrency)

	for _, name := range objectNames {
		semaphore <- struct{}{} // Acquire token
		wg.Go(func() {
			defer func() { <-semaphore }() // Release token

			t, err := s.read(ctx, name)
			if err != nil {
				slog.WarnContext(ctx, "Skipping unreadable task object", "object", name, "error", err)
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

func (s *Store) read(ctx context.Context, name string) (*domain.Task, error) {
	r, err := s.client.Bucket(s.bucket).Object(name).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return codec.Decode(data)
}

func (s *Store) write(ctx context.Context, obj *storage.ObjectHandle, t *domain.Task) error {
	data, err := codec.Encode(t)
	if err != nil {
		return err
	}

	w := obj.NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	return nil
}

func isPreconditionFailed(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusPreconditionFailed
}
