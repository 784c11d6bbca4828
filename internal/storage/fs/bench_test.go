package fs_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rezkam/dolist/internal/domain"
	"github.com/rezkam/dolist/internal/storage/fs"
)

func BenchmarkFS_FindAll_1000Tasks(b *testing.B) {
	store, err := fs.NewStore(b.TempDir())
	if err != nil {
		b.Fatalf("failed to create store: %v", err)
	}

	ctx := context.Background()
	now := time.Now().UTC()
	for i := range 1000 {
		t := &domain.Task{
			ID:             fmt.Sprintf("task-%d", i),
			Title:          "Benchmark Task Payload",
			ExpirationDate: now.Add(time.Duration(i) * time.Minute),
			IsCompleted:    i%2 == 0,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := store.Create(ctx, t); err != nil {
			b.Fatalf("setup failed: %v", err)
		}
	}

	for b.Loop() {
		tasks, err := store.FindAll(ctx)
		if err != nil {
			b.Fatalf("FindAll failed: %v", err)
		}
		if len(tasks) != 1000 {
			b.Fatalf("expected 1000 tasks, got %d", len(tasks))
		}
	}
}
