// Package codec encodes tasks as self-describing JSON documents for the
// object-style stores.
package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rezkam/dolist/internal/domain"
)

// Extension is the file or object name suffix of a task document.
const Extension = ".json"

// document is the stored shape of a task. Field names are part of the
// on-disk format and must not change.
type document struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Important           bool       `json:"important"`
	ImportantColorIndex int        `json:"important_color_index"`
	ExpirationDate      time.Time  `json:"expiration_date"`
	IsCompleted         bool       `json:"is_completed"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	ReminderID          string     `json:"reminder_id,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Name returns the document name of a task ID.
func Name(id string) string {
	return id + Extension
}

// Encode marshals a task into its document form.
func Encode(t *domain.Task) ([]byte, error) {
	data, err := json.MarshalIndent(document{
		ID:                  t.ID,
		Title:               t.Title,
		Important:           t.Important,
		ImportantColorIndex: t.ImportantColorIndex,
		ExpirationDate:      t.ExpirationDate,
		IsCompleted:         t.IsCompleted,
		CompletedAt:         t.CompletedAt,
		ReminderID:          t.ReminderID,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task: %w", err)
	}
	return data, nil
}

// Decode unmarshals a task document. Timestamps are normalized to UTC.
func Decode(data []byte) (*domain.Task, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	if doc.ID == "" {
		return nil, fmt.Errorf("%w: document has no id", domain.ErrInvalidID)
	}

	t := &domain.Task{
		ID:                  doc.ID,
		Title:               doc.Title,
		Important:           doc.Important,
		ImportantColorIndex: doc.ImportantColorIndex,
		ExpirationDate:      doc.ExpirationDate.UTC(),
		IsCompleted:         doc.IsCompleted,
		ReminderID:          doc.ReminderID,
		CreatedAt:           doc.CreatedAt.UTC(),
		UpdatedAt:           doc.UpdatedAt.UTC(),
	}
	if doc.CompletedAt != nil {
		completed := doc.CompletedAt.UTC()
		t.CompletedAt = &completed
	}
	return t, nil
}
