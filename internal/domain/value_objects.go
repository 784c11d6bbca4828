package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxTitleLength is the maximum title length in bytes.
const MaxTitleLength = 255

// DefaultDueIn is the due offset boundary layers apply when the caller omits a due date.
const DefaultDueIn = 24 * time.Hour

// Title is a validated title value object (1-255 characters).
type Title struct {
	value string
}

// NewTitle creates a new Title, validating the input.
func NewTitle(s string) (Title, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return Title{}, ErrTitleRequired
	}

	if len(s) > MaxTitleLength {
		return Title{}, ErrTitleTooLong
	}

	return Title{value: s}, nil
}

// String returns the title value.
func (t Title) String() string {
	return t.value
}

// NewView validates and creates a View. Empty input selects the active view.
func NewView(s string) (View, error) {
	if s == "" {
		return ViewActive, nil
	}

	view := View(strings.ToLower(s))

	switch view {
	case ViewActive, ViewCompleted, ViewAll:
		return view, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidView, s)
	}
}

// NewDueDate parses a due date given either as an RFC 3339 timestamp or as a
// duration relative to now ("90m", "2h"). Empty input yields now + DefaultDueIn.
func NewDueDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.Add(DefaultDueIn).UTC(), nil
	}

	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(d).UTC(), nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDueDate, s)
	}
	return t.UTC(), nil
}
