package domain

import "errors"

// Domain errors returned by the task service and repository implementations.

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrTaskNotFound indicates the specified task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskAlreadyExists is returned by repositories when a task ID is reused.
	ErrTaskAlreadyExists = errors.New("task already exists")

	// ErrInvalidID indicates the provided ID format is invalid.
	ErrInvalidID = errors.New("invalid ID format")

	// ErrTitleRequired indicates the title is empty after trimming.
	ErrTitleRequired = errors.New("title is required")

	// ErrTitleTooLong indicates the title exceeds 255 characters.
	ErrTitleTooLong = errors.New("title must be 255 characters or less")

	// ErrInvalidDueDate indicates the due date is missing or unparsable.
	ErrInvalidDueDate = errors.New("invalid due date")

	// ErrInvalidView indicates an unknown list view selector.
	ErrInvalidView = errors.New("invalid view")

	// ErrTaskCompleted is returned for intents that need an open task.
	ErrTaskCompleted = errors.New("task is completed")

	// ErrTaskNotCompleted is returned when restoring a task that is still open.
	ErrTaskNotCompleted = errors.New("task is not completed")

	// ErrInvalidColorGroup indicates an unknown palette group name.
	ErrInvalidColorGroup = errors.New("invalid color group")

	// ErrInvalidTaskColor indicates an unknown task color name.
	ErrInvalidTaskColor = errors.New("invalid task color")

	// ErrInvalidButtonScheme indicates an unknown button color scheme.
	ErrInvalidButtonScheme = errors.New("invalid button color scheme")

	// ErrUnauthorized indicates a missing or invalid API key.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidAPIKeyFormat indicates an API key that does not follow the key layout.
	ErrInvalidAPIKeyFormat = errors.New("invalid API key format")
)
