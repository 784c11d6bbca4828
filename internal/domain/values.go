package domain

// TaskState is the lifecycle state of a task.
// Value object - immutable string enum.
type TaskState string

const (
	TaskStateActive    TaskState = "ACTIVE"
	TaskStateImportant TaskState = "IMPORTANT"
	TaskStateCompleted TaskState = "COMPLETED"
)

// View selects which partition of the ordered collection is returned.
type View string

const (
	ViewActive    View = "active"
	ViewCompleted View = "completed"
	ViewAll       View = "all"
)

// Includes reports whether a task with the given completion flag belongs to the view.
func (v View) Includes(isCompleted bool) bool {
	switch v {
	case ViewActive:
		return !isCompleted
	case ViewCompleted:
		return isCompleted
	default:
		return true
	}
}
