package domain

import (
	"cmp"
	"slices"
	"strings"
)

// CompareTasks orders important tasks first, then by earlier deadline.
// The ID breaks remaining ties so the order is total.
func CompareTasks(a, b *Task) int {
	if a.Important != b.Important {
		if a.Important {
			return -1
		}
		return 1
	}
	if c := a.ExpirationDate.Compare(b.ExpirationDate); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// SortTasks sorts tasks in place into canonical order.
func SortTasks(tasks []*Task) {
	slices.SortFunc(tasks, CompareTasks)
}

// FilterTasks keeps the tasks belonging to view whose title contains search,
// case-insensitively. Input order is preserved.
func FilterTasks(tasks []*Task, view View, search string) []*Task {
	needle := strings.ToLower(strings.TrimSpace(search))

	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if !view.Includes(t.IsCompleted) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Title), needle) {
			continue
		}
		out = append(out, t)
	}
	return out
}
