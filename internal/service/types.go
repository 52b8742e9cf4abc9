// Package service defines the backend-agnostic interface for task operations.
package service

const (
	// DefaultLimit is the page size used when fetching all tasks.
	DefaultLimit = 100

	// DefaultOffset is the starting offset used when fetching all tasks.
	DefaultOffset = 0
)

// Task represents a single to-do item.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// CreateTask is the input for creating a task.
// Completed defaults to false when unset.
type CreateTask struct {
	Title     string      `json:"title"`
	Completed Field[bool] `json:"completed,omitzero"`
}

// UpdateTask is a partial patch. Unset fields keep their current value.
type UpdateTask struct {
	Title     Field[string] `json:"title,omitzero"`
	Completed Field[bool]   `json:"completed,omitzero"`
}

// Apply merges the patch onto t field by field.
func (u UpdateTask) Apply(t Task) Task {
	t.Title = u.Title.Or(t.Title)
	t.Completed = u.Completed.Or(t.Completed)
	return t
}

// IsEmpty reports whether the patch changes nothing.
func (u UpdateTask) IsEmpty() bool {
	return !u.Title.IsSet() && !u.Completed.IsSet()
}
