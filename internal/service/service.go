package service

import "context"

// Service defines the interface for remote task operations.
// The store never talks to a backend SDK or HTTP directly.
type Service interface {
	// ListAll returns up to limit tasks starting at offset, in server order.
	ListAll(ctx context.Context, limit, offset int) ([]Task, error)

	// ListCompleted returns all tasks with Completed == true.
	ListCompleted(ctx context.Context) ([]Task, error)

	// ListActive returns all tasks with Completed == false.
	ListActive(ctx context.Context) ([]Task, error)

	// Create submits a new task. The backend assigns the ID.
	Create(ctx context.Context, in CreateTask) (Task, error)

	// Update reads the current task, merges patch onto it and stores the result.
	// Returns ErrNotFound if id does not exist.
	Update(ctx context.Context, id string, patch UpdateTask) (Task, error)

	// Delete removes a task and returns the deleted record.
	// Returns ErrNotFound if id does not exist.
	Delete(ctx context.Context, id string) (Task, error)
}
