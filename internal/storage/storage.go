// Package storage persists tasks for the reference server.
package storage

import (
	"context"
	"errors"

	"todo/internal/service"
)

// ErrNotFound is returned when no task has the requested ID.
var ErrNotFound = errors.New("not found")

// Filter restricts List by completion state.
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

// Match reports whether t passes the filter.
func (f Filter) Match(t service.Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Storage holds the server's task collection in creation order.
type Storage interface {
	// List returns tasks matching filter in creation order.
	// A negative limit means no limit.
	List(ctx context.Context, filter Filter, limit, offset int) ([]service.Task, error)

	// Get returns a task by ID.
	Get(ctx context.Context, id string) (service.Task, error)

	// Create stores a new task. The ID must already be assigned.
	Create(ctx context.Context, t service.Task) error

	// Update replaces the title and completed flag of an existing task.
	Update(ctx context.Context, t service.Task) error

	// Delete removes a task and returns it.
	Delete(ctx context.Context, id string) (service.Task, error)

	Close() error
}
