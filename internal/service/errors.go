package service

import "errors"

// Backends log the underlying cause and return one of these values, so
// callers can only tell which operation failed.
var (
	ErrFetch    = errors.New("failed to fetch tasks")
	ErrCreate   = errors.New("failed to create task")
	ErrUpdate   = errors.New("failed to update task")
	ErrDelete   = errors.New("failed to delete task")
	ErrNotFound = errors.New("task not found")
)
