// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"strconv"
	"sync"

	"todo/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// IDs are assigned sequentially starting at "1".
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int

	// Error injection for testing
	ListAllErr       error
	ListCompletedErr error
	ListActiveErr    error
	CreateErr        error
	UpdateErr        error
	DeleteErr        error

	// OnCall, if set, runs at the start of every operation with its name.
	OnCall func(op string)

	// UpdateResult, if set, replaces the record Update returns.
	UpdateResult func(id string, merged service.Task) service.Task
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1}
}

// AddTask seeds a task directly, bypassing Create.
func (f *FakeService) AddTask(id, title string, completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{ID: id, Title: title, Completed: completed})
}

// Tasks returns a copy of the remote collection.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

func (f *FakeService) call(op string) {
	if f.OnCall != nil {
		f.OnCall(op)
	}
}

// ListAll implements service.Service.
func (f *FakeService) ListAll(ctx context.Context, limit, offset int) ([]service.Task, error) {
	f.call("list_all")
	if f.ListAllErr != nil {
		return nil, f.ListAllErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	offset = max(offset, 0)
	if offset >= len(f.tasks) {
		return []service.Task{}, nil
	}
	end := len(f.tasks)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]service.Task, end-offset)
	copy(out, f.tasks[offset:end])
	return out, nil
}

// ListCompleted implements service.Service.
func (f *FakeService) ListCompleted(ctx context.Context) ([]service.Task, error) {
	f.call("list_completed")
	if f.ListCompletedErr != nil {
		return nil, f.ListCompletedErr
	}
	return f.filter(true), nil
}

// ListActive implements service.Service.
func (f *FakeService) ListActive(ctx context.Context) ([]service.Task, error) {
	f.call("list_active")
	if f.ListActiveErr != nil {
		return nil, f.ListActiveErr
	}
	return f.filter(false), nil
}

func (f *FakeService) filter(completed bool) []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := []service.Task{}
	for _, t := range f.tasks {
		if t.Completed == completed {
			out = append(out, t)
		}
	}
	return out
}

// Create implements service.Service.
func (f *FakeService) Create(ctx context.Context, in service.CreateTask) (service.Task, error) {
	f.call("create")
	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	task := service.Task{
		ID:        strconv.Itoa(f.nextID),
		Title:     in.Title,
		Completed: in.Completed.Or(false),
	}
	f.nextID++
	f.tasks = append(f.tasks, task)
	return task, nil
}

// Update implements service.Service.
func (f *FakeService) Update(ctx context.Context, id string, patch service.UpdateTask) (service.Task, error) {
	f.call("update")
	if f.UpdateErr != nil {
		return service.Task{}, f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			merged := patch.Apply(t)
			if f.UpdateResult != nil {
				merged = f.UpdateResult(id, merged)
			}
			f.tasks[i] = merged
			return merged, nil
		}
	}
	return service.Task{}, service.ErrNotFound
}

// Delete implements service.Service.
func (f *FakeService) Delete(ctx context.Context, id string) (service.Task, error) {
	f.call("delete")
	if f.DeleteErr != nil {
		return service.Task{}, f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return t, nil
		}
	}
	return service.Task{}, service.ErrNotFound
}
