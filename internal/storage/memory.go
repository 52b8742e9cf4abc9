package storage

import (
	"context"
	"sync"

	"todo/internal/service"
)

// Memory is an in-process Storage.
type Memory struct {
	mu    sync.RWMutex
	tasks []service.Task
}

// NewMemory creates an empty Memory storage.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) List(ctx context.Context, filter Filter, limit, offset int) ([]service.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []service.Task{}
	skipped := 0
	for _, t := range m.tasks {
		if !filter.Match(t) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if limit >= 0 && len(result) >= limit {
			break
		}
		result = append(result, t)
	}
	return result, nil
}

func (m *Memory) Get(ctx context.Context, id string) (service.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.index(id); i >= 0 {
		return m.tasks[i], nil
	}
	return service.Task{}, ErrNotFound
}

func (m *Memory) Create(ctx context.Context, t service.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tasks = append(m.tasks, t)
	return nil
}

func (m *Memory) Update(ctx context.Context, t service.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(t.ID)
	if i < 0 {
		return ErrNotFound
	}
	m.tasks[i] = t
	return nil
}

func (m *Memory) Delete(ctx context.Context, id string) (service.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return service.Task{}, ErrNotFound
	}
	t := m.tasks[i]
	m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
	return t, nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) index(id string) int {
	for i, t := range m.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
