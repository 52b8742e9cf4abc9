// Package store keeps the client-side task collections consistent with the
// remote service.
//
// The store holds three caches: all tasks, active tasks and completed tasks.
// Each is filled wholesale by its own fetch and then patched incrementally by
// Add, Remove and Apply using the record the remote service returned. The
// active and completed caches are independent of all: they are not recomputed
// from it and need not form a partition of it.
package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"todo/internal/logging"
	"todo/internal/service"
)

// Messages written to the error slot when an action fails.
const (
	MsgFetchAll       = "failed to load tasks"
	MsgFetchCompleted = "failed to load completed tasks"
	MsgFetchActive    = "failed to load active tasks"
	MsgCreate         = "failed to create task"
	MsgDelete         = "failed to delete task"
	MsgUpdate         = "failed to update task"
)

// Action describes one in-flight store call.
type Action struct {
	ID      string
	Name    string
	Started time.Time
}

// Snapshot is a copy of the store's observable state.
type Snapshot struct {
	All       []service.Task
	Active    []service.Task
	Completed []service.Task
	Loading   bool
	Err       string
}

// Store owns the cached collections and the loading and error state.
// It is safe for concurrent use. Remote calls run without the lock held.
type Store struct {
	svc service.Service
	log *slog.Logger

	mu        sync.Mutex
	all       []service.Task
	active    []service.Task
	completed []service.Task
	inflight  map[string]Action
	err       string

	subs   map[int]chan Snapshot
	nextID int
}

// New creates an empty store over svc. A nil logger discards.
func New(svc service.Service, log *slog.Logger) *Store {
	return &Store{
		svc:      svc,
		log:      logging.OrDiscard(log),
		inflight: make(map[string]Action),
		subs:     make(map[int]chan Snapshot),
	}
}

// All returns a copy of the all-tasks collection.
func (s *Store) All() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.all)
}

// Active returns a copy of the active collection.
func (s *Store) Active() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.active)
}

// Completed returns a copy of the completed collection.
func (s *Store) Completed() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.completed)
}

// Loading reports whether any action is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight) > 0
}

// Err returns the error message of the most recent failed action, or "" if
// the most recently started action has not failed.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// InFlight returns the actions currently running.
func (s *Store) InFlight() []Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Action, 0, len(s.inflight))
	for _, a := range s.inflight {
		out = append(out, a)
	}
	return out
}

// Snapshot returns a copy of the whole observable state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel that receives the latest snapshot after every
// state change, and a function that unsubscribes and closes it. Slow readers
// only ever see the newest snapshot.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Snapshot, 1)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// FetchAll replaces the all collection with the first page of tasks.
// Failures are recorded in Err, not returned.
func (s *Store) FetchAll(ctx context.Context) {
	s.FetchAllRange(ctx, service.DefaultLimit, service.DefaultOffset)
}

// FetchAllRange replaces the all collection with up to limit tasks starting
// at offset. Failures are recorded in Err, not returned.
func (s *Store) FetchAllRange(ctx context.Context, limit, offset int) {
	id := s.begin("fetch_all")
	tasks, err := s.svc.ListAll(ctx, limit, offset)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failLocked(id, MsgFetchAll, err)
		return
	}
	s.all = clone(tasks)
	s.endLocked(id)
}

// FetchCompleted replaces the completed collection.
// Failures are recorded in Err, not returned.
func (s *Store) FetchCompleted(ctx context.Context) {
	id := s.begin("fetch_completed")
	tasks, err := s.svc.ListCompleted(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failLocked(id, MsgFetchCompleted, err)
		return
	}
	s.completed = clone(tasks)
	s.endLocked(id)
}

// FetchActive replaces the active collection.
// Failures are recorded in Err, not returned.
func (s *Store) FetchActive(ctx context.Context) {
	id := s.begin("fetch_active")
	tasks, err := s.svc.ListActive(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failLocked(id, MsgFetchActive, err)
		return
	}
	s.active = clone(tasks)
	s.endLocked(id)
}

// Add creates a task and prepends it to all and to active or completed.
func (s *Store) Add(ctx context.Context, in service.CreateTask) (service.Task, error) {
	id := s.begin("add")
	task, err := s.svc.Create(ctx, in)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failLocked(id, MsgCreate, err)
		return service.Task{}, err
	}

	s.all = prepend(s.all, task)
	if !task.Completed {
		s.active = prepend(s.active, task)
	} else {
		s.completed = prepend(s.completed, task)
	}
	s.endLocked(id)
	return task, nil
}

// Remove deletes a task and drops it from every collection that holds it.
func (s *Store) Remove(ctx context.Context, taskID string) error {
	id := s.begin("remove")
	_, err := s.svc.Delete(ctx, taskID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failLocked(id, MsgDelete, err)
		return err
	}

	s.all = without(s.all, taskID)
	s.completed = without(s.completed, taskID)
	s.active = without(s.active, taskID)
	s.endLocked(id)
	return nil
}

// Apply updates a task remotely and patches the collections:
//
//  1. The entry in all is replaced if present.
//  2. If patch sets Completed, the task leaves the opposite list and is
//     patched in its target list, or prepended there from all if absent.
//  3. Otherwise the entry is patched in place in completed or active,
//     chosen by the returned record. Nothing moves between lists.
func (s *Store) Apply(ctx context.Context, taskID string, patch service.UpdateTask) (service.Task, error) {
	id := s.begin("apply")
	updated, err := s.svc.Update(ctx, taskID, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failLocked(id, MsgUpdate, err)
		return service.Task{}, err
	}

	replace(s.all, taskID, updated)

	if completed, ok := patch.Completed.Get(); ok {
		if completed {
			s.active = without(s.active, taskID)
			s.completed = s.moveInto(s.completed, taskID, updated)
		} else {
			s.completed = without(s.completed, taskID)
			s.active = s.moveInto(s.active, taskID, updated)
		}
	} else if updated.Completed {
		replace(s.completed, taskID, updated)
	} else {
		replace(s.active, taskID, updated)
	}

	s.endLocked(id)
	return updated, nil
}

// moveInto patches taskID in list if present; otherwise it prepends the
// entry from all, if all has one.
func (s *Store) moveInto(list []service.Task, taskID string, updated service.Task) []service.Task {
	if indexOf(list, taskID) >= 0 {
		replace(list, taskID, updated)
		return list
	}
	if i := indexOf(s.all, taskID); i >= 0 {
		return prepend(list, s.all[i])
	}
	return list
}

// begin registers an action, clears the error slot and publishes the state.
func (s *Store) begin(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.inflight[id] = Action{ID: id, Name: name, Started: time.Now()}
	s.err = ""
	s.log.Debug("action started", "action", name, "id", id)
	s.publishLocked()
	return id
}

func (s *Store) endLocked(id string) {
	delete(s.inflight, id)
	s.publishLocked()
}

func (s *Store) failLocked(id, msg string, err error) {
	s.err = msg
	s.log.Error(msg, "action", s.inflight[id].Name, "err", err)
	s.endLocked(id)
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		All:       clone(s.all),
		Active:    clone(s.active),
		Completed: clone(s.completed),
		Loading:   len(s.inflight) > 0,
		Err:       s.err,
	}
}

func (s *Store) publishLocked() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		// Replace any unread snapshot with the newer one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
