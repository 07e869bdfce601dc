package queue

import (
	"sync"
	"time"

	"github.com/rpaulsen/lectern/internal/shared"
)

// Store is the ordered collection of queued tasks and the only shared mutable
// state in the pipeline. All mutation goes through its command methods so the
// processor's scan-and-dispatch stays consistent with what consumers observe.
//
// Every mutation pokes the change channel so the processor wakes up.
type Store struct {
	mu    sync.Mutex
	tasks []*Task
	wake  chan struct{}
}

// NewStore creates an empty task store.
func NewStore() *Store {
	return &Store{wake: make(chan struct{}, 1)}
}

// Enqueue appends a new pending task built from spec and returns its id.
// Missing required fields are the caller's responsibility; the store does not
// validate beyond construction.
func (s *Store) Enqueue(spec Spec) string {
	t := &Task{
		ID:         shared.GenerateID(),
		Category:   spec.Category,
		Payload:    spec.Payload,
		Status:     StatusPending,
		Progress:   0,
		Dest:       spec.Dest,
		MimeType:   spec.MimeType,
		EnqueuedAt: time.Now(),
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()

	s.notify()
	return t.ID
}

// Patch replaces only the named fields of the task matching id.
// No-op if the id is not found.
func (s *Store) Patch(id string, p Patch) {
	s.mu.Lock()
	for _, t := range s.tasks {
		if t.ID != id {
			continue
		}
		if p.Status != nil {
			t.Status = *p.Status
		}
		if p.Progress != nil {
			t.Progress = *p.Progress
		}
		if p.Err != nil {
			t.Err = *p.Err
		}
		if p.FileURL != nil {
			t.FileURL = *p.FileURL
		}
		if p.PublicID != nil {
			t.PublicID = *p.PublicID
		}
		break
	}
	s.mu.Unlock()

	s.notify()
}

// Remove deletes the task matching id and reports whether anything was
// removed. A task that is currently uploading is refused: the in-flight
// transfer cannot be cancelled, only pending and settled tasks can go.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	removed := false
	for i, t := range s.tasks {
		if t.ID != id {
			continue
		}
		if t.Status == StatusUploading {
			break
		}
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
		removed = true
		break
	}
	s.mu.Unlock()

	if removed {
		s.notify()
	}
	return removed
}

// ClearCompleted removes every task in completed status. Errored tasks stay
// visible until removed individually.
func (s *Store) ClearCompleted() {
	s.mu.Lock()
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.Status != StatusCompleted {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	s.mu.Unlock()

	s.notify()
}

// Tasks returns a snapshot of the queue in insertion order.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = *t
	}
	return out
}

// Get returns a copy of the task matching id.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.ID == id {
			return *t, true
		}
	}
	return Task{}, false
}

// Settled reports whether no task is pending or uploading.
func (s *Store) Settled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if !t.Status.Terminal() {
			return false
		}
	}
	return true
}

// claimNext selects the oldest pending task and marks it uploading in the
// same critical section, returning a copy. Selection and the status change
// must be one atomic step: a gap between them would let Remove accept a task
// the processor has already picked, and the upload would run anyway.
func (s *Store) claimNext() (Task, bool) {
	s.mu.Lock()
	for _, t := range s.tasks {
		if t.Status == StatusPending {
			t.Status = StatusUploading
			t.Progress = 0
			claimed := *t
			s.mu.Unlock()
			s.notify()
			return claimed, true
		}
	}
	s.mu.Unlock()
	return Task{}, false
}

// Changes returns the wake channel. A receive means the collection changed at
// least once since the last receive; signals coalesce.
func (s *Store) Changes() <-chan struct{} {
	return s.wake
}

func (s *Store) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
		// a wakeup is already queued
	}
}
