// Package store holds the in-memory task collection shown by the views and
// runs optimistic mutations against it.
package store

import (
	"io"
	"log/slog"
	"sync"

	"github.com/pablasso/todo/internal/task"
)

// Mutator is the set of collection edits an optimistic action may perform.
type Mutator interface {
	Add(t task.Task)
	Remove(id string)
	Update(id string, patch task.Patch)
}

// Option configures a Store.
type Option func(*Store)

// WithRollbackPolicy selects how failed optimistic actions are undone.
func WithRollbackPolicy(p RollbackPolicy) Option {
	return func(s *Store) { s.policy = p }
}

// WithLogger sets the logger used to report rollbacks.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOnChange registers an observer called after every change with a copy of
// the new collection. It runs outside the store lock.
func WithOnChange(fn func([]task.Task)) Option {
	return func(s *Store) { s.onChange = fn }
}

// Store is the authoritative task collection for the active view plus its
// loading flag. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	tasks    []task.Task
	loading  bool
	version  uint64
	policy   RollbackPolicy
	logger   *slog.Logger
	onChange func([]task.Task)
}

// New returns an empty store that is still loading.
func New(opts ...Option) *Store {
	s := &Store{
		tasks:   []task.Task{},
		loading: true,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the collection wholesale and clears the loading flag.
func (s *Store) Load(tasks []task.Task) {
	next := task.CloneAll(tasks)
	if next == nil {
		next = []task.Task{}
	}
	s.mutate(func(_ []task.Task) ([]task.Task, bool) {
		return next, true
	}, func() { s.loading = false })
}

// Add appends t to the end of the collection. Ids are not de-duplicated.
func (s *Store) Add(t task.Task) {
	s.mutate(func(cur []task.Task) ([]task.Task, bool) {
		return appendTask(cur, t), true
	}, nil)
}

// Remove drops the task with the given id. Absent ids are ignored.
func (s *Store) Remove(id string) {
	s.mutate(func(cur []task.Task) ([]task.Task, bool) {
		return removeTask(cur, id)
	}, nil)
}

// Update merges patch into the task with the given id. Absent ids are ignored.
func (s *Store) Update(id string, patch task.Patch) {
	s.mutate(func(cur []task.Task) ([]task.Task, bool) {
		return updateTask(cur, id, patch)
	}, nil)
}

// Tasks returns a copy of the collection in display order.
func (s *Store) Tasks() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return task.CloneAll(s.tasks)
}

// Find returns the task with the given id.
func (s *Store) Find(id string) (task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.tasks, id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return task.Task{}, false
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Loading reports whether the initial load has not completed yet.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Version increases every time the collection changes.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// mutate swaps in the collection produced by fn. fn must not modify cur in
// place; it returns false when nothing changed.
func (s *Store) mutate(fn func(cur []task.Task) ([]task.Task, bool), also func()) {
	s.mu.Lock()
	next, changed := fn(s.tasks)
	if also != nil {
		also()
	}
	if !changed {
		s.mu.Unlock()
		return
	}
	s.tasks = next
	s.version++
	var snapshot []task.Task
	if s.onChange != nil {
		snapshot = task.CloneAll(next)
	}
	notify := s.onChange
	s.mu.Unlock()

	if notify != nil {
		notify(snapshot)
	}
}

func indexOf(tasks []task.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func appendTask(cur []task.Task, t task.Task) []task.Task {
	next := make([]task.Task, 0, len(cur)+1)
	next = append(next, cur...)
	return append(next, t.Clone())
}

func removeTask(cur []task.Task, id string) ([]task.Task, bool) {
	i := indexOf(cur, id)
	if i < 0 {
		return cur, false
	}
	return removeAt(cur, i)
}

func updateTask(cur []task.Task, id string, patch task.Patch) ([]task.Task, bool) {
	i := indexOf(cur, id)
	if i < 0 {
		return cur, false
	}
	next := make([]task.Task, len(cur))
	copy(next, cur)
	next[i] = patch.Apply(cur[i])
	return next, true
}

func insertTask(cur []task.Task, at int, t task.Task) []task.Task {
	if at < 0 {
		at = 0
	}
	if at > len(cur) {
		at = len(cur)
	}
	next := make([]task.Task, 0, len(cur)+1)
	next = append(next, cur[:at]...)
	next = append(next, t.Clone())
	return append(next, cur[at:]...)
}
