// Package service runs the task operations shared by the TUI and the CLI:
// every mutation is applied to the store first and rolled back if the remote
// call fails.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pablasso/todo/internal/store"
	"github.com/pablasso/todo/internal/task"
)

// Remote is the task backend. *api.Client implements it.
type Remote interface {
	ListTasks(ctx context.Context) ([]task.Task, error)
	CreateTask(ctx context.Context, draft task.Draft) (task.Task, error)
	UpdateTask(ctx context.Context, id string, patch task.Patch) (task.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

var (
	// ErrNotFound means no task matches the given reference.
	ErrNotFound = errors.New("task not found")

	// ErrPending means the task has not been confirmed by the server yet.
	ErrPending = errors.New("task is still being created")
)

// Service applies task operations to a store and a remote backend.
type Service struct {
	store  *store.Store
	remote Remote
}

// New creates a Service.
func New(s *store.Store, r Remote) *Service {
	return &Service{store: s, remote: r}
}

// Store returns the underlying store.
func (s *Service) Store() *store.Store {
	return s.store
}

// Refresh replaces the local collection with the server's.
func (s *Service) Refresh(ctx context.Context) error {
	tasks, err := s.remote.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	s.store.Load(tasks)
	return nil
}

// Create adds a placeholder for draft, asks the server to create it and
// replaces the placeholder with the server's task.
func (s *Service) Create(ctx context.Context, draft task.Draft) (task.Task, error) {
	if err := draft.Validate(); err != nil {
		return task.Task{}, err
	}
	placeholder := draft.Optimistic()

	var created task.Task
	err := s.store.RunOptimistic(ctx, func(ctx context.Context, m store.Mutator) error {
		m.Add(placeholder)
		var err error
		created, err = s.remote.CreateTask(ctx, draft)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		return nil
	})
	if err != nil {
		return task.Task{}, err
	}

	if !s.reconcile(placeholder.ID, created) {
		return placeholder, nil
	}
	return created, nil
}

// SetDone marks the task done or not done.
func (s *Service) SetDone(ctx context.Context, id string, done bool) (task.Task, error) {
	if _, err := s.confirmed(id); err != nil {
		return task.Task{}, err
	}

	patch := task.SetDone(done)
	var updated task.Task
	err := s.store.RunOptimistic(ctx, func(ctx context.Context, m store.Mutator) error {
		m.Update(id, patch)
		var err error
		updated, err = s.remote.UpdateTask(ctx, id, patch)
		if err != nil {
			return fmt.Errorf("failed to update task %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return task.Task{}, err
	}

	s.reconcile(id, updated)
	current, _ := s.store.Find(id)
	return current, nil
}

// Toggle flips the done flag of the task.
func (s *Service) Toggle(ctx context.Context, id string) (task.Task, error) {
	t, err := s.confirmed(id)
	if err != nil {
		return task.Task{}, err
	}
	return s.SetDone(ctx, id, !t.Done)
}

// Delete removes the task.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.confirmed(id); err != nil {
		return err
	}
	return s.store.RunOptimistic(ctx, func(ctx context.Context, m store.Mutator) error {
		m.Remove(id)
		if err := s.remote.DeleteTask(ctx, id); err != nil {
			return fmt.Errorf("failed to delete task %s: %w", id, err)
		}
		return nil
	})
}

// Lookup resolves ref to a task in the store. An exact id match wins; a
// number otherwise selects the task at that 1-based position.
func (s *Service) Lookup(ref string) (task.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return task.Task{}, fmt.Errorf("task reference required")
	}
	if t, ok := s.store.Find(ref); ok {
		return t, nil
	}
	if n, err := strconv.Atoi(ref); err == nil {
		tasks := s.store.Tasks()
		if n >= 1 && n <= len(tasks) {
			return tasks[n-1], nil
		}
	}
	return task.Task{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

func (s *Service) confirmed(id string) (task.Task, error) {
	t, ok := s.store.Find(id)
	if !ok {
		return task.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if task.IsTemporaryID(id) {
		return task.Task{}, ErrPending
	}
	return t, nil
}

// reconcile copies the server's copy of a task onto the local entry. Responses
// without an id carry nothing to reconcile.
func (s *Service) reconcile(id string, server task.Task) bool {
	if server.ID == "" {
		return false
	}
	s.store.Update(id, task.PatchFrom(server))
	return true
}
