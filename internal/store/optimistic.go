package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/pablasso/todo/internal/task"
)

// RollbackPolicy decides what a failed optimistic action restores.
type RollbackPolicy int

const (
	// RollbackSnapshot restores the whole collection as it was when the action
	// started. Mutations made by overlapping actions in the meantime are lost.
	RollbackSnapshot RollbackPolicy = iota
	// RollbackJournal undoes only the mutations the failed action performed,
	// replaying their inverses newest first.
	RollbackJournal
)

func (p RollbackPolicy) String() string {
	switch p {
	case RollbackSnapshot:
		return "snapshot"
	case RollbackJournal:
		return "journal"
	default:
		return "unknown"
	}
}

// ParseRollbackPolicy parses "snapshot" or "journal".
func ParseRollbackPolicy(s string) (RollbackPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "snapshot":
		return RollbackSnapshot, nil
	case "journal":
		return RollbackJournal, nil
	}
	return RollbackSnapshot, fmt.Errorf("unknown rollback policy %q (want snapshot|journal)", s)
}

// Action performs local mutations through m and then exactly one remote call.
// A non-nil error means the remote effect did not happen.
type Action func(ctx context.Context, m Mutator) error

// RollbackError is returned by RunOptimistic when the action failed and its
// local mutations were undone.
type RollbackError struct {
	Policy RollbackPolicy
	Err    error
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("changes rolled back: %v", e.Err)
}

func (e *RollbackError) Unwrap() error {
	return e.Err
}

// RunOptimistic runs action and undoes its local mutations if it fails.
// On success the mutations stand; reconciling server-assigned fields is up to
// the caller. There is no retry and no serialization between calls.
func (s *Store) RunOptimistic(ctx context.Context, action Action) error {
	s.mu.Lock()
	policy := s.policy
	s.mu.Unlock()

	var err error
	switch policy {
	case RollbackJournal:
		j := &journal{store: s}
		if err = action(ctx, j); err != nil {
			s.mutate(j.rollback, nil)
		}
	default:
		snapshot := s.Tasks()
		if err = action(ctx, s); err != nil {
			s.mutate(func(_ []task.Task) ([]task.Task, bool) {
				return snapshot, true
			}, nil)
		}
	}

	if err == nil {
		return nil
	}
	s.logger.Warn("rolling back optimistic changes", "policy", policy.String(), "err", err)
	return &RollbackError{Policy: policy, Err: err}
}

// undoFunc reverses a single recorded mutation.
type undoFunc func(cur []task.Task) []task.Task

// journal applies mutations to the store and remembers how to undo each one.
type journal struct {
	store *Store
	undo  []undoFunc
}

func (j *journal) record(u undoFunc) {
	j.undo = append(j.undo, u)
}

func (j *journal) Add(t task.Task) {
	j.store.Add(t)
	id := t.ID
	j.record(func(cur []task.Task) []task.Task {
		for i := len(cur) - 1; i >= 0; i-- {
			if cur[i].ID == id {
				next, _ := removeAt(cur, i)
				return next
			}
		}
		return cur
	})
}

func (j *journal) Remove(id string) {
	var (
		removed task.Task
		at      = -1
	)
	j.store.mutate(func(cur []task.Task) ([]task.Task, bool) {
		at = indexOf(cur, id)
		if at < 0 {
			return cur, false
		}
		removed = cur[at].Clone()
		return removeAt(cur, at)
	}, nil)
	if at < 0 {
		return
	}
	j.record(func(cur []task.Task) []task.Task {
		if indexOf(cur, removed.ID) >= 0 {
			return cur
		}
		return insertTask(cur, at, removed)
	})
}

func (j *journal) Update(id string, patch task.Patch) {
	var (
		before task.Task
		found  bool
	)
	j.store.mutate(func(cur []task.Task) ([]task.Task, bool) {
		i := indexOf(cur, id)
		if i < 0 {
			return cur, false
		}
		before = cur[i].Clone()
		found = true
		return updateTask(cur, id, patch)
	}, nil)
	if !found {
		return
	}
	currentID := id
	if patch.ID != nil {
		currentID = *patch.ID
	}
	j.record(func(cur []task.Task) []task.Task {
		i := indexOf(cur, currentID)
		if i < 0 {
			return cur
		}
		next := make([]task.Task, len(cur))
		copy(next, cur)
		next[i] = restoreFields(cur[i], before, patch)
		return next
	})
}

// rollback replays the recorded inverses newest first.
func (j *journal) rollback(cur []task.Task) ([]task.Task, bool) {
	if len(j.undo) == 0 {
		return cur, false
	}
	next := cur
	for i := len(j.undo) - 1; i >= 0; i-- {
		next = j.undo[i](next)
	}
	return next, true
}

// restoreFields copies back from before only the fields patch touched, so
// concurrent edits to other fields survive the undo.
func restoreFields(cur, before task.Task, patch task.Patch) task.Task {
	out := cur.Clone()
	if patch.ID != nil {
		out.ID = before.ID
	}
	if patch.Name != nil {
		out.Name = before.Name
	}
	if patch.Description != nil {
		out.Description = before.Description
	}
	if patch.Difficulty != nil {
		out.Difficulty = before.Difficulty
	}
	if patch.Priority != nil {
		out.Priority = before.Priority
	}
	if patch.Done != nil {
		out.Done = before.Done
	}
	if patch.CreatedAt != nil {
		out.CreatedAt = before.Clone().CreatedAt
	}
	if patch.UpdatedAt != nil {
		out.UpdatedAt = before.Clone().UpdatedAt
	}
	return out
}

func removeAt(cur []task.Task, i int) ([]task.Task, bool) {
	next := make([]task.Task, 0, len(cur)-1)
	next = append(next, cur[:i]...)
	return append(next, cur[i+1:]...), true
}
