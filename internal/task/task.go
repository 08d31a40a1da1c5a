// Package task defines the task entity shared by the store, the API client and the views.
package task

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty is the effort level of a task.
type Difficulty string

const (
	DifficultyLow    Difficulty = "low"
	DifficultyMedium Difficulty = "medium"
	DifficultyHigh   Difficulty = "high"
)

// Difficulties lists the valid difficulties in display order.
var Difficulties = []Difficulty{DifficultyLow, DifficultyMedium, DifficultyHigh}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyLow, DifficultyMedium, DifficultyHigh:
		return true
	}
	return false
}

// ParseDifficulty parses a difficulty name case-insensitively. An empty string
// parses to the absent difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if d == "" || d.Valid() {
		return d, nil
	}
	return "", fmt.Errorf("invalid difficulty %q (want low|medium|high)", s)
}

const (
	MinPriority = 1
	MaxPriority = 5
)

// ParsePriority parses a priority between MinPriority and MaxPriority. An empty
// string parses to 0, the absent priority.
func ParsePriority(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	p, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid priority %q: %w", s, err)
	}
	if p < MinPriority || p > MaxPriority {
		return 0, fmt.Errorf("priority must be between %d and %d, got %d", MinPriority, MaxPriority, p)
	}
	return p, nil
}

// Task is one user-created work item.
type Task struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Difficulty  Difficulty `json:"difficulty,omitempty"`
	Priority    int        `json:"priority,omitempty"`
	Done        bool       `json:"done"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Clone returns a copy of t that shares no memory with it.
func (t Task) Clone() Task {
	c := t
	if t.CreatedAt != nil {
		v := *t.CreatedAt
		c.CreatedAt = &v
	}
	if t.UpdatedAt != nil {
		v := *t.UpdatedAt
		c.UpdatedAt = &v
	}
	return c
}

// Equal reports whether two tasks hold the same values.
func (t Task) Equal(o Task) bool {
	return t.ID == o.ID &&
		t.Name == o.Name &&
		t.Description == o.Description &&
		t.Difficulty == o.Difficulty &&
		t.Priority == o.Priority &&
		t.Done == o.Done &&
		timeEqual(t.CreatedAt, o.CreatedAt) &&
		timeEqual(t.UpdatedAt, o.UpdatedAt)
}

func timeEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// TemporaryIDPrefix marks ids assigned locally before the server confirms a task.
const TemporaryIDPrefix = "tmp-"

// NewTemporaryID returns a fresh placeholder id for an optimistic entry.
func NewTemporaryID() string {
	return TemporaryIDPrefix + uuid.NewString()
}

// IsTemporaryID reports whether id was produced by NewTemporaryID.
func IsTemporaryID(id string) bool {
	return strings.HasPrefix(id, TemporaryIDPrefix)
}

// CloneAll copies a task slice element by element.
func CloneAll(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
