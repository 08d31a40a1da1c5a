package task

import (
	"fmt"
	"strings"
)

// ValidationError reports an invalid field in a draft.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Draft is the user input for a new task, before the server assigns an id.
type Draft struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Difficulty  Difficulty `json:"difficulty,omitempty"`
	Priority    int        `json:"priority,omitempty"`
}

// Validate checks the draft the same way the creation form does.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if d.Difficulty != "" && !d.Difficulty.Valid() {
		return &ValidationError{Field: "difficulty", Message: fmt.Sprintf("unknown value %q", d.Difficulty)}
	}
	if d.Priority != 0 && (d.Priority < MinPriority || d.Priority > MaxPriority) {
		return &ValidationError{Field: "priority", Message: fmt.Sprintf("must be between %d and %d", MinPriority, MaxPriority)}
	}
	return nil
}

// Optimistic returns the local placeholder task shown until the server responds.
func (d Draft) Optimistic() Task {
	return Task{
		ID:          NewTemporaryID(),
		Name:        strings.TrimSpace(d.Name),
		Description: d.Description,
		Difficulty:  d.Difficulty,
		Priority:    d.Priority,
	}
}
