package task

import "time"

// Patch is a partial task. Nil fields are left untouched by Apply.
type Patch struct {
	ID          *string     `json:"id,omitempty"`
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	Difficulty  *Difficulty `json:"difficulty,omitempty"`
	Priority    *int        `json:"priority,omitempty"`
	Done        *bool       `json:"done,omitempty"`
	CreatedAt   *time.Time  `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time  `json:"updatedAt,omitempty"`
}

// Apply merges the set fields of p into t and returns the result. t is not modified.
func (p Patch) Apply(t Task) Task {
	out := t.Clone()
	if p.ID != nil {
		out.ID = *p.ID
	}
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Difficulty != nil {
		out.Difficulty = *p.Difficulty
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.Done != nil {
		out.Done = *p.Done
	}
	if p.CreatedAt != nil {
		v := *p.CreatedAt
		out.CreatedAt = &v
	}
	if p.UpdatedAt != nil {
		v := *p.UpdatedAt
		out.UpdatedAt = &v
	}
	return out
}

// IsEmpty reports whether the patch sets no field.
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// PatchFrom builds a patch that sets every field of t. Timestamps are only
// included when present. Used to reconcile an optimistic entry with the
// server's copy.
func PatchFrom(t Task) Patch {
	c := t.Clone()
	p := Patch{
		ID:          &c.ID,
		Name:        &c.Name,
		Description: &c.Description,
		Difficulty:  &c.Difficulty,
		Priority:    &c.Priority,
		Done:        &c.Done,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	return p
}

// SetDone returns a patch that only changes the done flag.
func SetDone(done bool) Patch {
	return Patch{Done: &done}
}
