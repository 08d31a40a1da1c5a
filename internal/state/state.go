// Package state holds the small pieces of UI state shared between views:
// the filter text, the create-task modal flag and the content toggle.
// Handles are created by the caller and passed explicitly to each view.
package state

import (
	"strconv"
	"strings"

	"github.com/pablasso/todo/internal/task"
)

// Filter is the current search text.
type Filter struct {
	value string
}

// NewFilter returns an empty filter.
func NewFilter() *Filter {
	return &Filter{}
}

// Value returns the filter text.
func (f *Filter) Value() string {
	return f.value
}

// Set replaces the filter text.
func (f *Filter) Set(s string) {
	f.value = s
}

// Match reports whether t matches the filter. The name, description and
// difficulty match case-insensitively; the priority matches as a decimal
// substring. An empty filter matches every task.
func (f *Filter) Match(t task.Task) bool {
	if f.value == "" {
		return true
	}
	needle := strings.ToLower(f.value)
	if strings.Contains(strings.ToLower(t.Name), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle) ||
		strings.Contains(strings.ToLower(string(t.Difficulty)), needle) {
		return true
	}
	return t.Priority != 0 && strings.Contains(strconv.Itoa(t.Priority), f.value)
}

// Apply returns the tasks that match, in their original order.
func (f *Filter) Apply(tasks []task.Task) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Modal is an open/closed flag.
type Modal struct {
	open bool
}

// NewModal returns a closed modal.
func NewModal() *Modal {
	return &Modal{}
}

func (m *Modal) IsOpen() bool { return m.open }
func (m *Modal) Open()        { m.open = true }
func (m *Modal) Close()       { m.open = false }

// Content selects what the home screen shows.
type Content string

const (
	ContentTasks     Content = "tasks"
	ContentAnalytics Content = "analytics"
)

// ContentType holds the current content and toggles between the two values.
type ContentType struct {
	value Content
}

// NewContentType starts on the task list.
func NewContentType() *ContentType {
	return &ContentType{value: ContentTasks}
}

// Value returns the current content.
func (c *ContentType) Value() Content {
	return c.value
}

// Set selects content. Unknown values are ignored.
func (c *ContentType) Set(v Content) {
	if v == ContentTasks || v == ContentAnalytics {
		c.value = v
	}
}

// Toggle switches between tasks and analytics.
func (c *ContentType) Toggle() {
	if c.value == ContentTasks {
		c.value = ContentAnalytics
	} else {
		c.value = ContentTasks
	}
}

// Must panics with a message naming the provider when h is nil. Views call it
// on construction so a missing dependency fails immediately.
func Must[T any](h *T, provider string) *T {
	if h == nil {
		panic(provider + " state must be provided")
	}
	return h
}
