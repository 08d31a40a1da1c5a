package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/todo/internal/tui/styles"
)

// Hint is one key binding shown in the status bar, e.g. {"n", "New"}.
type Hint struct {
	Key  string
	Desc string
}

func (h Hint) String() string {
	return h.Key + " " + h.Desc
}

// StatusBar renders a bottom help bar showing contextual help items and an
// optional right-aligned note.
type StatusBar struct {
	right string
}

// NewStatusBar creates a new StatusBar instance.
func NewStatusBar() StatusBar {
	return StatusBar{}
}

// WithRight returns a copy of the bar showing text at its right edge.
func (s StatusBar) WithRight(text string) StatusBar {
	s.right = text
	return s
}

// Render returns the status bar string for the given width and items.
// Items are joined with " • ". The right note is dropped when it doesn't fit.
func (s StatusBar) Render(width int, items []string) string {
	content := strings.Join(items, " • ")

	if s.right != "" {
		gap := width - lipgloss.Width(content) - lipgloss.Width(s.right) - 2
		if gap >= 1 {
			content += strings.Repeat(" ", gap) + s.right
		}
	}

	return styles.StatusBarStyle.Width(width).Render(content)
}

// RenderHints renders hints the same way Render renders plain items.
func (s StatusBar) RenderHints(width int, hints []Hint) string {
	items := make([]string, len(hints))
	for i, h := range hints {
		items[i] = h.String()
	}
	return s.Render(width, items)
}
