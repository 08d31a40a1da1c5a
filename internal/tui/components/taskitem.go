package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/todo/internal/task"
	"github.com/pablasso/todo/internal/tui/styles"
)

// TaskItem renders one task row: checkbox, name, difficulty and priority
// chips, and the description on a second line when present.
type TaskItem struct {
	Task     task.Task
	Selected bool
	Width    int
}

// NewTaskItem creates a row for t.
func NewTaskItem(t task.Task, selected bool, width int) TaskItem {
	return TaskItem{Task: t, Selected: selected, Width: width}
}

// Lines returns the rendered row, one entry per terminal line.
func (i TaskItem) Lines() []string {
	t := i.Task

	cursor := "  "
	if i.Selected {
		cursor = styles.SelectedStyle.Render("> ")
	}
	check := "[ ]"
	if t.Done {
		check = "[x]"
	}

	name := t.Name
	switch {
	case task.IsTemporaryID(t.ID):
		name = styles.PendingStyle.Render(name + " (saving…)")
	case t.Done:
		name = styles.DoneStyle.Render(name)
	case i.Selected:
		name = styles.SelectedStyle.Render(name)
	}

	first := cursor + check + " " + name
	if chips := Chips(t); chips != "" {
		first += " " + chips
	}

	lines := []string{first}
	if desc := strings.TrimSpace(t.Description); desc != "" {
		desc = strings.ReplaceAll(desc, "\n", " ")
		if i.Width > 8 {
			desc = truncate(desc, i.Width-6)
		}
		lines = append(lines, "      "+styles.SubtleStyle.Render(desc))
	}
	return lines
}

// View joins Lines.
func (i TaskItem) View() string {
	return strings.Join(i.Lines(), "\n")
}

// Chips renders the difficulty and priority tags of t. Absent values are skipped.
func Chips(t task.Task) string {
	var chips []string
	if t.Difficulty != "" {
		chips = append(chips, styles.ChipStyle.
			Foreground(styles.DifficultyColor(string(t.Difficulty))).
			Render(string(t.Difficulty)))
	}
	if t.Priority > 0 {
		chips = append(chips, styles.ChipStyle.
			Foreground(styles.PriorityColor(t.Priority)).
			Render(fmt.Sprintf("P%d", t.Priority)))
	}
	return strings.Join(chips, "")
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
