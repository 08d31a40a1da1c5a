package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/todo/internal/task"
	"github.com/pablasso/todo/internal/tui/components"
	"github.com/pablasso/todo/internal/tui/styles"
)

// CreateField identifies the focused field of the create form.
type CreateField int

const (
	FieldName CreateField = iota
	FieldDescription
	FieldDifficulty
	FieldPriority
	fieldCount
)

// CreateSubmittedMsg is sent when the form holds a valid draft.
type CreateSubmittedMsg struct {
	Draft task.Draft
}

// CreateCancelledMsg is sent when the user closes the form without saving.
type CreateCancelledMsg struct{}

// difficultyChoices includes the absent difficulty first.
var difficultyChoices = append([]task.Difficulty{""}, task.Difficulties...)

// CreateModel is the "new task" dialog.
type CreateModel struct {
	name        textinput.Model
	description textarea.Model
	difficulty  int // index into difficultyChoices
	priority    int // 0 = none
	focus       CreateField
	errorMsg    string
	width       int
}

// NewCreateModel creates an empty form focused on the name field.
func NewCreateModel() CreateModel {
	name := textinput.New()
	name.Placeholder = "Task name"
	name.CharLimit = 120
	name.Width = 40
	name.Focus()

	desc := textarea.New()
	desc.Placeholder = "Description (optional)"
	desc.SetHeight(3)
	desc.SetWidth(40)
	desc.ShowLineNumbers = false
	desc.Prompt = ""
	desc.FocusedStyle.CursorLine = lipgloss.NewStyle()
	desc.BlurredStyle.CursorLine = lipgloss.NewStyle()

	return CreateModel{name: name, description: desc}
}

// Init implements tea.Model.
func (m CreateModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m CreateModel) Update(msg tea.Msg) (CreateModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateFocused(msg)
	}

	switch keyMsg.String() {
	case "esc":
		return m, func() tea.Msg { return CreateCancelledMsg{} }
	case "ctrl+s":
		return m.submit()
	case "tab":
		return m.setFocus((m.focus + 1) % fieldCount)
	case "shift+tab":
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case "enter":
		if m.focus != FieldDescription {
			return m.submit()
		}
	}

	switch m.focus {
	case FieldDifficulty:
		switch keyMsg.String() {
		case "left", "h":
			m.difficulty = (m.difficulty + len(difficultyChoices) - 1) % len(difficultyChoices)
		case "right", "l", " ":
			m.difficulty = (m.difficulty + 1) % len(difficultyChoices)
		}
		return m, nil
	case FieldPriority:
		switch s := keyMsg.String(); s {
		case "left", "h":
			m.priority = (m.priority + task.MaxPriority) % (task.MaxPriority + 1)
		case "right", "l", " ":
			m.priority = (m.priority + 1) % (task.MaxPriority + 1)
		case "0", "1", "2", "3", "4", "5":
			m.priority = int(s[0] - '0')
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m CreateModel) updateFocused(msg tea.Msg) (CreateModel, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FieldName:
		m.name, cmd = m.name.Update(msg)
	case FieldDescription:
		m.description, cmd = m.description.Update(msg)
	}
	return m, cmd
}

func (m CreateModel) setFocus(f CreateField) (CreateModel, tea.Cmd) {
	m.focus = f
	m.name.Blur()
	m.description.Blur()
	switch f {
	case FieldName:
		return m, m.name.Focus()
	case FieldDescription:
		return m, m.description.Focus()
	}
	return m, nil
}

func (m CreateModel) submit() (CreateModel, tea.Cmd) {
	draft := m.Draft()
	if err := draft.Validate(); err != nil {
		m.errorMsg = err.Error()
		return m, nil
	}
	m.errorMsg = ""
	return m, func() tea.Msg { return CreateSubmittedMsg{Draft: draft} }
}

// Draft returns the form contents.
func (m CreateModel) Draft() task.Draft {
	return task.Draft{
		Name:        strings.TrimSpace(m.name.Value()),
		Description: strings.TrimSpace(m.description.Value()),
		Difficulty:  difficultyChoices[m.difficulty],
		Priority:    m.priority,
	}
}

// View implements tea.Model.
func (m CreateModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("New task"))
	b.WriteString("\n")

	b.WriteString(m.label(FieldName, "Name"))
	b.WriteString("\n")
	b.WriteString(m.name.View())
	b.WriteString("\n\n")

	b.WriteString(m.label(FieldDescription, "Description"))
	b.WriteString("\n")
	b.WriteString(m.description.View())
	b.WriteString("\n\n")

	b.WriteString(m.label(FieldDifficulty, "Difficulty"))
	b.WriteString("  ")
	b.WriteString(m.renderChoices(difficultyLabels(), m.difficulty, m.focus == FieldDifficulty))
	b.WriteString("\n")

	b.WriteString(m.label(FieldPriority, "Priority"))
	b.WriteString("    ")
	b.WriteString(m.renderChoices(priorityLabels(), m.priority, m.focus == FieldPriority))

	if m.errorMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.ErrorStyle.Render(m.errorMsg))
	}

	b.WriteString("\n\n")
	hints := []components.Hint{{Key: "Tab", Desc: "Next"}, {Key: "Ctrl+S", Desc: "Save"}, {Key: "Esc", Desc: "Cancel"}}
	b.WriteString(components.NewStatusBar().RenderHints(44, hints))

	return styles.ModalStyle.Render(b.String())
}

func (m CreateModel) label(f CreateField, text string) string {
	if m.focus == f {
		return styles.SelectedStyle.Render(text)
	}
	return styles.SubtleStyle.Render(text)
}

func (m CreateModel) renderChoices(labels []string, selected int, focused bool) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		switch {
		case i == selected && focused:
			parts[i] = styles.SelectedStyle.Render("[" + l + "]")
		case i == selected:
			parts[i] = "[" + l + "]"
		default:
			parts[i] = styles.SubtleStyle.Render(" " + l + " ")
		}
	}
	return strings.Join(parts, "")
}

func difficultyLabels() []string {
	out := make([]string, len(difficultyChoices))
	for i, d := range difficultyChoices {
		if d == "" {
			out[i] = "none"
			continue
		}
		out[i] = string(d)
	}
	return out
}

func priorityLabels() []string {
	out := []string{"none"}
	for p := task.MinPriority; p <= task.MaxPriority; p++ {
		out = append(out, fmt.Sprint(p))
	}
	return out
}

// SetWidth resizes the text fields to fit width.
func (m *CreateModel) SetWidth(width int) {
	m.width = width
	w := width - 12
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	m.name.Width = w
	m.description.SetWidth(w)
}

// Focus returns the focused field.
func (m CreateModel) Focus() CreateField {
	return m.focus
}

// Error returns the validation message, if any.
func (m CreateModel) Error() string {
	return m.errorMsg
}
