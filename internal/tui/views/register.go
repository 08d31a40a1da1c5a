package views

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/todo/internal/api"
	"github.com/pablasso/todo/internal/notify"
	"github.com/pablasso/todo/internal/task"
	"github.com/pablasso/todo/internal/tui/components"
	"github.com/pablasso/todo/internal/tui/msgs"
	"github.com/pablasso/todo/internal/tui/styles"
)

// RegisterFailedMsg is sent when account creation did not succeed.
type RegisterFailedMsg struct {
	Err error
}

var registerLabels = []string{"Name", "Email", "Username", "Password"}

// RegisterModel is the account creation screen.
type RegisterModel struct {
	auth       Authenticator
	inputs     []textinput.Model // name, email, username, password
	focus      int
	spinner    spinner.Model
	submitting bool
	errorMsg   string
	width      int
	height     int
}

// NewRegisterModel creates an empty registration form.
func NewRegisterModel(auth Authenticator) RegisterModel {
	inputs := make([]textinput.Model, len(registerLabels))
	for i, label := range registerLabels {
		in := textinput.New()
		in.Placeholder = label
		in.CharLimit = 128
		in.Width = 30
		inputs[i] = in
	}
	inputs[3].EchoMode = textinput.EchoPassword
	inputs[3].EchoCharacter = '•'
	inputs[0].Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	return RegisterModel{auth: auth, inputs: inputs, spinner: s}
}

// Init implements tea.Model.
func (m RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m RegisterModel) Update(msg tea.Msg) (RegisterModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.submitting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case RegisterFailedMsg:
		m.submitting = false
		m.errorMsg = registerError(msg.Err)
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "ctrl+l":
			return m, func() tea.Msg { return msgs.GoToLoginMsg{} }
		case "tab", "down":
			return m.setFocus((m.focus + 1) % len(m.inputs))
		case "shift+tab", "up":
			return m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
		case "enter":
			if m.focus < len(m.inputs)-1 {
				return m.setFocus(m.focus + 1)
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m RegisterModel) setFocus(i int) (RegisterModel, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m, m.inputs[m.focus].Focus()
}

// Registration returns the form contents.
func (m RegisterModel) Registration() api.Registration {
	return api.Registration{
		Name:     strings.TrimSpace(m.inputs[0].Value()),
		Email:    strings.TrimSpace(m.inputs[1].Value()),
		Username: strings.TrimSpace(m.inputs[2].Value()),
		Password: m.inputs[3].Value(),
	}
}

func (m RegisterModel) submit() (RegisterModel, tea.Cmd) {
	r := m.Registration()
	if err := r.Validate(); err != nil {
		m.errorMsg = registerError(err)
		return m, nil
	}

	m.submitting = true
	m.errorMsg = ""
	auth := m.auth
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		if err := auth.Register(context.Background(), r); err != nil {
			return RegisterFailedMsg{Err: err}
		}
		return msgs.RegisteredMsg{Username: r.Username}
	})
}

func registerError(err error) string {
	var verr *task.ValidationError
	if errors.As(err, &verr) {
		return strings.ToUpper(verr.Field[:1]) + verr.Field[1:] + " " + verr.Message + "."
	}
	msg, _ := notify.Describe("Registration", err)
	return msg
}

// View implements tea.Model.
func (m RegisterModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Register"))
	b.WriteString("\n")
	for i, in := range m.inputs {
		if i == m.focus {
			b.WriteString(styles.SelectedStyle.Render(registerLabels[i]))
		} else {
			b.WriteString(styles.SubtleStyle.Render(registerLabels[i]))
		}
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	if m.submitting {
		b.WriteString(m.spinner.View() + " Creating account…")
	} else if m.errorMsg != "" {
		b.WriteString(styles.ErrorStyle.Render(m.errorMsg))
	}

	form := styles.BoxStyle.Render(b.String())
	hints := []components.Hint{{Key: "Tab", Desc: "Next field"}, {Key: "Enter", Desc: "Register"}, {Key: "Esc", Desc: "Back to login"}}

	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, form) + "\n" +
		components.NewStatusBar().RenderHints(m.width, hints)
}

// SetSize updates the model dimensions.
func (m *RegisterModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Focus returns the index of the focused field.
func (m RegisterModel) Focus() int {
	return m.focus
}

// Submitting reports whether a registration request is in flight.
func (m RegisterModel) Submitting() bool {
	return m.submitting
}

// Error returns the message shown under the form.
func (m RegisterModel) Error() string {
	return m.errorMsg
}
