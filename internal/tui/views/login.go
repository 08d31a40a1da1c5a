package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/todo/internal/api"
	"github.com/pablasso/todo/internal/notify"
	"github.com/pablasso/todo/internal/tui/components"
	"github.com/pablasso/todo/internal/tui/msgs"
	"github.com/pablasso/todo/internal/tui/styles"
)

// Authenticator signs users in and creates accounts. *api.Client implements it.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, r api.Registration) error
}

// LoginFailedMsg is sent when the server rejected the login attempt.
type LoginFailedMsg struct {
	Err error
}

// LoginModel is the sign-in screen.
type LoginModel struct {
	auth       Authenticator
	inputs     []textinput.Model // username, password
	focus      int
	spinner    spinner.Model
	submitting bool
	errorMsg   string
	infoMsg    string
	width      int
	height     int
}

// NewLoginModel creates the login form, prefilled with username.
func NewLoginModel(auth Authenticator, username string) LoginModel {
	user := textinput.New()
	user.Placeholder = "Username"
	user.CharLimit = 64
	user.Width = 30
	user.SetValue(username)

	pass := textinput.New()
	pass.Placeholder = "Password"
	pass.CharLimit = 128
	pass.Width = 30
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	m := LoginModel{
		auth:    auth,
		inputs:  []textinput.Model{user, pass},
		spinner: s,
	}
	if username != "" {
		m.focus = 1
	}
	m.inputs[m.focus].Focus()
	return m
}

// Init implements tea.Model.
func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
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

	case LoginFailedMsg:
		m.submitting = false
		m.errorMsg = loginError(msg.Err)
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+r":
			return m, func() tea.Msg { return msgs.GoToRegisterMsg{} }
		case "tab", "down":
			return m.setFocus((m.focus + 1) % len(m.inputs))
		case "shift+tab", "up":
			return m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
		case "enter":
			if m.focus == 0 {
				return m.setFocus(1)
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m LoginModel) setFocus(i int) (LoginModel, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m, m.inputs[m.focus].Focus()
}

func (m LoginModel) submit() (LoginModel, tea.Cmd) {
	username := strings.TrimSpace(m.inputs[0].Value())
	password := m.inputs[1].Value()
	if username == "" || password == "" {
		m.errorMsg = "Username and password are required."
		return m, nil
	}

	m.submitting = true
	m.errorMsg = ""
	auth := m.auth
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		token, err := auth.Login(context.Background(), username, password)
		if err != nil {
			return LoginFailedMsg{Err: err}
		}
		return msgs.LoggedInMsg{Username: username, Token: token}
	})
}

func loginError(err error) string {
	if api.IsUnauthorized(err) {
		return "Invalid username or password."
	}
	msg, _ := notify.Describe("Login", err)
	return msg
}

// View implements tea.Model.
func (m LoginModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Login"))
	b.WriteString("\n")
	for i, in := range m.inputs {
		label := []string{"Username", "Password"}[i]
		if i == m.focus {
			b.WriteString(styles.SelectedStyle.Render(label))
		} else {
			b.WriteString(styles.SubtleStyle.Render(label))
		}
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	switch {
	case m.submitting:
		b.WriteString(m.spinner.View() + " Signing in…")
	case m.errorMsg != "":
		b.WriteString(styles.ErrorStyle.Render(m.errorMsg))
	case m.infoMsg != "":
		b.WriteString(styles.SuccessStyle.Render(m.infoMsg))
	}

	form := styles.BoxStyle.Render(b.String())
	hints := []components.Hint{{Key: "Tab", Desc: "Next field"}, {Key: "Enter", Desc: "Sign in"}, {Key: "Ctrl+R", Desc: "Create account"}, {Key: "Esc", Desc: "Quit"}}

	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, form) + "\n" +
		components.NewStatusBar().RenderHints(m.width, hints)
}

// SetSize updates the model dimensions.
func (m *LoginModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetInfo shows a success note above the form, e.g. after registering.
func (m *LoginModel) SetInfo(msg string) {
	m.infoMsg = msg
}

// Username returns the username field value.
func (m LoginModel) Username() string {
	return m.inputs[0].Value()
}

// Submitting reports whether a login request is in flight.
func (m LoginModel) Submitting() bool {
	return m.submitting
}

// Error returns the message shown under the form.
func (m LoginModel) Error() string {
	return m.errorMsg
}
