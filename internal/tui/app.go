package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/todo/internal/api"
	"github.com/pablasso/todo/internal/config"
	"github.com/pablasso/todo/internal/notify"
	"github.com/pablasso/todo/internal/service"
	"github.com/pablasso/todo/internal/session"
	"github.com/pablasso/todo/internal/state"
	"github.com/pablasso/todo/internal/store"
	"github.com/pablasso/todo/internal/task"
	"github.com/pablasso/todo/internal/tui/msgs"
	"github.com/pablasso/todo/internal/tui/styles"
	"github.com/pablasso/todo/internal/tui/views"
)

const (
	MinTerminalWidth  = 60
	MinTerminalHeight = 15
)

// View represents the different screens in the TUI.
type View int

const (
	ViewLogin View = iota
	ViewRegister
	ViewHome
)

// Model is the main Bubble Tea model that orchestrates all views.
type Model struct {
	currentView View
	width       int
	height      int

	login    views.LoginModel
	register views.RegisterModel
	home     views.HomeModel

	// Shared state, alive for the whole program
	client   *api.Client
	storage  *session.Storage
	session  *session.State
	filter   *state.Filter
	modal    *state.Modal
	content  *state.ContentType
	notifier *notify.Notifier
	logger   *slog.Logger
	rollback store.RollbackPolicy
	send     func(tea.Msg)
	username string

	// Per login: every home screen gets a fresh store and generation so
	// commands still running for a previous user cannot touch it.
	generation uint64
	store      *store.Store
}

// Run starts the TUI application.
func Run(opts Options) error {
	var p *tea.Program
	send := func(msg tea.Msg) {
		if p != nil {
			go p.Send(msg)
		}
	}

	p = tea.NewProgram(
		initialModel(opts, send),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

// initialModel wires the shared state. send delivers messages from outside
// the update loop (store changes, logout redirects); it may be nil in tests.
func initialModel(opts Options, send func(tea.Msg)) Model {
	if send == nil {
		send = func(tea.Msg) {}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	client := opts.Client
	if client == nil {
		client = api.NewClient(config.DefaultAPIURL, "")
	}
	client.Logger = logger

	m := Model{
		client:   client,
		storage:  opts.Storage,
		filter:   state.NewFilter(),
		modal:    state.NewModal(),
		content:  state.NewContentType(),
		notifier: notify.New(),
		logger:   logger,
		rollback: opts.Rollback,
		send:     send,
	}
	m.session = session.NewState(opts.Storage, func() { send(msgs.GoToLoginMsg{}) })

	if opts.Storage != nil {
		cred, err := opts.Storage.Load()
		switch {
		case err == nil:
			m.username = cred.Username
			m.startHome(cred.Token)
			return m
		case !errors.Is(err, session.ErrNoCredential):
			logger.Warn("ignoring unreadable credential", "path", opts.Storage.Path(), "err", err)
		}
	}

	m.currentView = ViewLogin
	m.login = views.NewLoginModel(m.client, "")
	return m
}

// startHome switches to a new home screen for token with its own store.
func (m *Model) startHome(token string) {
	m.generation++
	gen := m.generation
	send := m.send

	m.store = store.New(
		store.WithRollbackPolicy(m.rollback),
		store.WithLogger(m.logger),
		store.WithOnChange(func([]task.Task) { send(msgs.TasksChangedMsg{Generation: gen}) }),
	)

	authed := m.client.WithCredential(token)
	m.home = views.NewHomeModel(views.HomeDeps{
		Generation: gen,
		Service:    service.New(m.store, authed),
		Loader:     authed,
		Session:    m.session,
		Filter:     m.filter,
		Modal:      m.modal,
		Content:    m.content,
		Notifier:   m.notifier,
	})
	m.home.SetSize(m.width, m.height)
	m.currentView = ViewHome
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	switch m.currentView {
	case ViewHome:
		return m.home.Init()
	case ViewRegister:
		return m.register.Init()
	default:
		return m.login.Init()
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		switch m.currentView {
		case ViewLogin:
			m.login.SetSize(msg.Width, msg.Height)
		case ViewRegister:
			m.register.SetSize(msg.Width, msg.Height)
		case ViewHome:
			m.home.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case msgs.GoToLoginMsg:
		return m.showLogin(msg.Username, "")

	case msgs.GoToRegisterMsg:
		m.register = views.NewRegisterModel(m.client)
		m.register.SetSize(m.width, m.height)
		m.currentView = ViewRegister
		return m, m.register.Init()

	case msgs.RegisteredMsg:
		return m.showLogin(msg.Username, "Account created. Sign in to continue.")

	case msgs.LoggedInMsg:
		m.username = msg.Username
		if m.storage != nil {
			cred := session.Credential{Token: msg.Token, Username: msg.Username, CreatedAt: time.Now().UTC()}
			if err := m.storage.Save(cred); err != nil {
				m.logger.Warn("failed to save credential", "err", err)
				m.notifier.Warning("Signed in for this run only", err.Error())
			}
		}
		m.startHome(msg.Token)
		return m, m.home.Init()
	}

	var cmd tea.Cmd
	switch m.currentView {
	case ViewLogin:
		m.login, cmd = m.login.Update(msg)
	case ViewRegister:
		m.register, cmd = m.register.Update(msg)
	case ViewHome:
		m.home, cmd = m.home.Update(msg)
	}
	return m, cmd
}

// showLogin drops the home screen and its store, resets per-user state and
// shows the login form.
func (m Model) showLogin(username, info string) (tea.Model, tea.Cmd) {
	if username == "" {
		username = m.username
	}
	m.generation++
	m.store = nil
	m.home = views.HomeModel{}
	m.session.Set(nil)
	m.filter.Set("")
	m.modal.Close()
	m.content.Set(state.ContentTasks)

	m.login = views.NewLoginModel(m.client, username)
	m.login.SetSize(m.width, m.height)
	if info != "" {
		m.login.SetInfo(info)
	}
	m.currentView = ViewLogin
	return m, m.login.Init()
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width > 0 && m.height > 0 && (m.width < MinTerminalWidth || m.height < MinTerminalHeight) {
		return m.renderTerminalTooSmall()
	}

	switch m.currentView {
	case ViewRegister:
		return m.register.View()
	case ViewHome:
		return m.home.View()
	default:
		return m.login.View()
	}
}

func (m Model) renderTerminalTooSmall() string {
	var b strings.Builder
	b.WriteString(styles.ErrorStyle.Render("Terminal too small"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Minimum: %dx%d", MinTerminalWidth, MinTerminalHeight))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Current: %dx%d", m.width, m.height))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}
