package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/todo/internal/api"
	"github.com/pablasso/todo/internal/notify"
	"github.com/pablasso/todo/internal/service"
	"github.com/pablasso/todo/internal/session"
	"github.com/pablasso/todo/internal/state"
	"github.com/pablasso/todo/internal/task"
	"github.com/pablasso/todo/internal/tui/components"
	"github.com/pablasso/todo/internal/tui/msgs"
	"github.com/pablasso/todo/internal/tui/styles"
)

// Loader fetches what the home screen shows. *api.Client implements it.
type Loader interface {
	Load(ctx context.Context) (api.Snapshot, error)
}

// HomeDeps are the state handles the home screen works with. Every field
// except Loader, Notifier and Generation is required.
type HomeDeps struct {
	// Generation tags the messages this screen's commands produce.
	Generation uint64


	Service  *service.Service
	Loader   Loader
	Session  *session.State
	Filter   *state.Filter
	Modal    *state.Modal
	Content  *state.ContentType
	Notifier *notify.Notifier
}

// HomeModel is the task list screen: filter, list, create dialog and the
// analytics tab.
type HomeModel struct {
	gen      uint64
	svc      *service.Service
	loader   Loader
	sess     *session.State
	filter   *state.Filter
	modal    *state.Modal
	content  *state.ContentType
	notifier *notify.Notifier

	spinner     spinner.Model
	filterInput textinput.Model
	filtering   bool
	create      CreateModel
	list        components.ListViewport
	cursor      int
	loadErr     error

	width  int
	height int
}

// NewHomeModel creates the home screen. It panics when a required handle is
// missing.
func NewHomeModel(deps HomeDeps) HomeModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	fi := textinput.New()
	fi.Placeholder = "Search for..."
	fi.Prompt = "/ "
	fi.CharLimit = 100

	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.New()
	}

	return HomeModel{
		gen:         deps.Generation,
		svc:         state.Must(deps.Service, "task list"),
		loader:      deps.Loader,
		sess:        state.Must(deps.Session, "session"),
		filter:      state.Must(deps.Filter, "filter"),
		modal:       state.Must(deps.Modal, "modal"),
		content:     state.Must(deps.Content, "content type"),
		notifier:    notifier,
		spinner:     s,
		filterInput: fi,
		create:      NewCreateModel(),
		list:        components.NewListViewport(80, 10),
	}
}

// Init implements tea.Model.
func (m HomeModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

// load fetches tasks and session. The store belongs to this screen and is
// filled from the command's goroutine; the session is only recorded once the
// message reaches Update.
func (m HomeModel) load() tea.Cmd {
	loader := m.loader
	store := m.svc.Store()
	gen := m.gen
	if loader == nil {
		return nil
	}
	return func() tea.Msg {
		snap, err := loader.Load(context.Background())
		if err != nil {
			return msgs.HomeLoadedMsg{Generation: gen, Err: err}
		}
		store.Load(snap.Tasks)
		return msgs.HomeLoadedMsg{Generation: gen, Session: snap.Session}
	}
}

func (m HomeModel) refresh() tea.Cmd {
	svc := m.svc
	gen := m.gen
	return func() tea.Msg {
		return msgs.HomeLoadedMsg{Generation: gen, Err: svc.Refresh(context.Background())}
	}
}

// Update implements tea.Model.
func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.svc.Store().Loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case msgs.HomeLoadedMsg:
		if msg.Generation != m.gen {
			return m, nil
		}
		m.loadErr = msg.Err
		if msg.Err != nil {
			if api.IsUnauthorized(msg.Err) {
				return m, m.logout()
			}
			m.notifier.Failure("Loading tasks", msg.Err)
			return m, expireToast()
		}
		if msg.Session != nil {
			m.sess.Set(msg.Session)
		}
		m.clampCursor()
		return m, nil

	case msgs.TasksChangedMsg:
		if msg.Generation != m.gen {
			return m, nil
		}
		m.clampCursor()
		return m, nil

	case msgs.MutationDoneMsg:
		if msg.Generation != m.gen {
			return m, nil
		}
		return m.handleMutationDone(msg)

	case msgs.ToastExpiredMsg:
		return m, nil

	case CreateSubmittedMsg:
		m.modal.Close()
		return m, m.createTask(msg.Draft)

	case CreateCancelledMsg:
		m.modal.Close()
		return m, nil

	case tea.KeyMsg:
		if m.modal.IsOpen() {
			var cmd tea.Cmd
			m.create, cmd = m.create.Update(msg)
			return m, cmd
		}
		if m.filtering {
			return m.handleFilterKeys(msg)
		}
		return m.handleKeys(msg)
	}

	if m.modal.IsOpen() {
		var cmd tea.Cmd
		m.create, cmd = m.create.Update(msg)
		return m, cmd
	}
	if m.filtering {
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m HomeModel) handleKeys(msg tea.KeyMsg) (HomeModel, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.filtering = true
		m.filterInput.SetValue(m.filter.Value())
		m.filterInput.CursorEnd()
		return m, m.filterInput.Focus()
	case "n":
		m.modal.Open()
		m.create = NewCreateModel()
		m.create.SetWidth(m.width)
		return m, m.create.Init()
	case "tab":
		m.content.Toggle()
		return m, nil
	case "L":
		return m, m.logout()
	case "r":
		return m, m.refresh()
	}

	if m.content.Value() != state.ContentTasks {
		return m, nil
	}

	visible := m.visibleTasks()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case " ", "space", "x":
		if t, ok := m.selected(visible); ok {
			return m, m.toggleTask(t)
		}
	case "d":
		if t, ok := m.selected(visible); ok {
			return m, m.deleteTask(t)
		}
	}
	return m, nil
}

func (m HomeModel) handleFilterKeys(msg tea.KeyMsg) (HomeModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.filter.Set("")
		m.cursor = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if m.filterInput.Value() != m.filter.Value() {
		m.filter.Set(m.filterInput.Value())
		m.cursor = 0
	}
	return m, cmd
}

func (m HomeModel) handleMutationDone(msg msgs.MutationDoneMsg) (HomeModel, tea.Cmd) {
	m.clampCursor()
	if msg.Err != nil {
		m.notifier.Failure(msg.Action, msg.Err)
		if api.IsUnauthorized(msg.Err) {
			return m, tea.Batch(expireToast(), m.logout())
		}
		return m, expireToast()
	}

	switch msg.Action {
	case "Create":
		m.notifier.Success("Task created", msg.Name)
	case "Delete":
		m.notifier.Success("Task deleted", msg.Name)
	case "Update":
		m.notifier.Success("Task updated", msg.Name)
	default:
		return m, nil
	}
	return m, expireToast()
}

func (m HomeModel) createTask(draft task.Draft) tea.Cmd {
	svc := m.svc
	gen := m.gen
	return func() tea.Msg {
		_, err := svc.Create(context.Background(), draft)
		return msgs.MutationDoneMsg{Generation: gen, Action: "Create", Name: draft.Name, Err: err}
	}
}

func (m HomeModel) toggleTask(t task.Task) tea.Cmd {
	svc := m.svc
	gen := m.gen
	return func() tea.Msg {
		_, err := svc.Toggle(context.Background(), t.ID)
		return msgs.MutationDoneMsg{Generation: gen, Action: "Update", Name: t.Name, Err: err}
	}
}

func (m HomeModel) deleteTask(t task.Task) tea.Cmd {
	svc := m.svc
	gen := m.gen
	return func() tea.Msg {
		err := svc.Delete(context.Background(), t.ID)
		return msgs.MutationDoneMsg{Generation: gen, Action: "Delete", Name: t.Name, Err: err}
	}
}

// logout clears the credential; the session's redirect hook moves the app
// to the login screen.
func (m HomeModel) logout() tea.Cmd {
	sess := m.sess
	gen := m.gen
	return func() tea.Msg {
		if err := sess.Logout(); err != nil {
			return msgs.MutationDoneMsg{Generation: gen, Action: "Logout", Err: err}
		}
		return nil
	}
}

func expireToast() tea.Cmd {
	return tea.Tick(notify.DefaultDuration, func(time.Time) tea.Msg {
		return msgs.ToastExpiredMsg{}
	})
}

func (m HomeModel) visibleTasks() []task.Task {
	return m.filter.Apply(m.svc.Store().Tasks())
}

func (m HomeModel) selected(visible []task.Task) (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(visible) {
		return task.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *HomeModel) clampCursor() {
	n := len(m.visibleTasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View implements tea.Model.
func (m HomeModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	title := styles.TitleStyle.Render("Todo App")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.renderGreeting()))
	b.WriteString("\n")
	b.WriteString(m.renderFilter())
	b.WriteString("\n\n")

	bodyHeight := m.bodyHeight()
	var body string
	switch {
	case m.modal.IsOpen():
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.create.View())
	case m.svc.Store().Loading():
		body = m.renderLoading()
	case m.content.Value() == state.ContentAnalytics:
		body = RenderAnalytics(m.svc.Store().Tasks(), m.width)
	default:
		body = m.renderTasks(bodyHeight)
	}
	b.WriteString(fitHeight(body, bodyHeight))
	b.WriteString("\n")

	if toast, ok := m.notifier.Latest(); ok {
		b.WriteString(components.RenderToast(toast, m.width))
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	return b.String()
}

func (m HomeModel) renderGreeting() string {
	s := m.sess.Current()
	if s == nil {
		return styles.SubtleStyle.Render(" ")
	}
	name := s.Name
	if name == "" {
		name = s.Username
	}
	return styles.SubtleStyle.Render(fmt.Sprintf("Signed in as %s (@%s)", name, s.Username))
}

func (m HomeModel) renderFilter() string {
	if m.filtering {
		return m.filterInput.View()
	}
	if v := m.filter.Value(); v != "" {
		return styles.SubtleStyle.Render("/ ") + v
	}
	return styles.SubtleStyle.Render("/ Search for...")
}

func (m HomeModel) renderLoading() string {
	if m.loadErr != nil {
		return styles.ErrorStyle.Render("Could not load tasks.") + " " + styles.SubtleStyle.Render("Press r to retry.")
	}
	return m.spinner.View() + " Loading tasks…"
}

func (m HomeModel) renderTasks(height int) string {
	visible := m.visibleTasks()
	if len(visible) == 0 {
		msg := "No tasks found."
		if m.filter.Value() == "" {
			msg = "No tasks yet. Press n to create one."
		}
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, styles.SubtleStyle.Render(msg))
	}

	rows := make([][]string, len(visible))
	for i, t := range visible {
		rows[i] = components.NewTaskItem(t, i == m.cursor, m.width-1).Lines()
	}
	m.list.SetSize(m.width, height)
	m.list.SetRows(rows)
	m.list.ShowRow(m.cursor)
	return m.list.View()
}

func (m HomeModel) renderStatusBar() string {
	var hints []components.Hint
	switch {
	case m.modal.IsOpen():
		hints = nil
	case m.filtering:
		hints = []components.Hint{{Key: "Enter", Desc: "Apply"}, {Key: "Esc", Desc: "Clear"}}
	case m.content.Value() == state.ContentAnalytics:
		hints = []components.Hint{{Key: "tab", Desc: "Tasks"}, {Key: "L", Desc: "Logout"}, {Key: "q", Desc: "Quit"}}
	default:
		hints = []components.Hint{
			{Key: "/", Desc: "Filter"},
			{Key: "n", Desc: "New"},
			{Key: "space", Desc: "Done"},
			{Key: "d", Desc: "Delete"},
			{Key: "tab", Desc: "Analytics"},
			{Key: "L", Desc: "Logout"},
			{Key: "q", Desc: "Quit"},
		}
	}

	bar := components.NewStatusBar()
	tasks := m.svc.Store().Tasks()
	if len(tasks) > 0 {
		done := 0
		for _, t := range tasks {
			if t.Done {
				done++
			}
		}
		bar = bar.WithRight(components.NewProgress(done, len(tasks), 10).View())
	}
	return bar.RenderHints(m.width, hints)
}

// bodyHeight is what's left after header (title, greeting, filter, gap) and
// footer (toast, status bar).
func (m HomeModel) bodyHeight() int {
	h := m.height - 7
	if h < 1 {
		return 1
	}
	return h
}

// fitHeight pads or cuts s to exactly height lines.
func fitHeight(s string, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// SetSize updates the model dimensions.
func (m *HomeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.filterInput.Width = width - 4
	m.create.SetWidth(width)
	m.list.SetSize(width, m.bodyHeight())
}

// Cursor returns the index of the selected row among the visible tasks.
func (m HomeModel) Cursor() int {
	return m.cursor
}

// Filtering reports whether the filter input has focus.
func (m HomeModel) Filtering() bool {
	return m.filtering
}

// Create returns the create dialog model.
func (m HomeModel) Create() CreateModel {
	return m.create
}
