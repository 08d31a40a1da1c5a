package views

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pablasso/todo/internal/api"
	"github.com/pablasso/todo/internal/notify"
	"github.com/pablasso/todo/internal/service"
	"github.com/pablasso/todo/internal/session"
	"github.com/pablasso/todo/internal/state"
	"github.com/pablasso/todo/internal/store"
	"github.com/pablasso/todo/internal/task"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// fakeBackend serves the task API from memory.
type fakeBackend struct {
	tasks    []task.Task
	session  *session.Session
	err      error
	created  task.Task
	username string
	password string
	token    string
	regErr   error
	reg      api.Registration
}

func (f *fakeBackend) ListTasks(ctx context.Context) ([]task.Task, error) {
	return f.tasks, f.err
}

func (f *fakeBackend) CreateTask(ctx context.Context, draft task.Draft) (task.Task, error) {
	return f.created, f.err
}

func (f *fakeBackend) UpdateTask(ctx context.Context, id string, patch task.Patch) (task.Task, error) {
	return task.Task{}, f.err
}

func (f *fakeBackend) DeleteTask(ctx context.Context, id string) error {
	return f.err
}

func (f *fakeBackend) Load(ctx context.Context) (api.Snapshot, error) {
	if f.err != nil {
		return api.Snapshot{}, f.err
	}
	return api.Snapshot{Tasks: f.tasks, Session: f.session}, nil
}

func (f *fakeBackend) Login(ctx context.Context, username, password string) (string, error) {
	f.username, f.password = username, password
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

func (f *fakeBackend) Register(ctx context.Context, r api.Registration) error {
	f.reg = r
	return f.regErr
}

type homeFixture struct {
	backend    *fakeBackend
	store      *store.Store
	deps       HomeDeps
	storage    *session.Storage
	redirected int
}

func newHomeFixture(t *testing.T, tasks ...task.Task) *homeFixture {
	t.Helper()

	f := &homeFixture{
		backend: &fakeBackend{tasks: tasks, session: &session.Session{Name: "Ada", Username: "ada"}},
		store:   store.New(),
		storage: session.NewStorage(filepath.Join(t.TempDir(), "credential.json")),
	}
	if err := f.storage.Save(session.Credential{Token: "secret", Username: "ada"}); err != nil {
		t.Fatalf("failed to save credential: %v", err)
	}
	f.deps = HomeDeps{
		Service:  service.New(f.store, f.backend),
		Loader:   f.backend,
		Session:  session.NewState(f.storage, func() { f.redirected++ }),
		Filter:   state.NewFilter(),
		Modal:    state.NewModal(),
		Content:  state.NewContentType(),
		Notifier: notify.New(),
	}
	return f
}

// loadedHome returns a sized home model whose store holds the backend's tasks.
func (f *homeFixture) loadedHome(t *testing.T) HomeModel {
	t.Helper()
	m := NewHomeModel(f.deps)
	m.SetSize(100, 30)
	msg := m.load()()
	m, _ = m.Update(msg)
	return m
}
