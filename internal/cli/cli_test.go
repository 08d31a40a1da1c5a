package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pablasso/todo/internal/analytics"
	"github.com/pablasso/todo/internal/api"
	"github.com/pablasso/todo/internal/exitcode"
	"github.com/pablasso/todo/internal/task"
)

const testToken = "tok"

// fakeAPI is an in-memory todo API server.
type fakeAPI struct {
	*httptest.Server

	mu           sync.Mutex
	tasks        []task.Task
	nextID       int
	revoked      bool
	failUpdates  bool
	registration *api.Registration
	registerCode int
}

func newFakeAPI(t *testing.T, tasks ...task.Task) *fakeAPI {
	t.Helper()
	f := &fakeAPI{tasks: tasks, nextID: 100, registerCode: http.StatusCreated}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth", f.login)
	mux.HandleFunc("GET /auth", f.authed(f.session))
	mux.HandleFunc("POST /users", f.register)
	mux.HandleFunc("GET /tasks", f.authed(f.list))
	mux.HandleFunc("POST /tasks", f.authed(f.create))
	mux.HandleFunc("PATCH /tasks/{id}", f.authed(f.update))
	mux.HandleFunc("DELETE /tasks/{id}", f.authed(f.delete))

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		revoked := f.revoked
		f.mu.Unlock()
		if revoked || r.Header.Get("Authorization") != "Bearer "+testToken {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		h(w, r)
	}
}

func (f *fakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var body struct{ Username, Password string }
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.Username != "ada" || body.Password != "secret" {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": testToken})
}

func (f *fakeAPI) session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"name": "Ada Lovelace", "username": "ada"})
}

func (f *fakeAPI) register(w http.ResponseWriter, r *http.Request) {
	var reg api.Registration
	_ = json.NewDecoder(r.Body).Decode(&reg)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registration = &reg
	w.WriteHeader(f.registerCode)
}

func (f *fakeAPI) list(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.tasks)
}

func (f *fakeAPI) create(w http.ResponseWriter, r *http.Request) {
	var draft task.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	now := time.Now().UTC()
	created := task.Task{
		ID:          fmt.Sprintf("srv-%d", f.nextID),
		Name:        draft.Name,
		Description: draft.Description,
		Difficulty:  draft.Difficulty,
		Priority:    draft.Priority,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}
	f.tasks = append(f.tasks, created)
	writeJSON(w, http.StatusCreated, created)
}

func (f *fakeAPI) update(w http.ResponseWriter, r *http.Request) {
	var patch task.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdates {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}
	for i, t := range f.tasks {
		if t.ID == r.PathValue("id") {
			f.tasks[i] = patch.Apply(t)
			writeJSON(w, http.StatusOK, f.tasks[i])
			return
		}
	}
	http.NotFound(w, r)
}

func (f *fakeAPI) delete(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == r.PathValue("id") {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	http.NotFound(w, r)
}

func (f *fakeAPI) snapshot() []task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return task.CloneAll(f.tasks)
}

func (f *fakeAPI) registered() *api.Registration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registration
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// cliEnv isolates the config directory and disables prompts.
type cliEnv struct {
	api       *fakeAPI
	configDir string
}

func newCLIEnv(t *testing.T, tasks ...task.Task) *cliEnv {
	t.Helper()
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	for _, key := range []string{"TODO_API_URL", "TODO_TIMEOUT", "TODO_LOG_FILE", "TODO_LOG_LEVEL", "TODO_ROLLBACK"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	prev := interactive
	interactive = func() bool { return false }
	t.Cleanup(func() { interactive = prev })

	return &cliEnv{api: newFakeAPI(t, tasks...), configDir: filepath.Join(xdg, "todo")}
}

func (e *cliEnv) run(args ...string) (stdout, stderr string, code int) {
	var out, errOut bytes.Buffer
	full := append(append([]string{}, args...), "--api-url", e.api.URL)
	code = Execute(context.Background(), full, &out, &errOut)
	return out.String(), errOut.String(), code
}

func (e *cliEnv) login(t *testing.T) {
	t.Helper()
	_, stderr, code := e.run("login", "-u", "ada", "-p", "secret")
	require.Equal(t, exitcode.Success, code, stderr)
}

func sampleTasks() []task.Task {
	return []task.Task{
		{ID: "a1", Name: "Write docs", Difficulty: task.DifficultyLow, Priority: 2},
		{ID: "b2", Name: "Fix login bug", Difficulty: task.DifficultyHigh, Priority: 1, Done: true},
	}
}

func TestLogin_StoresCredential(t *testing.T) {
	env := newCLIEnv(t)

	stdout, stderr, code := env.run("login", "-u", "ada", "-p", "secret")

	require.Equal(t, exitcode.Success, code, stderr)
	assert.Contains(t, stdout, "Logged in as ada")
	assert.FileExists(t, filepath.Join(env.configDir, "credential.json"))
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newCLIEnv(t)

	_, stderr, code := env.run("login", "-u", "ada", "-p", "nope")

	assert.Equal(t, exitcode.AuthError, code)
	assert.Contains(t, stderr, "invalid username or password")
	assert.NoFileExists(t, filepath.Join(env.configDir, "credential.json"))
}

func TestLogin_RequiresFlagsWithoutTerminal(t *testing.T) {
	env := newCLIEnv(t)

	_, stderr, code := env.run("login", "-u", "ada")

	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "--password")
}

func TestLogout_RemovesCredential(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	stdout, _, code := env.run("logout")

	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, stdout, "Logged out")
	assert.NoFileExists(t, filepath.Join(env.configDir, "credential.json"))

	_, stderr, code := env.run("list")
	assert.Equal(t, exitcode.AuthError, code)
	assert.Contains(t, stderr, "not logged in")
}

func TestWhoami(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	stdout, stderr, code := env.run("whoami")

	require.Equal(t, exitcode.Success, code, stderr)
	assert.Equal(t, "Ada Lovelace (@ada)\n", stdout)
}

func TestRegister(t *testing.T) {
	env := newCLIEnv(t)

	stdout, stderr, code := env.run("register", "--name", "Grace", "--email", "grace@example.com", "-u", "grace", "-p", "pw")

	require.Equal(t, exitcode.Success, code, stderr)
	assert.Contains(t, stdout, "Account created")
	reg := env.api.registered()
	require.NotNil(t, reg)
	assert.Equal(t, "grace@example.com", reg.Email)
}

func TestRegister_Rejected(t *testing.T) {
	env := newCLIEnv(t)
	env.api.mu.Lock()
	env.api.registerCode = http.StatusConflict
	env.api.mu.Unlock()

	_, stderr, code := env.run("register", "--name", "Grace", "--email", "grace@example.com", "-u", "grace", "-p", "pw")

	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "409")
}

func TestRegister_InvalidEmail(t *testing.T) {
	env := newCLIEnv(t)

	_, stderr, code := env.run("register", "--name", "Grace", "--email", "nope", "-u", "grace", "-p", "pw")

	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "email")
	assert.Nil(t, env.api.registered())
}

func TestList(t *testing.T) {
	env := newCLIEnv(t, sampleTasks()...)
	env.login(t)

	stdout, stderr, code := env.run("list")

	require.Equal(t, exitcode.Success, code, stderr)
	assert.Contains(t, stdout, "NAME")
	assert.Contains(t, stdout, "Write docs")
	assert.Contains(t, stdout, "[x]")
	assert.Contains(t, stdout, "P1")
}

func TestList_Empty(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	stdout, _, code := env.run("list")

	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, stdout, "No tasks yet")
}

func TestList_FilterJSON(t *testing.T) {
	env := newCLIEnv(t, sampleTasks()...)
	env.login(t)

	stdout, stderr, code := env.run("list", "--filter", "LOGIN", "--json")

	require.Equal(t, exitcode.Success, code, stderr)
	var got []task.Task
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "b2", got[0].ID)
}

func TestList_KeepsPositionsWhenFiltered(t *testing.T) {
	env := newCLIEnv(t, sampleTasks()...)
	env.login(t)

	stdout, _, code := env.run("list", "-f", "login")

	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, stdout, "2  ")
	assert.NotContains(t, stdout, "Write docs")
}

func TestList_RejectedCredentialIsDropped(t *testing.T) {
	env := newCLIEnv(t, sampleTasks()...)
	env.login(t)
	env.api.mu.Lock()
	env.api.revoked = true
	env.api.mu.Unlock()

	_, stderr, code := env.run("list")

	assert.Equal(t, exitcode.AuthError, code)
	assert.Contains(t, stderr, "session expired")
	assert.NoFileExists(t, filepath.Join(env.configDir, "credential.json"))
}

func TestAdd(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	stdout, stderr, code := env.run("add", "Ship it", "--description", "before friday", "--difficulty", "HIGH", "--priority", "3")

	require.Equal(t, exitcode.Success, code, stderr)
	assert.Contains(t, stdout, `Created "Ship it" (srv-101)`)

	tasks := env.api.snapshot()
	require.Len(t, tasks, 1)
	assert.Equal(t, "before friday", tasks[0].Description)
	assert.Equal(t, task.DifficultyHigh, tasks[0].Difficulty)
	assert.Equal(t, 3, tasks[0].Priority)
}

func TestAdd_HelpDescribesPriorityScale(t *testing.T) {
	env := newCLIEnv(t)

	stdout, stderr, code := env.run("add", "--help")

	require.Equal(t, exitcode.Success, code, stderr)
	assert.Contains(t, stdout, "1 (lowest) to 5 (highest)")
}

func TestAdd_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing name", []string{"add"}, "task name required"},
		{"bad priority", []string{"add", "x", "--priority", "9"}, "priority"},
		{"bad difficulty", []string{"add", "x", "--difficulty", "extreme"}, "difficulty"},
		{"blank name", []string{"add", "   "}, "name: is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv(t)
			env.login(t)

			_, stderr, code := env.run(tt.args...)

			assert.Equal(t, exitcode.UserError, code)
			assert.Contains(t, stderr, tt.want)
			assert.Empty(t, env.api.snapshot())
		})
	}
}

func TestDone_ByPositionAndID(t *testing.T) {
	env := newCLIEnv(t, sampleTasks()...)
	env.login(t)

	stdout, stderr, code := env.run("done", "1")
	require.Equal(t, exitcode.Success, code, stderr)
	assert.Contains(t, stdout, `Marked "Write docs" as done`)

	_, stderr, code = env.run("undone", "b2")
	require.Equal(t, exitcode.Success, code, stderr)

	tasks := env.api.snapshot()
	assert.True(t, tasks[0].Done)
	assert.False(t, tasks[1].Done)
}

func TestDone_UnknownTask(t *testing.T) {
	env := newCLIEnv(t, sampleTasks()...)
	env.login(t)

	_, stderr, code := env.run("done", "7")

	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "not found")
}

func TestDone_ServerFailure(t *testing.T) {
	env := newCLIEnv(t, sampleTasks()...)
	env.login(t)
	env.api.mu.Lock()
	env.api.failUpdates = true
	env.api.mu.Unlock()

	_, _, code := env.run("done", "a1")

	assert.Equal(t, exitcode.BackendError, code)
	assert.False(t, env.api.snapshot()[0].Done)
}

func TestRemove(t *testing.T) {
	env := newCLIEnv(t, sampleTasks()...)
	env.login(t)

	stdout, stderr, code := env.run("rm", "b2")

	require.Equal(t, exitcode.Success, code, stderr)
	assert.Contains(t, stdout, `Deleted "Fix login bug"`)
	tasks := env.api.snapshot()
	require.Len(t, tasks, 1)
	assert.Equal(t, "a1", tasks[0].ID)
}

func TestStats_JSON(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)
	tasks := append(sampleTasks(), task.Task{
		ID: "c3", Name: "Deploy", Done: true, Priority: 2, CreatedAt: &start, UpdatedAt: &end,
	})
	env := newCLIEnv(t, tasks...)
	env.login(t)

	stdout, stderr, code := env.run("stats", "--json")

	require.Equal(t, exitcode.Success, code, stderr)
	var got analytics.Summary
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 2, got.Done)
	assert.Equal(t, 3, got.HoursSpent)
	assert.Equal(t, []analytics.Bucket{{Label: "2024-05-01", Count: 1}}, got.Completed)
}

func TestStats_Text(t *testing.T) {
	env := newCLIEnv(t, sampleTasks()...)
	env.login(t)

	stdout, stderr, code := env.run("stats")

	require.Equal(t, exitcode.Success, code, stderr)
	assert.Contains(t, stdout, "Tasks: 2 (1 done)")
	assert.Contains(t, stdout, "Difficulty histogram")
	assert.Contains(t, stdout, "Total time spent: 0 hours")
}

func TestStats_InvalidSince(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	_, stderr, code := env.run("stats", "--since", "zzzz")

	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "--since")
}

func TestParseSince_Date(t *testing.T) {
	got, err := parseSince("2024-05-01", time.Now())

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestParseSince_Phrases(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"last week", time.Date(2024, 5, 8, 12, 0, 0, 0, time.UTC)},
		{"Last  Month", time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC)},
		{"last year", time.Date(2023, 5, 15, 12, 0, 0, 0, time.UTC)},
		{"yesterday", time.Date(2024, 5, 14, 12, 0, 0, 0, time.UTC)},
		{"3 days ago", time.Date(2024, 5, 12, 12, 0, 0, 0, time.UTC)},
		{"2 weeks ago", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		{"2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSince(tt.in, now)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSince_RejectsGibberish(t *testing.T) {
	_, err := parseSince("the color blue", time.Now())

	assert.Error(t, err)
}

func TestUpdatedSince(t *testing.T) {
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		{ID: "old", UpdatedAt: &old},
		{ID: "recent", UpdatedAt: &recent},
		{ID: "created", CreatedAt: &recent},
		{ID: "none"},
	}

	assert.Len(t, updatedSince(tasks, time.Time{}), 4)

	got := updatedSince(tasks, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, got, 2)
	assert.Equal(t, "recent", got[0].ID)
	assert.Equal(t, "created", got[1].ID)
}

func TestVersion(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, code := env.run("version")

	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, stdout, "todo dev")
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAge(time.Now().Add(-tt.ago)))
	}
}
