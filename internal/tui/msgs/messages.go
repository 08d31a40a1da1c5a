// Package msgs defines shared message types for TUI view transitions.
package msgs

import "github.com/pablasso/todo/internal/session"

// View transition messages

// GoToLoginMsg signals transition to the login view. Username prefills the form.
type GoToLoginMsg struct {
	Username string
}

// GoToRegisterMsg signals transition to the registration view.
type GoToRegisterMsg struct{}

// LoggedInMsg is sent when the server accepted the user's credentials.
type LoggedInMsg struct {
	Username string
	Token    string
}

// RegisteredMsg is sent when account creation succeeded.
type RegisteredMsg struct {
	Username string
}

// Home messages carry the Generation of the home screen that started the
// work. Each login starts a new generation; results from an earlier one are
// dropped.

// HomeLoadedMsg carries the result of the initial task and session fetch.
type HomeLoadedMsg struct {
	Generation uint64
	Session    *session.Session
	Err        error
}

// TasksChangedMsg is sent whenever the task store changes so the screen redraws.
type TasksChangedMsg struct {
	Generation uint64
}

// MutationDoneMsg reports the outcome of an optimistic task operation.
type MutationDoneMsg struct {
	Generation uint64
	Action     string // "Create", "Update" or "Delete"
	Name       string
	Err        error
}

// ToastExpiredMsg asks the view to drop a toast that has timed out.
type ToastExpiredMsg struct{}
