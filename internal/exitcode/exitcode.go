// Package exitcode defines the process exit codes of the todo CLI.
package exitcode

import (
	"errors"

	"github.com/pablasso/todo/internal/api"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates bad arguments, invalid input or an unknown task.
	UserError = 1

	// AuthError indicates a missing or rejected credential.
	AuthError = 2

	// BackendError indicates a network or server failure.
	BackendError = 3
)

// Error carries the exit code a command wants the process to end with.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// User wraps err as a user error.
func User(err error) error {
	return &Error{Code: UserError, Err: err}
}

// Auth wraps err as an auth error.
func Auth(err error) error {
	return &Error{Code: AuthError, Err: err}
}

// For returns the exit code for err. Explicit *Error values win; otherwise API
// errors are mapped by category and anything else is a user error.
func For(err error) int {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	switch api.Classify(err) {
	case api.CategoryUnauthorized:
		return AuthError
	case api.CategoryNetwork, api.CategoryServer:
		return BackendError
	default:
		return UserError
	}
}
