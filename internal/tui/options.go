package tui

import (
	"log/slog"

	"github.com/pablasso/todo/internal/api"
	"github.com/pablasso/todo/internal/session"
	"github.com/pablasso/todo/internal/store"
)

// Options configures TUI startup behavior.
type Options struct {
	// Client is the unauthenticated API client; the stored credential is
	// attached on startup and after login.
	Client *api.Client

	// Storage holds the credential between runs.
	Storage *session.Storage

	// Rollback selects how failed optimistic updates are undone.
	Rollback store.RollbackPolicy

	Logger *slog.Logger
}
