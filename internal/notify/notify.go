// Package notify keeps the transient toast messages shown after user actions.
package notify

import (
	"errors"
	"sync"
	"time"

	"github.com/pablasso/todo/internal/api"
	"github.com/pablasso/todo/internal/task"
)

// Level is the kind of toast.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
	LevelInfo
	LevelWarning
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// DefaultDuration is how long a toast stays visible.
const DefaultDuration = 3 * time.Second

// MaxHistory is how many toasts the notifier keeps; older ones are dropped.
const MaxHistory = 50

// Toast is a single notification.
type Toast struct {
	Level       Level
	Message     string
	Description string
	CreatedAt   time.Time
	Duration    time.Duration
}

// Expired reports whether the toast is no longer visible at now.
func (t Toast) Expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// Notifier records toasts. It is safe for concurrent use.
type Notifier struct {
	mu     sync.Mutex
	toasts []Toast
	now    func() time.Time
}

// New creates an empty notifier.
func New() *Notifier {
	return &Notifier{now: time.Now}
}

// SetClock replaces the time source (for testing).
func (n *Notifier) SetClock(now func() time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.now = now
}

// Push records a toast and returns it.
func (n *Notifier) Push(level Level, message, description string) Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	t := Toast{
		Level:       level,
		Message:     message,
		Description: description,
		CreatedAt:   n.now(),
		Duration:    DefaultDuration,
	}
	n.toasts = append(n.toasts, t)
	if over := len(n.toasts) - MaxHistory; over > 0 {
		n.toasts = append(n.toasts[:0], n.toasts[over:]...)
	}
	return t
}

func (n *Notifier) Success(message, description string) Toast {
	return n.Push(LevelSuccess, message, description)
}

func (n *Notifier) Error(message, description string) Toast {
	return n.Push(LevelError, message, description)
}

func (n *Notifier) Info(message, description string) Toast {
	return n.Push(LevelInfo, message, description)
}

func (n *Notifier) Warning(message, description string) Toast {
	return n.Push(LevelWarning, message, description)
}

// Failure records an error toast describing err.
func (n *Notifier) Failure(action string, err error) Toast {
	message, description := Describe(action, err)
	return n.Push(LevelError, message, description)
}

// Latest returns the newest toast still visible at the notifier's current time.
func (n *Notifier) Latest() (Toast, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.toasts) == 0 {
		return Toast{}, false
	}
	last := n.toasts[len(n.toasts)-1]
	if last.Expired(n.now()) {
		return Toast{}, false
	}
	return last, true
}

// All returns every toast recorded so far, oldest first.
func (n *Notifier) All() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Toast, len(n.toasts))
	copy(out, n.toasts)
	return out
}

// Describe turns an error into a toast message naming its category and a
// description carrying the detail.
func Describe(action string, err error) (message, description string) {
	var verr *task.ValidationError
	if errors.As(err, &verr) {
		return action + " failed: invalid input", verr.Error()
	}

	switch api.Classify(err) {
	case api.CategoryNetwork:
		message = "Network error"
	case api.CategoryUnauthorized:
		message = "Session expired"
	case api.CategoryValidation:
		message = "Request rejected"
	case api.CategoryServer:
		message = "Server error"
	default:
		message = "Something went wrong"
	}
	message = action + " failed: " + message
	if err != nil {
		description = err.Error()
	}
	return message, description
}
