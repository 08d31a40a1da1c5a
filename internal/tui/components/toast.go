package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/todo/internal/notify"
	"github.com/pablasso/todo/internal/tui/styles"
)

var toastIcons = map[notify.Level]string{
	notify.LevelSuccess: "✓",
	notify.LevelError:   "✗",
	notify.LevelInfo:    "i",
	notify.LevelWarning: "!",
}

// RenderToast renders a one-line notification: icon, message and, when it
// fits, the description.
func RenderToast(t notify.Toast, width int) string {
	style := styles.InfoStyle
	switch t.Level {
	case notify.LevelSuccess:
		style = styles.SuccessStyle
	case notify.LevelError:
		style = styles.ErrorStyle
	case notify.LevelWarning:
		style = styles.WarningStyle
	}

	line := style.Render(toastIcons[t.Level] + " " + t.Message)
	if t.Description != "" {
		rest := width - lipgloss.Width(line) - 2
		if rest > 3 {
			line += "  " + styles.SubtleStyle.Render(truncate(t.Description, rest))
		}
	}
	return line
}
