// Package styles defines shared lipgloss styles for the TUI.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor   = lipgloss.Color("#5FAFAF") // Teal accent
	secondaryColor = lipgloss.Color("#666666") // Gray for secondary text
	successColor   = lipgloss.Color("#87AF87") // Muted sage for success
	errorColor     = lipgloss.Color("#AF5F5F") // Muted terracotta for errors
	warningColor   = lipgloss.Color("#D7AF5F") // Muted amber
	infoColor      = lipgloss.Color("#5F87AF") // Muted steel blue

	// TitleStyle for headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// SectionStyle for headings inside a screen (chart titles, form groups)
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondaryColor)

	// SubtleStyle for hints/help text
	SubtleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	// SelectedStyle for the row under the cursor and the focused field
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// DoneStyle for completed tasks
	DoneStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Strikethrough(true)

	// PendingStyle for tasks the server hasn't confirmed yet
	PendingStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Italic(true)

	// StatusBarStyle for bottom status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	// BoxStyle for panel borders
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(secondaryColor).
			Padding(1, 2)

	// ModalStyle frames the create-task dialog
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	// ChipStyle is the base for difficulty and priority tags
	ChipStyle = lipgloss.NewStyle().
			Padding(0, 1)

	// SuccessStyle for success messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// WarningStyle for warnings
	WarningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	// InfoStyle for informational messages
	InfoStyle = lipgloss.NewStyle().
			Foreground(infoColor)
)

// DifficultyColor returns the chip color for a difficulty name.
func DifficultyColor(difficulty string) lipgloss.Color {
	switch difficulty {
	case "high":
		return errorColor
	case "medium":
		return warningColor
	default:
		return successColor
	}
}

// PriorityColor returns the chip color for a priority; higher is louder.
func PriorityColor(priority int) lipgloss.Color {
	switch {
	case priority >= 5:
		return errorColor
	case priority >= 3:
		return warningColor
	default:
		return infoColor
	}
}
