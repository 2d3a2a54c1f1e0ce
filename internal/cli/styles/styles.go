// Package styles holds the lipgloss styles shared by the CLI commands.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"todoscan/internal/models"
)

var (
	// Text styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230"))

	PathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	// Status styles
	DoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	OverdueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	priorityLow = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	priorityMedium = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	priorityHigh = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203"))
)

// Priority renders a priority label in its color.
func Priority(p models.Priority) string {
	switch p {
	case models.PriorityLow:
		return priorityLow.Render(p.String())
	case models.PriorityHigh:
		return priorityHigh.Render(p.String())
	default:
		return priorityMedium.Render(p.String())
	}
}
