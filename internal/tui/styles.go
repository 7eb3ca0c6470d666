package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains lipgloss styles for the TUI
type Styles struct {
	Title       lipgloss.Style
	Muted       lipgloss.Style
	Error       lipgloss.Style
	Highlighted lipgloss.Style
	Help        lipgloss.Style
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("137")), // Bronze
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")), // Red
		Highlighted: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("137")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
	}
}
