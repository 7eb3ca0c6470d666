package ux

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Styles contains the lipgloss styles used for text output.
type Styles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Price   lipgloss.Style
	Strike  lipgloss.Style
	Badge   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Header  lipgloss.Style
	Cell    lipgloss.Style
	Border  lipgloss.Style
}

// NewStyles returns DefaultStyles, or PlainStyles when noColor is set.
func NewStyles(noColor bool) Styles {
	if noColor {
		return PlainStyles()
	}
	return DefaultStyles()
}

// DefaultStyles returns the colored styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("137")), // Bronze
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Price: lipgloss.NewStyle().
			Bold(true),
		Strike: lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(lipgloss.Color("241")),
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("137")).
			Padding(0, 1),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")), // Green
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")), // Amber
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		Header: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1),
		Cell: lipgloss.NewStyle().
			Padding(0, 1),
		Border: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}

// PlainStyles renders without color or text attributes.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	padded := lipgloss.NewStyle().Padding(0, 1)
	return Styles{
		Title:   plain,
		Muted:   plain,
		Price:   plain,
		Strike:  plain,
		Badge:   plain,
		Success: plain,
		Warning: plain,
		Error:   plain,
		Header:  padded,
		Cell:    padded,
		Border:  plain,
	}
}

// Table renders rows under headers with the styles' borders.
func (s Styles) Table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header
			}
			return s.Cell
		}).
		String()
}
