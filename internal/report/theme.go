// Package report holds the output formatters: the default run listing
// with source excerpts, diff-style, terse, percentage table, JSON,
// Markdown (rendered in-process via glamour), and GitHub Actions
// annotations. Grounded in the teacher's output.go.
package report

import "github.com/charmbracelet/lipgloss"

// Theme mirrors the teacher's Theme/DefaultTheme shape.
type Theme struct {
	Score    lipgloss.Style
	Hash     lipgloss.Style
	Location lipgloss.Style
	LineNum  lipgloss.Style
	Summary  lipgloss.Style
	Dim      lipgloss.Style
}

// DefaultTheme is used unless the caller overrides it.
var DefaultTheme = Theme{
	Score:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
	Hash:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Location: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	LineNum:  lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
	Summary:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82")),
	Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}
