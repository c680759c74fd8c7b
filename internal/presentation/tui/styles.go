package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("63")).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	paneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	paneBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("238"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	flashStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("84")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	categoryColors = map[string]lipgloss.Style{
		"me":         lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		"context":    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		"compaction": lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"assistant":  lipgloss.NewStyle().Foreground(lipgloss.Color("117")),
		"system":     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		"summary":    lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
	}
)

func categoryStyle(category string) lipgloss.Style {
	if style, ok := categoryColors[category]; ok {
		return style
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
}
