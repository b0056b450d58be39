package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	frontStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255"))

	backStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	newTag = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	reviewTag = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	rememberedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	forgottenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))
)
