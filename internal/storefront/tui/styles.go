package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/coldblooded-heartbeats/storefront/internal/storefront/wizard"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7FD17F"))

	indicatorStyles = map[string]lipgloss.Style{
		wizard.IndicatorActive:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1A1A1A")).Background(lipgloss.Color("#7FD17F")).Padding(0, 1),
		wizard.IndicatorCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("#7FD17F")).Padding(0, 1),
		wizard.IndicatorPending:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C")).Padding(0, 1),
	}

	promptStyle   = lipgloss.NewStyle().Italic(true)
	buttonStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	disabledStyle = buttonStyle.Foreground(lipgloss.Color("#6C6C6C"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1, 2)
)
