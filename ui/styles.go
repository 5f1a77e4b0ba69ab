package ui

import "github.com/charmbracelet/lipgloss"

var (
	green  = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	yellow = lipgloss.AdaptiveColor{Light: "#C6A700", Dark: "#ECFD65"}
	red    = lipgloss.AdaptiveColor{Light: "#D7005F", Dark: "#FF5F87"}
	gray   = lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"}
	purple = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(purple).
			Padding(0, 1)

	subtleStyle = lipgloss.NewStyle().Foreground(gray)

	bannerStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true)

	successStyle = bannerStyle.Foreground(green)
	warningStyle = bannerStyle.Foreground(yellow)
	errorStyle   = bannerStyle.Foreground(red)

	helpStyle = subtleStyle.PaddingLeft(1)
)
