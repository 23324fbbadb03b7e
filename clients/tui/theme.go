// Package tui provides the interactive terminal client for the task API.
package tui

import "github.com/charmbracelet/lipgloss"

// Adaptive colors (light/dark terminal detection).
var (
	colorAccent  = lipgloss.AdaptiveColor{Light: "#0070F3", Dark: "#79C0FF"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#065F46", Dark: "#7EE2B8"}
	colorPending = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	colorError   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#FF6B6B"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#374151"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	pendingStyle = lipgloss.NewStyle().
			Foreground(colorPending)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	helpStyle = lipgloss.NewStyle().Faint(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)

	doneStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)

	fieldErrStyle = lipgloss.NewStyle().Foreground(colorError)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	toastSuccessStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	toastErrorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)

const (
	boxChecked   = "☑"
	boxUnchecked = "☐"
)
