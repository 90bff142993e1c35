// Package cli renders pulse output for the terminal and reads interactive input.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the accent used for titles, prompts and bars.
	PrimaryColor = lipgloss.Color("#7C3AED")
	SuccessColor = lipgloss.Color("#4ECDC4")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF6B6B")
	InfoColor    = lipgloss.Color("#95E1D3")
	SubtleColor  = lipgloss.Color("#666666")
	borderColor  = lipgloss.Color("#333")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			MarginBottom(1)

	SubtleStyle = lipgloss.NewStyle().Foreground(SubtleColor)

	// BoxStyle frames a single metric or a whole section.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(1, 2)

	// BarStyle colors observed values in bar charts; ForecastBarStyle colors
	// predicted ones so the two read apart at a glance.
	BarStyle         = lipgloss.NewStyle().Foreground(PrimaryColor)
	ForecastBarStyle = lipgloss.NewStyle().Foreground(InfoColor)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(PrimaryColor).
				PaddingRight(2)

	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)

	MetricValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(SuccessColor)

	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)
	successStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	warningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	errorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	infoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	PulseIcon   = "⚡"
	ChartIcon   = "📊"
	TrendIcon   = "📈"
)

// FormatSuccess formats a confirmation line, e.g. after a row was appended.
func FormatSuccess(message string) string {
	return successStyle.Render(SuccessIcon + " " + message)
}

func FormatError(message string) string {
	return errorStyle.Render(ErrorIcon + " " + message)
}

func FormatWarning(message string) string {
	return warningStyle.Render(WarningIcon + " " + message)
}

func FormatInfo(message string) string {
	return infoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle prefixes title with the pulse icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(PulseIcon + " " + title)
}

// FormatPrompt formats a form field label.
func FormatPrompt(prompt string) string {
	return promptStyle.Render(prompt + " → ")
}

// RenderBox draws content under title inside a rounded border.
func RenderBox(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.UnsetMargins().Render(title),
		content,
	))
}
