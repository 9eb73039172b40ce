// ============================================================================
// schedclients - Fleet Scheduler Client Library
// ============================================================================
//
// Package:     dashboard
// Description: Styles for the live fleet dashboard
// Created:     2026-03-10
// License:     MIT
// ============================================================================

package dashboard

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/msto63/schedclients/pkg/subscription"
)

// Color palette
var (
	ColorPrimary = lipgloss.Color("#06B6D4") // Cyan
	ColorSuccess = lipgloss.Color("#10B981") // Emerald
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
	ColorDimmed  = lipgloss.Color("#374151") // Dark Gray

	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextMuted = lipgloss.Color("#94A3B8") // Slate 400
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimmed).
			Padding(0, 1)

	LogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

var (
	streamingStyle   = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	subscribingStyle = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	cancelledStyle   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	idleStyle        = lipgloss.NewStyle().Foreground(ColorMuted)
)

// Status icons
const (
	IconStreaming   = "●"
	IconSubscribing = "◐"
	IconCancelled   = "✗"
	IconIdle        = "○"
)

// renderState renders a subscription state with its icon
func renderState(s subscription.State) string {
	switch s {
	case subscription.StateStreaming:
		return streamingStyle.Render(IconStreaming + " " + s.String())
	case subscription.StateSubscribing:
		return subscribingStyle.Render(IconSubscribing + " " + s.String())
	case subscription.StateCancelled:
		return cancelledStyle.Render(IconCancelled + " " + s.String())
	default:
		return idleStyle.Render(IconIdle + " " + s.String())
	}
}

// RenderKeyHint renders a keyboard shortcut hint
func RenderKeyHint(key, description string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(description)
}
