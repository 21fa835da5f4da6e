// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the medai TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// Header
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style

	// Message labels
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style

	// Status and errors
	Status lipgloss.Style
	Error  lipgloss.Style
	Warn   lipgloss.Style

	// Input area
	InputPrompt lipgloss.Style

	// Help
	Help lipgloss.Style
}

// Palette colors (dark theme defaults).
var (
	colorAccent  = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	colorUser    = lipgloss.AdaptiveColor{Light: "#007D9C", Dark: "#00ADD8"}
	colorReply   = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"}
	colorError   = lipgloss.AdaptiveColor{Light: "#B00020", Dark: "#FF6B6B"}
	colorWarn    = lipgloss.AdaptiveColor{Light: "#8A6D00", Dark: "#FFD166"}
	colorSubtle  = lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#9A9A9A"}
)

// NewTheme builds a theme for the given mode ("dark" or "light").
func NewTheme(mode string) *Theme {
	isDark := mode != "light"

	return &Theme{
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),

		Header: lipgloss.NewStyle().
			Padding(0, 1),
		HeaderTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent),

		UserLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorUser),
		AssistantLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorReply),

		Status: lipgloss.NewStyle().
			Foreground(colorSubtle),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError),
		Warn: lipgloss.NewStyle().
			Foreground(colorWarn),

		InputPrompt: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent),

		Help: lipgloss.NewStyle().
			Foreground(colorSubtle),
	}
}
