// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/Lulzlulz/med-ai/internal/model"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Starting medai..."
	}

	var sb strings.Builder
	sb.WriteString(m.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(m.renderStatusLine())
	sb.WriteString("\n")
	sb.WriteString(m.input.View())
	return sb.String()
}

// =============================================================================
// SECTIONS
// =============================================================================

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("medai")
	modelName := m.theme.Status.Render(" " + m.session.Model())
	return m.theme.Header.Render(title + modelName)
}

// renderStatusLine shows, in priority order: an error, the thinking
// spinner, a transient status, or the help hint.
func (m Model) renderStatusLine() string {
	switch {
	case m.errText != "":
		return m.theme.Error.Render("Error: " + m.errText)
	case m.busy:
		return m.spinner.View() + m.theme.Status.Render(" thinking...")
	case m.status != "":
		return m.theme.Status.Render(m.status)
	default:
		return m.theme.Help.Render("Enter to send, /help for commands, Ctrl+C to quit")
	}
}

// =============================================================================
// HISTORY RENDERING
// =============================================================================

// refreshViewport re-renders the conversation from the controller's
// authoritative history.
func (m *Model) refreshViewport(gotoBottom bool) {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderHistory())
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}

// renderHistory formats every message with a role label. Assistant
// content is rendered as markdown when a renderer is available.
func (m *Model) renderHistory() string {
	var sb strings.Builder
	for _, msg := range m.session.Messages() {
		switch msg.Role {
		case model.RoleUser:
			sb.WriteString(m.theme.UserLabel.Render(msg.Role.DisplayName()) + "\n")
			sb.WriteString(msg.Content + "\n\n")
		case model.RoleAssistant:
			sb.WriteString(m.theme.AssistantLabel.Render(msg.Role.DisplayName()) + "\n")
			sb.WriteString(m.renderMarkdown(msg.Content) + "\n")
		}
	}
	return sb.String()
}

// renderMarkdown renders assistant markdown for terminal display.
// Returns the original content if rendering fails or the renderer is
// unavailable.
func (m *Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content + "\n"
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return rendered
}
