// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Lulzlulz/med-ai/internal/commands"
	"github.com/Lulzlulz/med-ai/internal/input"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := msg.Height - headerHeight - footerHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.input.Width = msg.Width - 4
		m.refreshViewport(true)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			m.status = ""
			m.errText = ""
			return m, nil
		case tea.KeyEnter:
			return m.submit()
		}

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case TurnCompleteMsg:
		m.busy = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
		}
		// The controller already owns the authoritative history; the
		// viewport re-renders from it on both success and failure.
		m.refreshViewport(true)
		return m, nil

	// -- Command results ------------------------------------------------

	case commands.StatusMsg:
		m.status = msg.Text
		return m, nil

	case commands.ErrorMsg:
		m.errText = msg.Err.Error()
		return m, nil

	case commands.ConversationResetMsg:
		m.status = "Chat history cleared"
		m.errText = ""
		m.refreshViewport(true)
		return m, nil

	case commands.ExportedMsg:
		m.status = "Exported to " + msg.Path
		return m, nil

	case commands.ModelSwitchedMsg:
		m.status = "Model switched to " + msg.Model
		return m, nil

	case commands.SpeakToggledMsg:
		if msg.On {
			m.status = "Voice replies on"
		} else {
			m.status = "Voice replies off"
		}
		return m, nil

	case commands.DocumentLoadedMsg:
		// Document text becomes a regular turn.
		return m.startTurn(msg.Prompt)

	case commands.HelpMsg:
		m.status = ""
		m.errText = ""
		m.viewport.SetContent(m.theme.Help.Render(msg.Text))
		m.viewport.GotoTop()
		return m, nil

	case commands.QuitMsg:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// =============================================================================
// SUBMISSION
// =============================================================================

// submit handles the Enter key: slash commands dispatch to their handler,
// anything else becomes a completion turn.
func (m Model) submit() (tea.Model, tea.Cmd) {
	raw := m.input.Value()

	if result := m.parser.Parse(raw); result.IsCommand {
		m.input.SetValue("")
		m.status = ""
		m.errText = ""
		if result.Command == nil {
			m.errText = "Unknown command: " + result.CommandName + " (try /help)"
			return m, nil
		}
		return m, result.Command.Handler(m.cmdCtx, result.Args)
	}

	normalized, err := input.Typed(raw)
	if err != nil {
		if errors.Is(err, input.ErrEmpty) {
			m.status = "Please enter or speak something first!"
			return m, nil
		}
		m.errText = err.Error()
		return m, nil
	}

	m.input.SetValue("")
	return m.startTurn(normalized)
}

// startTurn launches one completion turn if none is in flight.
func (m Model) startTurn(normalized string) (tea.Model, tea.Cmd) {
	if m.busy {
		m.status = "Still thinking, hold on"
		return m, nil
	}
	m.busy = true
	m.status = ""
	m.errText = ""

	// Render the pending user message immediately. The controller appends
	// it again authoritatively; the next refresh replaces this preview.
	m.appendPreview(normalized)

	return m, tea.Batch(
		SubmitTurnCmd(m.session, normalized),
		m.spinner.Tick,
	)
}

// appendPreview shows the submitted text in the viewport before the turn
// result arrives.
func (m *Model) appendPreview(content string) {
	var sb strings.Builder
	sb.WriteString(m.renderHistory())
	sb.WriteString(m.theme.UserLabel.Render("You") + "\n")
	sb.WriteString(content + "\n\n")
	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}
