// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines the Bubble Tea message types used by the chat view
// and the tea.Cmd constructors that produce them. Command result messages
// (reset, export, model switch) live in the commands package; this file
// covers the turn lifecycle only.

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Lulzlulz/med-ai/internal/session"
)

// =============================================================================
// TURN MESSAGES
// =============================================================================

// TurnCompleteMsg signals that a completion turn finished.
// On error the user message is already durable; no assistant message
// exists for the turn.
type TurnCompleteMsg struct {
	Reply string
	Err   error
}

// =============================================================================
// COMMANDS
// =============================================================================

// SubmitTurnCmd runs one completion turn. The input must already be
// normalized; the controller refuses empty input and concurrent turns.
func SubmitTurnCmd(ctrl *session.Controller, normalized string) tea.Cmd {
	return func() tea.Msg {
		reply, err := ctrl.Submit(context.Background(), normalized)
		return TurnCompleteMsg{Reply: reply, Err: err}
	}
}
