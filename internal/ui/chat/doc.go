// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat view for the medai TUI.

The chat package implements the terminal conversation interface using the
Bubble Tea framework. It renders the durable conversation history, accepts
typed input and slash commands, and drives one completion turn at a time
through the session controller.

# Key Components

## Model (model.go)

The Model struct is the central Bubble Tea model:
  - Conversation rendering via a scrollable viewport
  - Single-line input with command parsing
  - Spinner while a completion turn is in flight
  - Markdown rendering of assistant replies

## Update Loop (update.go)

Handles all Bubble Tea messages:
  - Keyboard input and submission
  - Turn completion and turn errors
  - Command result messages (reset, export, model switch, speak toggle)
  - Window resize handling

## View Rendering (view.go)

Rendering logic for the interface: header with model name, the message
log with role-specific labels, a transient status line, and the input
prompt.

# Usage

	m := chat.New(chat.Options{
		Session:  ctrl,
		Registry: registry,
		Config:   cfg,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
*/
package chat
