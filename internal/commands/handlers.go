// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Lulzlulz/med-ai/internal/export"
	"github.com/Lulzlulz/med-ai/internal/groq"
	"github.com/Lulzlulz/med-ai/internal/input"
)

// =============================================================================
// RESULT MESSAGES
// =============================================================================

// StatusMsg carries a transient status line for the UI.
type StatusMsg struct {
	Text string
}

// ErrorMsg carries a non-fatal error notice for the UI.
type ErrorMsg struct {
	Err error
}

// ConversationResetMsg signals that the history was cleared and reseeded.
type ConversationResetMsg struct{}

// ExportedMsg reports a completed export.
type ExportedMsg struct {
	Path string
}

// ModelSwitchedMsg confirms a model switch.
type ModelSwitchedMsg struct {
	Model string
}

// SpeakToggledMsg confirms the voice replies toggle.
type SpeakToggledMsg struct {
	On bool
}

// DocumentLoadedMsg delivers normalized document text ready to submit as
// a user turn.
type DocumentLoadedMsg struct {
	Prompt string
}

// HelpMsg carries the rendered help text.
type HelpMsg struct {
	Text string
}

// QuitMsg requests application exit.
type QuitMsg struct{}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show available commands",
		Usage:       "/help",
		Handler: func(ctx *Context, args []string) tea.Cmd {
			return func() tea.Msg { return HelpMsg{Text: r.HelpText()} }
		},
	})

	r.Register(&Command{
		Name:        "/model",
		Aliases:     []string{"/m"},
		Description: "Show or switch the completion model",
		Usage:       "/model [" + strings.Join(groq.SupportedModels, "|") + "]",
		Handler:     handleModel,
	})

	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/reset"},
		Description: "Clear the chat history (irreversible)",
		Usage:       "/clear",
		Handler:     handleClear,
	})

	r.Register(&Command{
		Name:        "/export",
		Aliases:     []string{"/save"},
		Description: "Export the chat to a file",
		Usage:       "/export [text|markdown|json]",
		Handler:     handleExport,
	})

	r.Register(&Command{
		Name:        "/speak",
		Description: "Toggle voice replies",
		Usage:       "/speak [on|off]",
		Handler:     handleSpeak,
	})

	r.Register(&Command{
		Name:        "/load",
		Aliases:     []string{"/upload"},
		Description: "Summarize a plain-text file",
		Usage:       "/load <file.txt>",
		Handler:     handleLoad,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit medai",
		Usage:       "/quit",
		Handler: func(ctx *Context, args []string) tea.Cmd {
			return func() tea.Msg { return QuitMsg{} }
		},
	})
}

// =============================================================================
// HANDLERS
// =============================================================================

// HelpText renders the visible commands as an aligned list.
func (r *Registry) HelpText() string {
	var sb strings.Builder
	sb.WriteString("Commands:\n")
	for _, cmd := range r.All() {
		if cmd.Hidden {
			continue
		}
		sb.WriteString("  " + cmd.Usage)
		if len(cmd.Usage) < 40 {
			sb.WriteString(strings.Repeat(" ", 40-len(cmd.Usage)))
		}
		sb.WriteString(" " + cmd.Description + "\n")
	}
	return sb.String()
}

func handleModel(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) == 0 {
			return StatusMsg{Text: "Model: " + ctx.Session.Model() +
				" (available: " + strings.Join(groq.SupportedModels, ", ") + ")"}
		}
		if err := ctx.Session.SetModel(args[0]); err != nil {
			return ErrorMsg{Err: err}
		}
		return ModelSwitchedMsg{Model: args[0]}
	}
}

func handleClear(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		if err := ctx.Session.Reset(context.Background()); err != nil {
			return ErrorMsg{Err: err}
		}
		return ConversationResetMsg{}
	}
}

func handleExport(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		format := ""
		if len(args) > 0 {
			format = args[0]
		}
		exporter, err := export.ByFormat(format)
		if err != nil {
			return ErrorMsg{Err: err}
		}

		conv := ctx.Session.Conversation()
		path, err := export.WriteToFile(conv, exporter, ctx.ExportDir)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ExportedMsg{Path: path}
	}
}

func handleSpeak(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		on := !ctx.Session.SpeakReplies()
		if len(args) > 0 {
			switch strings.ToLower(args[0]) {
			case "on":
				on = true
			case "off":
				on = false
			default:
				return StatusMsg{Text: "Usage: /speak [on|off]"}
			}
		}
		ctx.Session.SetSpeakReplies(on)
		return SpeakToggledMsg{On: on}
	}
}

func handleLoad(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) == 0 {
			return StatusMsg{Text: "Usage: /load <file.txt>"}
		}
		prompt, err := input.DocumentFile(args[0])
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return DocumentLoadedMsg{Prompt: prompt}
	}
}
