// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Lulzlulz/med-ai/internal/commands"
	"github.com/Lulzlulz/med-ai/internal/config"
	"github.com/Lulzlulz/med-ai/internal/session"
	"github.com/Lulzlulz/med-ai/internal/ui/styles"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// headerHeight is the number of lines reserved above the viewport.
	headerHeight = 2

	// footerHeight covers the status line and the input prompt.
	footerHeight = 3

	// inputCharLimit bounds a single typed message.
	inputCharLimit = 8192
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	session  *session.Controller
	registry *commands.Registry
	parser   *commands.Parser
	cmdCtx   *commands.Context

	theme *styles.Theme

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// renderer renders assistant markdown. Nil falls back to plain text.
	renderer *glamour.TermRenderer

	width  int
	height int
	ready  bool

	// busy is true while a completion turn is in flight. Turns are
	// strictly serialized; input submission is refused until the turn
	// completes.
	busy bool

	status  string
	errText string
}

// Options configures a chat Model.
type Options struct {
	Session   *session.Controller
	Registry  *commands.Registry
	Config    *config.Config
	ExportDir string
}

// New creates a chat model wired to the given session controller.
func New(opts Options) Model {
	theme := styles.NewTheme(opts.Config.UI.Theme)

	ti := textinput.New()
	ti.Placeholder = "Type a message or /help"
	ti.Prompt = theme.InputPrompt.Render("> ")
	ti.CharLimit = inputCharLimit
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle()

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		renderer = nil
	}

	registry := opts.Registry
	if registry == nil {
		registry = commands.NewRegistry()
	}

	m := Model{
		session:  opts.Session,
		registry: registry,
		parser:   commands.NewParser(registry),
		cmdCtx: &commands.Context{
			Session:   opts.Session,
			Config:    opts.Config,
			ExportDir: opts.ExportDir,
		},
		theme:    theme,
		input:    ti,
		spinner:  sp,
		renderer: renderer,
	}

	if !opts.Session.Configured() {
		m.errText = "GROQ_API_KEY is not set; replies will fail until it is configured"
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}
