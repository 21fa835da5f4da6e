// medai - a terminal assistant with durable chat history.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/Lulzlulz/med-ai/internal/commands"
	"github.com/Lulzlulz/med-ai/internal/config"
	"github.com/Lulzlulz/med-ai/internal/groq"
	"github.com/Lulzlulz/med-ai/internal/session"
	"github.com/Lulzlulz/med-ai/internal/speech"
	"github.com/Lulzlulz/med-ai/internal/storage"
	"github.com/Lulzlulz/med-ai/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

func main() {
	var (
		modelFlag   = flag.String("model", "", "completion model to use")
		dbFlag      = flag.String("db", "", "path to the chat history database")
		versionFlag = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("medai %s (%s)\n", Version, GitCommit)
		return
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "medai is interactive; run it from a terminal")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override config and environment.
	if *modelFlag != "" {
		cfg.Groq.Model = *modelFlag
	}
	if *dbFlag != "" {
		cfg.Storage.Path = *dbFlag
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	gateway := groq.NewClient(cfg.Groq.APIKey)

	var speaker speech.Speaker = speech.NoopSpeaker{}
	if cfg.Speech.Command != "" {
		speaker = speech.NewCommandSpeaker(cfg.Speech.Command)
	}

	ctrl, err := session.New(context.Background(), store, gateway, session.Options{
		Model:        cfg.Groq.Model,
		Speaker:      speaker,
		SpeakReplies: cfg.Speech.Enabled,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m := chat.New(chat.Options{
		Session:   ctrl,
		Registry:  commands.NewRegistry(),
		Config:    cfg,
		ExportDir: ".",
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running medai: %v\n", err)
		os.Exit(1)
	}
}
