// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech provides optional spoken replies.
//
// Playback is a collaborator, not part of the conversation core: it is
// fired after a reply is persisted and its outcome never affects
// conversation state.
package speech

import (
	"os/exec"
	"strings"
)

// Speaker speaks a piece of text out loud.
type Speaker interface {
	Speak(text string) error
}

// =============================================================================
// IMPLEMENTATIONS
// =============================================================================

// NoopSpeaker silently discards all text. Used when voice replies are off.
type NoopSpeaker struct{}

// Speak implements Speaker.
func (NoopSpeaker) Speak(string) error { return nil }

// CommandSpeaker shells out to a local text-to-speech command, e.g.
// "say" on macOS or "espeak" on Linux. The text is passed as a single
// argument, never through a shell.
type CommandSpeaker struct {
	// Command is the TTS binary plus any fixed arguments.
	Command []string
}

// NewCommandSpeaker builds a speaker from a whitespace-separated command
// string. Returns a NoopSpeaker if the command is empty.
func NewCommandSpeaker(command string) Speaker {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return NoopSpeaker{}
	}
	return &CommandSpeaker{Command: fields}
}

// Speak implements Speaker.
func (s *CommandSpeaker) Speak(text string) error {
	if len(s.Command) == 0 || strings.TrimSpace(text) == "" {
		return nil
	}
	args := append(s.Command[1:], text)
	return exec.Command(s.Command[0], args...).Run()
}
