// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package input converts heterogeneous inputs into a single plain-text
// user message.
//
// Typed text, transcribed speech, and extracted document text all pass
// through here before entering the session. The session controller treats
// an empty result as "no input" and refuses to send.
package input

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lulzlulz/med-ai/internal/util"
)

// DocumentCap is the maximum number of characters of document text kept
// before wrapping it in the summarize template. Callers are responsible
// for extracting plain text; this package only truncates and wraps it.
const DocumentCap = 4000

// SummarizePrefix is the fixed instruction template for document input.
const SummarizePrefix = "Summarize this text:\n"

// ErrEmpty is the validation guard for blank or whitespace-only input.
// It is not a true error: submission is refused and no state changes.
var ErrEmpty = errors.New("empty input")

// Typed normalizes text the user typed directly.
func Typed(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmpty
	}
	return s, nil
}

// Transcript normalizes transcribed speech. Recognition failures produce
// an empty transcript, which normalizes to ErrEmpty.
func Transcript(s string) (string, error) {
	return Typed(s)
}

// Document wraps extracted document text in the summarize template,
// truncating oversized text first. Truncation is rune-based so multi-byte
// characters are never split.
func Document(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmpty
	}
	return SummarizePrefix + util.TruncateRunesNoEllipsis(text, DocumentCap), nil
}

// DocumentFile reads a plain-text file and normalizes its contents as
// document input. Only .txt files are accepted; richer formats must be
// extracted to plain text by an external collaborator first.
func DocumentFile(path string) (string, error) {
	if strings.ToLower(filepath.Ext(path)) != ".txt" {
		return "", errors.New("only .txt files are supported; extract PDF text externally")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Document(string(data))
}
