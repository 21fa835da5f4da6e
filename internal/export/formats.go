// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"strings"

	"github.com/Lulzlulz/med-ai/internal/model"
)

// =============================================================================
// TEXT EXPORTER
// =============================================================================

// Text renders each turn as "ROLE: content" with a blank line between
// turns. This is the canonical download format.
type Text struct{}

// Export implements Exporter.
func (Text) Export(conv *model.Conversation) ([]byte, error) {
	parts := make([]string, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		parts = append(parts, strings.ToUpper(msg.Role.String())+": "+msg.Content)
	}
	return []byte(strings.Join(parts, "\n\n")), nil
}

// FileExtension implements Exporter.
func (Text) FileExtension() string { return ".txt" }

// MimeType implements Exporter.
func (Text) MimeType() string { return "text/plain" }

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// Markdown renders the conversation with bold role labels and horizontal
// rules between turns.
type Markdown struct{}

// Export implements Exporter.
func (Markdown) Export(conv *model.Conversation) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("# Chat History\n\n")
	if conv.Model != "" {
		sb.WriteString("Model: " + conv.Model + "\n\n")
	}
	sb.WriteString("---\n\n")

	for _, msg := range conv.Messages {
		sb.WriteString("**" + msg.Role.DisplayName() + "**")
		if !msg.CreatedAt.IsZero() {
			sb.WriteString(" (" + msg.CreatedAt.Format("15:04") + ")")
		}
		sb.WriteString(":\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n---\n\n")
	}

	return []byte(sb.String()), nil
}

// FileExtension implements Exporter.
func (Markdown) FileExtension() string { return ".md" }

// MimeType implements Exporter.
func (Markdown) MimeType() string { return "text/markdown" }

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSON renders the conversation as pretty-printed JSON.
type JSON struct{}

// Export implements Exporter.
func (JSON) Export(conv *model.Conversation) ([]byte, error) {
	return json.MarshalIndent(conv, "", "  ")
}

// FileExtension implements Exporter.
func (JSON) FileExtension() string { return ".json" }

// MimeType implements Exporter.
func (JSON) MimeType() string { return "application/json" }
