// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"
)

// Greeting texts shown when the history is empty. They live only in memory
// and are never written to the store, so reloading a session never
// duplicates them.
const (
	Greeting      = "Hello! How can I help you today?"
	ResetGreeting = "Chat cleared! How can I help now?"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds the ordered message history for the active session.
//
// It is a cached projection of the message store's contents: the store is
// the source of truth across restarts, the Conversation is the source of
// truth within a single render cycle.
type Conversation struct {
	Messages []Message `json:"messages"`

	// Model is the completion model used for this session.
	Model string `json:"model"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{
		Messages:  make([]Message, 0),
		UpdatedAt: time.Now(),
	}
}

// Seed returns a conversation containing only the synthetic greeting.
func Seed(greeting string) *Conversation {
	conv := NewConversation()
	conv.Append(NewAssistantMessage(greeting))
	return conv
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the conversation.
func (c *Conversation) Append(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// SetLastID stamps the store-assigned identifier onto the most recent
// message. Called after the durable write completes.
func (c *Conversation) SetLastID(id int64) {
	if len(c.Messages) == 0 {
		return
	}
	c.Messages[len(c.Messages)-1].ID = id
}

// Last returns the most recent message, or a zero Message if empty.
func (c *Conversation) Last() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// LastAssistant returns the most recent assistant message.
func (c *Conversation) LastAssistant() (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i], true
		}
	}
	return Message{}, false
}

// LastUser returns the most recent user message.
func (c *Conversation) LastUser() (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			return c.Messages[i], true
		}
	}
	return Message{}, false
}

// Len returns the number of messages in the conversation.
func (c *Conversation) Len() int {
	return len(c.Messages)
}

// Clear removes all messages from the conversation.
func (c *Conversation) Clear() {
	c.Messages = make([]Message, 0)
	c.UpdatedAt = time.Now()
}

// Transcript returns the full sequence sent to the completion service for
// one turn: the fixed system prompt followed by every message in order.
func (c *Conversation) Transcript(systemPrompt string) []Message {
	out := make([]Message, 0, len(c.Messages)+1)
	out = append(out, NewSystemMessage(systemPrompt))
	out = append(out, c.Messages...)
	return out
}

// EstimateTokens gives a rough token estimate for the whole conversation.
func (c *Conversation) EstimateTokens() int {
	total := 0
	for _, msg := range c.Messages {
		total += msg.EstimateTokens()
	}
	return total
}
