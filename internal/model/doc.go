// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the application
// for representing the chat session and its messages.
//
// # Key Types
//
//   - Conversation: Ordered message history for the active session
//   - Message: Single immutable message with role, content, and timestamp
//   - Role: Message role enumeration (user, assistant, system)
//
// # Usage
//
// Build up a conversation:
//
//	conv := model.NewConversation()
//	conv.Append(model.NewUserMessage("Hello!"))
package model
