// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session orchestrates one conversation turn at a time.
//
// The Controller owns the in-memory Conversation and mediates between it,
// the durable message store, and the completion gateway:
//
//	Submit: append user message -> persist -> call gateway ->
//	        append+persist reply -> optional speech playback
//
// The user's message is persisted before the gateway call, so a failed
// call never loses input, only delays the reply. No partial assistant
// message is ever persisted.
//
// The controller is an explicit object constructed at startup and passed
// to every operation; there is no ambient global session.
package session
