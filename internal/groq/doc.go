// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package groq provides the client for the Groq chat completions API.
//
// Groq exposes an OpenAI-compatible completions endpoint. The client
// sends the full conversation transcript (with the fixed system prompt
// prepended by the caller) and returns the single top-ranked reply.
//
// The remote call is treated as opaque: no retries, no streaming. A
// failed call is a recoverable per-turn error and never corrupts
// already-persisted state.
package groq
