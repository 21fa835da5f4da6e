// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the durable, append-only message store.
//
// History is kept in a single SQLite table. The store is the source of
// truth across restarts; the in-memory Conversation is rebuilt from it on
// startup.
//
// # Contract
//
//   - Init ensures the schema exists (idempotent, safe on every startup)
//   - Append inserts one immutable row and returns its identifier
//   - LoadAll returns every persisted message, oldest first
//   - Clear deletes all rows
//
// Every operation opens and releases its own database handle. The UI
// re-renders on each interaction, so a long-lived handle would leak over a
// long session.
//
// Failures map onto three sentinel errors checked with errors.Is:
// ErrUnavailable (medium cannot be opened), ErrWrite, and ErrRead.
package storage
