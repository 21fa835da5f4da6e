// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders conversations into downloadable formats.
//
// Exporters are pure projections of the in-memory Conversation; they never
// touch the message store. The plain-text format is the canonical one:
// each turn as "ROLE: content" with role uppercased, turns separated by a
// blank line.
package export
