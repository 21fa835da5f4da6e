// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
//
// Every UI action that is not a chat message is a discrete command
// consumed here, which keeps the session state machine decoupled from the
// UI framework. Commands are parsed from "/name arg..." input, looked up
// in the registry, and executed via handlers that return Bubble Tea
// commands.
package commands
