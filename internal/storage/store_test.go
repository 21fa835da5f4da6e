// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Lulzlulz/med-ai/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "chat_history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return store
}

func TestInitIdempotent(t *testing.T) {
	store := newTestStore(t)
	// A second Init against an existing schema must not fail.
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
}

func TestAppendAssignsIncreasingIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var lastID int64
	for i, content := range []string{"first", "second", "third"} {
		id, err := store.Append(ctx, model.RoleUser, content)
		if err != nil {
			t.Fatalf("Append %d failed: %v", i, err)
		}
		if id <= lastID {
			t.Errorf("Append %d: id %d not greater than previous %d", i, id, lastID)
		}
		lastID = id
	}
}

func TestLoadAllPreservesOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	want := []struct {
		role    model.Role
		content string
	}{
		{model.RoleUser, "Hi"},
		{model.RoleAssistant, "Hello!"},
		{model.RoleUser, "How are you?"},
		{model.RoleAssistant, "Doing well."},
	}
	for _, m := range want {
		if _, err := store.Append(ctx, m.role, m.content); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("LoadAll returned %d messages, want %d", len(got), len(want))
	}
	for i, msg := range got {
		if msg.Role != want[i].role || msg.Content != want[i].content {
			t.Errorf("message %d = (%s, %q), want (%s, %q)",
				i, msg.Role, msg.Content, want[i].role, want[i].content)
		}
		if msg.ID == 0 {
			t.Errorf("message %d has no store id", i)
		}
		if i > 0 && msg.ID <= got[i-1].ID {
			t.Errorf("message %d id %d not increasing after %d", i, msg.ID, got[i-1].ID)
		}
	}
}

func TestLoadAllEmptyStore(t *testing.T) {
	store := newTestStore(t)

	got, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("LoadAll on empty store returned %d messages", len(got))
	}
}

func TestReloadSeesSameHistory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat_history.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := store.Append(ctx, model.RoleUser, "persisted"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	// A fresh handle over the same file sees the same rows.
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if err := reopened.Init(ctx); err != nil {
		t.Fatalf("reopen Init failed: %v", err)
	}
	got, err := reopened.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll after reopen failed: %v", err)
	}
	if len(got) != 1 || got[0].Content != "persisted" {
		t.Errorf("reopen saw %v, want the single persisted message", got)
	}
}

func TestClearEmptiesStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Append(ctx, model.RoleUser, "a"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if _, err := store.Append(ctx, model.RoleAssistant, "b"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Count after Clear = %d, want 0", n)
	}
}

func TestClearOnEmptyStore(t *testing.T) {
	store := newTestStore(t)
	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("Clear on empty store failed: %v", err)
	}
}

func TestCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := store.Append(ctx, model.RoleUser, "msg"); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 5 {
		t.Errorf("Count = %d, want 5", n)
	}
}

func TestAppendPreservesUnicode(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	content := "héllo wörld 你好 🎉"
	if _, err := store.Append(ctx, model.RoleUser, content); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	got, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(got) != 1 || got[0].Content != content {
		t.Errorf("round-tripped content = %q, want %q", got[0].Content, content)
	}
}
