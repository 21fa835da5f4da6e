// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Lulzlulz/med-ai/internal/groq"
	"github.com/Lulzlulz/med-ai/internal/input"
	"github.com/Lulzlulz/med-ai/internal/model"
	"github.com/Lulzlulz/med-ai/internal/storage"
)

// =============================================================================
// FAKES
// =============================================================================

// fakeGateway returns a canned reply or error and records transcripts.
type fakeGateway struct {
	reply       string
	err         error
	configured  bool
	transcripts [][]groq.ChatMessage

	// block, when non-nil, holds Chat until the channel is closed.
	block chan struct{}
	// started is closed when Chat is entered, if non-nil.
	started chan struct{}
}

func (g *fakeGateway) Chat(ctx context.Context, modelID string, transcript []groq.ChatMessage) (string, error) {
	if g.started != nil {
		close(g.started)
		g.started = nil
	}
	if g.block != nil {
		<-g.block
	}
	g.transcripts = append(g.transcripts, transcript)
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func (g *fakeGateway) IsConfigured() bool { return g.configured }

func newTestController(t *testing.T, gw Gateway) (*Controller, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "chat_history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	ctrl, err := New(context.Background(), store, gw, Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return ctrl, store
}

// =============================================================================
// STARTUP AND GREETING
// =============================================================================

func TestNewSeedsGreetingOnEmptyStore(t *testing.T) {
	ctrl, store := newTestController(t, &fakeGateway{configured: true})

	msgs := ctrl.Messages()
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want the greeting only", len(msgs))
	}
	if msgs[0].Role != model.RoleAssistant || msgs[0].Content != model.Greeting {
		t.Errorf("greeting = (%s, %q)", msgs[0].Role, msgs[0].Content)
	}

	// The greeting lives in memory only.
	n, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("store has %d rows after seeding, want 0", n)
	}
}

func TestNewReloadsHistoryWithoutGreeting(t *testing.T) {
	ctx := context.Background()
	store, err := storage.Open(filepath.Join(t.TempDir(), "chat_history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	gw := &fakeGateway{reply: "Hello!", configured: true}
	ctrl, err := New(ctx, store, gw, Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := ctrl.Submit(ctx, "Hi"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// Reload from the same store. The greeting must not reappear and the
	// persisted turn must come back in order.
	reloaded, err := New(ctx, store, gw, Options{})
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	msgs := reloaded.Messages()
	if len(msgs) != 2 {
		t.Fatalf("reload saw %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != model.RoleUser || msgs[0].Content != "Hi" {
		t.Errorf("message 0 = (%s, %q), want (user, Hi)", msgs[0].Role, msgs[0].Content)
	}
	if msgs[1].Role != model.RoleAssistant || msgs[1].Content != "Hello!" {
		t.Errorf("message 1 = (%s, %q), want (assistant, Hello!)", msgs[1].Role, msgs[1].Content)
	}
	for _, m := range msgs {
		if m.Content == model.Greeting {
			t.Error("greeting was persisted and reloaded")
		}
	}
}

func TestNewRejectsUnknownModel(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "chat_history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	_, err = New(context.Background(), store, &fakeGateway{}, Options{Model: "gpt-oops"})
	if !errors.Is(err, groq.ErrUnknownModel) {
		t.Errorf("New with bad model returned %v, want ErrUnknownModel", err)
	}
}

// =============================================================================
// TURN LIFECYCLE
// =============================================================================

func TestSubmitPersistsBothSides(t *testing.T) {
	gw := &fakeGateway{reply: "Hello!", configured: true}
	ctrl, store := newTestController(t, gw)
	ctx := context.Background()

	reply, err := ctrl.Submit(ctx, "Hi")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if reply != "Hello!" {
		t.Errorf("reply = %q, want %q", reply, "Hello!")
	}

	rows, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("store has %d rows, want 2", len(rows))
	}
	if rows[0].Role != model.RoleUser || rows[0].Content != "Hi" {
		t.Errorf("row 0 = (%s, %q)", rows[0].Role, rows[0].Content)
	}
	if rows[1].Role != model.RoleAssistant || rows[1].Content != "Hello!" {
		t.Errorf("row 1 = (%s, %q)", rows[1].Role, rows[1].Content)
	}

	if ctrl.State() != StateIdle {
		t.Errorf("state after turn = %v, want idle", ctrl.State())
	}
}

func TestSubmitTranscriptStartsWithSystemPrompt(t *testing.T) {
	gw := &fakeGateway{reply: "ok", configured: true}
	ctrl, _ := newTestController(t, gw)

	if _, err := ctrl.Submit(context.Background(), "Hi"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if len(gw.transcripts) != 1 {
		t.Fatalf("gateway saw %d calls, want 1", len(gw.transcripts))
	}
	transcript := gw.transcripts[0]
	if transcript[0].Role != "system" || transcript[0].Content != SystemPrompt {
		t.Errorf("transcript[0] = (%s, %q), want the system prompt",
			transcript[0].Role, transcript[0].Content)
	}
	last := transcript[len(transcript)-1]
	if last.Role != "user" || last.Content != "Hi" {
		t.Errorf("transcript tail = (%s, %q), want the submitted message", last.Role, last.Content)
	}
}

func TestSubmitEmptyInputRefused(t *testing.T) {
	gw := &fakeGateway{configured: true}
	ctrl, store := newTestController(t, gw)
	ctx := context.Background()

	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := ctrl.Submit(ctx, in)
		if !errors.Is(err, input.ErrEmpty) {
			t.Errorf("Submit(%q) returned %v, want ErrEmpty", in, err)
		}
	}

	// Nothing was appended or persisted.
	if got := len(ctrl.Messages()); got != 1 {
		t.Errorf("conversation has %d messages after refused input, want 1", got)
	}
	n, _ := store.Count(ctx)
	if n != 0 {
		t.Errorf("store has %d rows after refused input, want 0", n)
	}
	if len(gw.transcripts) != 0 {
		t.Errorf("gateway was called %d times for refused input", len(gw.transcripts))
	}
}

func TestSubmitGatewayFailureKeepsUserMessage(t *testing.T) {
	gwErr := errors.New("boom")
	gw := &fakeGateway{err: gwErr, configured: true}
	ctrl, store := newTestController(t, gw)
	ctx := context.Background()

	_, err := ctrl.Submit(ctx, "Hi")
	if !errors.Is(err, gwErr) {
		t.Fatalf("Submit returned %v, want the gateway error", err)
	}

	// The user message is durable; no assistant row exists.
	rows, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("store has %d rows after gateway failure, want 1", len(rows))
	}
	if rows[0].Role != model.RoleUser {
		t.Errorf("surviving row role = %s, want user", rows[0].Role)
	}

	// The controller returns to idle so the user can resend.
	if ctrl.State() != StateIdle {
		t.Errorf("state after failure = %v, want idle", ctrl.State())
	}
	if _, err := ctrl.Submit(ctx, "again"); !errors.Is(err, gwErr) {
		t.Errorf("resend returned %v, want the gateway error again", err)
	}
}

func TestSubmitWhileBusyReturnsErrBusy(t *testing.T) {
	gw := &fakeGateway{
		reply:      "done",
		configured: true,
		block:      make(chan struct{}),
		started:    make(chan struct{}),
	}
	ctrl, _ := newTestController(t, gw)
	ctx := context.Background()

	firstDone := make(chan error, 1)
	started := gw.started
	go func() {
		_, err := ctrl.Submit(ctx, "slow turn")
		firstDone <- err
	}()

	<-started
	if _, err := ctrl.Submit(ctx, "second"); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent Submit returned %v, want ErrBusy", err)
	}

	close(gw.block)
	if err := <-firstDone; err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}
}

// =============================================================================
// RESET
// =============================================================================

func TestResetClearsStoreAndSeedsInMemory(t *testing.T) {
	gw := &fakeGateway{reply: "Hello!", configured: true}
	ctrl, store := newTestController(t, gw)
	ctx := context.Background()

	if _, err := ctrl.Submit(ctx, "Hi"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if err := ctrl.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("store has %d rows after Reset, want 0", n)
	}

	msgs := ctrl.Messages()
	if len(msgs) != 1 || msgs[0].Content != model.ResetGreeting {
		t.Errorf("conversation after Reset = %v, want the reset greeting only", msgs)
	}

	// A reload after reset starts from the empty-store greeting, not the
	// reset greeting: neither variant is ever persisted.
	reloaded, err := New(ctx, store, gw, Options{})
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	rmsgs := reloaded.Messages()
	if len(rmsgs) != 1 || rmsgs[0].Content != model.Greeting {
		t.Errorf("reload after Reset = %v, want the empty-store greeting", rmsgs)
	}
}

// =============================================================================
// EXPORT AND ACCESSORS
// =============================================================================

func TestExportTextFormat(t *testing.T) {
	gw := &fakeGateway{reply: "Hello!", configured: true}
	ctrl, _ := newTestController(t, gw)
	ctx := context.Background()

	// Export renders whatever the conversation holds, greeting included.
	if err := ctrl.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if _, err := ctrl.Submit(ctx, "Hi"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	want := "ASSISTANT: " + model.ResetGreeting + "\n\nUSER: Hi\n\nASSISTANT: Hello!"
	if got := ctrl.Export(); got != want {
		t.Errorf("Export = %q, want %q", got, want)
	}
}

func TestSetModelValidates(t *testing.T) {
	ctrl, _ := newTestController(t, &fakeGateway{configured: true})

	if err := ctrl.SetModel(groq.ModelLlama8B); err != nil {
		t.Fatalf("SetModel failed: %v", err)
	}
	if ctrl.Model() != groq.ModelLlama8B {
		t.Errorf("Model = %q after switch", ctrl.Model())
	}

	if err := ctrl.SetModel("nope"); !errors.Is(err, groq.ErrUnknownModel) {
		t.Errorf("SetModel(nope) returned %v, want ErrUnknownModel", err)
	}
	if ctrl.Model() != groq.ModelLlama8B {
		t.Errorf("failed switch changed model to %q", ctrl.Model())
	}
}

func TestMessagesReturnsCopy(t *testing.T) {
	ctrl, _ := newTestController(t, &fakeGateway{configured: true})

	msgs := ctrl.Messages()
	msgs[0].Content = "mutated"
	if got := ctrl.Messages()[0].Content; got != model.Greeting {
		t.Errorf("caller mutation leaked into controller: %q", got)
	}
}
