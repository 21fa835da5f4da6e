// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Lulzlulz/med-ai/internal/export"
	"github.com/Lulzlulz/med-ai/internal/groq"
	"github.com/Lulzlulz/med-ai/internal/input"
	"github.com/Lulzlulz/med-ai/internal/model"
	"github.com/Lulzlulz/med-ai/internal/speech"
	"github.com/Lulzlulz/med-ai/internal/storage"
)

// SystemPrompt is prepended to every transcript sent to the gateway.
// It is synthesized at call time and never persisted.
const SystemPrompt = "You are a helpful and friendly assistant."

// ErrBusy indicates a turn is already in flight. Turns are strictly
// serialized; the UI accepts the next action only after the current turn
// completes.
var ErrBusy = errors.New("a turn is already in progress")

// =============================================================================
// STATE MACHINE
// =============================================================================

// State is the lifecycle state of the controller.
type State int

const (
	StateIdle State = iota
	StateUserSubmitted
	StateAwaitingReply
	StateErrorSurfaced
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUserSubmitted:
		return "user-submitted"
	case StateAwaitingReply:
		return "awaiting-reply"
	case StateErrorSurfaced:
		return "error-surfaced"
	default:
		return "unknown"
	}
}

// =============================================================================
// GATEWAY BOUNDARY
// =============================================================================

// Gateway is the completion service boundary. *groq.Client satisfies it.
type Gateway interface {
	Chat(ctx context.Context, model string, transcript []groq.ChatMessage) (string, error)
	IsConfigured() bool
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the active Conversation and drives the turn lifecycle.
type Controller struct {
	mu sync.Mutex

	store   *storage.Store
	gateway Gateway
	speaker speech.Speaker

	conv    *model.Conversation
	state   State
	modelID string

	// speakReplies mirrors the voice-replies toggle.
	speakReplies bool
}

// Options configures a Controller.
type Options struct {
	// Model is the completion model identifier. Defaults to groq.DefaultModel.
	Model string

	// Speaker handles spoken replies. Defaults to the no-op speaker.
	Speaker speech.Speaker

	// SpeakReplies enables fire-and-forget playback of assistant replies.
	SpeakReplies bool
}

// New constructs a controller and reconstructs the Conversation from the
// store. An empty store seeds the synthetic greeting in memory only, so
// reload is idempotent and the greeting is never duplicated.
func New(ctx context.Context, store *storage.Store, gateway Gateway, opts Options) (*Controller, error) {
	if err := store.Init(ctx); err != nil {
		return nil, err
	}

	messages, err := store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	conv := model.NewConversation()
	if len(messages) == 0 {
		conv = model.Seed(model.Greeting)
	} else {
		conv.Messages = messages
	}

	modelID := opts.Model
	if modelID == "" {
		modelID = groq.DefaultModel
	}
	if err := groq.ValidateModel(modelID); err != nil {
		return nil, err
	}
	conv.Model = modelID

	speaker := opts.Speaker
	if speaker == nil {
		speaker = speech.NoopSpeaker{}
	}

	return &Controller{
		store:        store,
		gateway:      gateway,
		speaker:      speaker,
		conv:         conv,
		state:        StateIdle,
		modelID:      modelID,
		speakReplies: opts.SpeakReplies,
	}, nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Messages returns a copy of the current conversation, in order.
func (c *Controller) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Message, len(c.conv.Messages))
	copy(out, c.conv.Messages)
	return out
}

// Conversation returns a snapshot copy of the current conversation.
func (c *Controller) Conversation() *model.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := &model.Conversation{
		Messages:  make([]model.Message, len(c.conv.Messages)),
		Model:     c.conv.Model,
		UpdatedAt: c.conv.UpdatedAt,
	}
	copy(snapshot.Messages, c.conv.Messages)
	return snapshot
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Model returns the active completion model identifier.
func (c *Controller) Model() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modelID
}

// SetModel switches the completion model after validating it.
func (c *Controller) SetModel(id string) error {
	if err := groq.ValidateModel(id); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modelID = id
	c.conv.Model = id
	return nil
}

// SetSpeakReplies toggles spoken replies.
func (c *Controller) SetSpeakReplies(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speakReplies = on
}

// SpeakReplies reports whether spoken replies are enabled.
func (c *Controller) SpeakReplies() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speakReplies
}

// Configured reports whether the gateway has a credential. A missing
// credential is surfaced as a warning, not a startup failure: the history
// stays browsable and the key may be supplied later.
func (c *Controller) Configured() bool {
	return c.gateway.IsConfigured()
}

// =============================================================================
// TURN LIFECYCLE
// =============================================================================

// Submit runs one full turn with already-normalized input and returns the
// assistant's reply.
//
// Empty input is refused with input.ErrEmpty before any state changes.
// On gateway failure the user message remains in memory and in the store;
// no assistant message exists for the turn.
func (c *Controller) Submit(ctx context.Context, normalized string) (string, error) {
	if strings.TrimSpace(normalized) == "" {
		return "", input.ErrEmpty
	}

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return "", ErrBusy
	}
	c.state = StateUserSubmitted

	// Memory first so the UI can render immediately; the durable write
	// follows before the turn proceeds.
	c.conv.Append(model.NewUserMessage(normalized))

	id, err := c.store.Append(ctx, model.RoleUser, normalized)
	if err != nil {
		// The durable write failed: the turn is not durable, so it does
		// not proceed. Roll the in-memory copy back to match the store.
		c.conv.Messages = c.conv.Messages[:len(c.conv.Messages)-1]
		c.state = StateIdle
		c.mu.Unlock()
		return "", err
	}
	c.conv.SetLastID(id)

	transcript := toChatMessages(c.conv.Transcript(SystemPrompt))
	modelID := c.modelID
	c.state = StateAwaitingReply
	c.mu.Unlock()

	reply, err := c.gateway.Chat(ctx, modelID, transcript)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		// The user message stays persisted; no partial assistant message
		// is ever written.
		c.state = StateIdle
		return "", err
	}

	c.conv.Append(model.NewAssistantMessage(reply))
	id, serr := c.store.Append(ctx, model.RoleAssistant, reply)
	if serr != nil {
		// The reply is shown but not durable. Surface the storage error;
		// the next reload will simply miss this reply.
		c.state = StateIdle
		return reply, serr
	}
	c.conv.SetLastID(id)

	if c.speakReplies {
		// Fire-and-forget: playback never blocks the turn and its
		// failure never affects conversation state.
		go c.speaker.Speak(reply)
	}

	c.state = StateIdle
	return reply, nil
}

// Reset clears the store and the Conversation, then reseeds the
// post-reset greeting in memory only.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return ErrBusy
	}

	if err := c.store.Clear(ctx); err != nil {
		return err
	}

	c.conv.Clear()
	c.conv.Append(model.NewAssistantMessage(model.ResetGreeting))
	return nil
}

// Export renders the current Conversation as a plain-text blob.
// Pure read-only projection; the store is never touched.
func (c *Controller) Export() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, _ := export.Text{}.Export(c.conv)
	return string(data)
}

// =============================================================================
// HELPERS
// =============================================================================

// toChatMessages converts domain messages to the gateway wire type.
func toChatMessages(messages []model.Message) []groq.ChatMessage {
	out := make([]groq.ChatMessage, 0, len(messages))
	for _, msg := range messages {
		out = append(out, groq.ChatMessage{
			Role:    msg.Role.String(),
			Content: msg.Content,
		})
	}
	return out
}
