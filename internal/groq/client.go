// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package groq

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Configuration constants for the Groq API.
const (
	// DefaultBaseURL is the base URL for the Groq OpenAI-compatible API.
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// Supported model identifiers. Requests are validated against this set
// before anything is sent over the wire.
const (
	ModelLlama70B = "llama-3.3-70b-versatile"
	ModelLlama8B  = "llama-3.1-8b-instant"
	ModelGemma9B  = "gemma2-9b-it"
)

// DefaultModel is used when no model is configured.
const DefaultModel = ModelLlama70B

// SupportedModels lists the known valid model identifiers in display order.
var SupportedModels = []string{
	ModelLlama70B,
	ModelLlama8B,
	ModelGemma9B,
}

// validModels is the set of known valid model identifiers for validation.
var validModels = map[string]bool{
	ModelLlama70B: true,
	ModelLlama8B:  true,
	ModelGemma9B:  true,
}

// Error variables for common gateway errors.
var (
	// ErrNotConfigured indicates the API key is not set. This is deferred
	// until the first call; the UI stays usable for browsing history.
	ErrNotConfigured = errors.New("Groq API key not configured")

	// ErrAuthFailed indicates authentication failed (invalid or expired key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrRequestFailed indicates a network failure, timeout, server error,
	// or malformed response.
	ErrRequestFailed = errors.New("completion request failed")

	// ErrUnknownModel indicates the model is not in the validated model list.
	ErrUnknownModel = errors.New("unknown model")
)

// APIError represents an error response from the Groq API.
type APIError struct {
	Code    string
	Message string
	Status  int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("Groq error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("Groq error (HTTP %d): %s", e.Status, e.Message)
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// ChatMessage represents a single message in a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`    // "user", "assistant", or "system"
	Content string `json:"content"` // The message content
}

// ChatRequest represents a request to the chat completions endpoint.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse represents a response from the chat completions endpoint.
type ChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// GetContent returns the content of the first choice, or empty string if none.
func (r *ChatResponse) GetContent() string {
	if len(r.Choices) > 0 {
		return r.Choices[0].Message.Content
	}
	return ""
}

// apiErrorResponse represents an error response body from the API.
type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a client for the Groq chat completions API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a new Groq client with the given API key.
//
// If the API key is empty the client is still created; Chat requests fail
// with ErrNotConfigured until a key is supplied.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		timeout: DefaultTimeout,
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithTimeout sets the request timeout. A timeout surfaces as a wrapped
// ErrRequestFailed.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	c.httpClient.Timeout = timeout
	return c
}

// WithHTTPClient sets a custom HTTP client.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

// IsConfigured returns true if the client has an API key configured.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// KeyFingerprint returns a short SHA-256 fingerprint of the API key for
// logging. The key itself is never logged or displayed.
func (c *Client) KeyFingerprint() string {
	if c.apiKey == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(c.apiKey))
	return hex.EncodeToString(h[:4])
}

// ValidateModel checks the model against the known supported set.
func ValidateModel(model string) error {
	if !validModels[model] {
		return fmt.Errorf("%w: %s", ErrUnknownModel, model)
	}
	return nil
}

// =============================================================================
// CHAT COMPLETION
// =============================================================================

// Chat performs a single chat completion request and returns the reply text.
//
// The transcript must already include the system message as its first
// element. No retry is performed; the caller surfaces the error and the
// user may resend.
func (c *Client) Chat(ctx context.Context, model string, transcript []ChatMessage) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}
	if err := ValidateModel(model); err != nil {
		return "", err
	}

	reqBody := ChatRequest{
		Model:    model,
		Messages: transcript,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", ErrRequestFailed, err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: building request: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.logRequest(req)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	c.logResponse(resp, time.Since(start))

	data, err := readResponse(resp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.parseError(resp.StatusCode, data)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(data, &chatResp); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrRequestFailed, err)
	}

	reply := chatResp.GetContent()
	if reply == "" {
		return "", fmt.Errorf("%w: response contained no choices", ErrRequestFailed)
	}
	return reply, nil
}

// parseError maps an HTTP error status and body onto the error taxonomy.
func (c *Client) parseError(status int, data []byte) error {
	var apiErr apiErrorResponse
	message := strings.TrimSpace(string(data))
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Message
	}

	wrapped := &APIError{
		Code:    apiErr.Error.Code,
		Message: message,
		Status:  status,
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %v", ErrAuthFailed, wrapped)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", ErrRateLimited, wrapped)
	case http.StatusNotFound, http.StatusBadRequest:
		if strings.Contains(strings.ToLower(message), "model") {
			return fmt.Errorf("%w: %v", ErrUnknownModel, wrapped)
		}
		return fmt.Errorf("%w: %v", ErrRequestFailed, wrapped)
	default:
		return fmt.Errorf("%w: %v", ErrRequestFailed, wrapped)
	}
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// logRequest logs an API request without exposing sensitive data.
// Headers and body are never logged.
func (c *Client) logRequest(req *http.Request) {
	log.Printf("API Request: %s %s", req.Method, req.URL.Path)
}

// logResponse logs status code and duration only.
func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API Response: %d %s (%v)", resp.StatusCode, resp.Status, duration)
}
