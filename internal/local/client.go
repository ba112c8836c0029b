// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// LOCAL: On-device tool-calling backend
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jeranaias/cloudnein/internal/tools"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the local runtime client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNotRunning
	ErrTypeTimeout
	ErrTypeModelNotFound
	ErrTypeInvalidResponse
	ErrTypeConnection
)

// Sentinel errors for easy checking.
var (
	ErrNotRunning    = &ClientError{Type: ErrTypeNotRunning, Message: "local model runtime is not running"}
	ErrTimeout       = &ClientError{Type: ErrTypeTimeout, Message: "local completion timed out"}
	ErrModelNotFound = &ClientError{Type: ErrTypeModelNotFound, Message: "local model not found"}
)

// =============================================================================
// CLIENT
// =============================================================================

// systemPrompt primes the small model for tool selection. Anything longer
// measurably hurts its call accuracy.
const systemPrompt = "You are a helpful assistant that can use tools."

// Config holds configuration for the local client.
type Config struct {
	// BaseURL of the runtime API. Explicit IPv4 avoids IPv6 resolution
	// issues with "localhost" on some platforms.
	BaseURL string

	// Model is the tool-calling model name.
	Model string

	// Timeout for one completion (default: 30s).
	Timeout time.Duration

	// MaxTokens caps generation; tool calls are short (default: 128).
	MaxTokens int

	// Stop sequences for the model's chat template.
	Stop []string
}

// DefaultConfig returns the default local configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   "http://127.0.0.1:11434",
		Model:     "functiongemma:270m",
		Timeout:   30 * time.Second,
		MaxTokens: 128,
		Stop:      []string{"<|im_end|>", "<end_of_turn>"},
	}
}

// Client talks to the on-device runtime. Safe for concurrent use.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a local client, filling defaults for zero values.
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = defaults.MaxTokens
	}
	if len(config.Stop) == 0 {
		config.Stop = defaults.Stop
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// CheckRunning verifies the runtime is reachable.
func (c *Client) CheckRunning(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ClientError{Type: ErrTypeConnection, Message: "unexpected status from runtime: " + resp.Status}
	}
	return nil
}

// Complete runs one tool-calling completion for the query against the
// given (already narrowed) catalog.
func (c *Client) Complete(ctx context.Context, query string, catalog []tools.Tool) (*CompleteResult, error) {
	wrapped := make([]wireTool, len(catalog))
	for i, t := range catalog {
		wrapped[i] = wireTool{Type: "function", Function: t}
	}

	reqBody := chatRequest{
		Model: c.config.Model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: query},
		},
		Stream: false,
		Tools:  wrapped,
		Options: &options{
			NumPredict: c.config.MaxTokens,
			Stop:       c.config.Stop,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrModelNotFound
	}
	if resp.StatusCode != http.StatusOK {
		var rtErr runtimeError
		if err := json.NewDecoder(resp.Body).Decode(&rtErr); err == nil && rtErr.Error != "" {
			return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: rtErr.Error}
		}
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "completion request failed: " + resp.Status}
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	calls := make([]tools.Call, 0, len(result.Message.ToolCalls))
	for _, tc := range result.Message.ToolCalls {
		args := tc.Function.Arguments
		if args == nil {
			args = map[string]any{}
		}
		calls = append(calls, tools.Call{Name: tc.Function.Name, Arguments: args})
	}

	return &CompleteResult{
		Response: result.Message.Content,
		Calls:    calls,
		Elapsed:  time.Duration(result.TotalDuration),
	}, nil
}
