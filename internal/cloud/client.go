// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// CLOUD: Chat completions transport with failover, retries, rate limiting
package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/cloudnein/internal/tools"
)

const (
	// MaxResponseSize caps response bodies to prevent memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB

	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 10 * time.Second
)

// Error variables for common API errors.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("cloud API key not configured")

	// ErrAuthFailed indicates authentication failed.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelNotFound indicates the requested model does not exist.
	ErrModelNotFound = errors.New("model not found")

	// ErrAllModelsFailed indicates every model in the failover list failed.
	ErrAllModelsFailed = errors.New("all cloud models failed")
)

// APIError represents a structured error from the API.
type APIError struct {
	Code    string
	Message string
	Status  int
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("cloud API error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("cloud API error %d: %s", e.Status, e.Message)
}

// =============================================================================
// CLIENT
// =============================================================================

// Config holds cloud client configuration.
type Config struct {
	// APIKey authenticates requests. Empty means not configured; calls
	// fail fast with ErrNotConfigured.
	APIKey string

	// BaseURL of the OpenAI-compatible API.
	BaseURL string

	// Models is the ordered failover list. The first healthy model wins.
	Models []string

	// MaxRetries per model for transient failures (default: 3).
	MaxRetries int

	// RequestsPerSecond is the client-side rate limit (default: 2).
	RequestsPerSecond float64

	// Timeout per HTTP request (default: 60s).
	Timeout time.Duration
}

// DefaultConfig returns defaults for everything but the API key.
func DefaultConfig() Config {
	return Config{
		BaseURL:           "https://generativelanguage.googleapis.com/v1beta/openai",
		Models:            []string{"gemini-2.0-flash", "gemini-2.0-flash-lite"},
		MaxRetries:        3,
		RequestsPerSecond: 2,
		Timeout:           60 * time.Second,
	}
}

// Client is the hosted-model transport. Safe for concurrent use.
type Client struct {
	config     Config
	limiter    *rate.Limiter
	httpClient *http.Client
}

// NewClient creates a cloud client, filling defaults for zero values.
func NewClient(config Config) *Client {
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if len(config.Models) == 0 {
		config.Models = defaults.Models
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = defaults.MaxRetries
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}

	return &Client{
		config:     config,
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// IsConfigured reports whether an API key is present.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// Complete runs one completion with optional tool schemas, failing over
// through the model list. Retries are bounded per model; the total attempt
// count is len(Models) * MaxRetries in the worst case.
func (c *Client) Complete(ctx context.Context, prompt string, catalog []tools.Tool) (*Reply, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	wrapped := make([]wireTool, len(catalog))
	for i, t := range catalog {
		wrapped[i] = wireTool{Type: "function", Function: t}
	}

	var lastErr error
	for _, model := range c.config.Models {
		reply, err := c.completeWithModel(ctx, model, prompt, wrapped)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		// Auth problems won't fix themselves on another model.
		if errors.Is(err, ErrAuthFailed) || errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		log.Printf("CLOUD: model %s failed (%v), trying next", model, err)
	}

	return nil, fmt.Errorf("%w: %v", ErrAllModelsFailed, lastErr)
}

// Analyze runs a plain prompt completion and returns the text. It satisfies
// the executor's Analyzer interface.
func (c *Client) Analyze(ctx context.Context, prompt string) (string, error) {
	reply, err := c.Complete(ctx, prompt, nil)
	if err != nil {
		return "", err
	}
	return reply.Text, nil
}

func (c *Client) completeWithModel(ctx context.Context, model, prompt string, wrapped []wireTool) (*Reply, error) {
	reqBody := chatRequest{
		Model:    model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
		Tools:    wrapped,
	}

	var lastErr error
	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(calculateBackoff(attempt)):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		reply, err := c.doRequest(ctx, reqBody)
		if err != nil {
			if isRetryable(err) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return reply, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) doRequest(ctx context.Context, reqBody chatRequest) (*Reply, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, handleErrorResponse(resp.StatusCode, body)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, errors.New("empty choices in response")
	}

	msg := chatResp.Choices[0].Message
	reply := &Reply{Text: msg.Content, Model: chatResp.Model}

	for _, tc := range msg.ToolCalls {
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			// Malformed arguments degrade to an empty map; the executor's
			// repair layer and fallbacks handle the rest.
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				log.Printf("CLOUD: dropping malformed arguments for %s: %v", tc.Function.Name, err)
				args = map[string]any{}
			}
		}
		reply.Calls = append(reply.Calls, tools.Call{Name: tc.Function.Name, Arguments: args})
	}

	return reply, nil
}

// readResponse reads the body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limited := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", int64(MaxResponseSize))
	}
	return body, nil
}

// handleErrorResponse converts HTTP error responses to Go errors.
func handleErrorResponse(statusCode int, body []byte) error {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		switch statusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrAuthFailed, apiErr.Error.Message)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrModelNotFound, apiErr.Error.Message)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Error.Message)
		default:
			return &APIError{Code: apiErr.Error.Code, Message: apiErr.Error.Message, Status: statusCode}
		}
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthFailed
	case http.StatusNotFound:
		return ErrModelNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return &APIError{Message: string(body), Status: statusCode}
	}
}

// isRetryable determines whether an error should trigger a retry on the
// same model. Rate limits and 5xx responses retry; everything else fails
// over or aborts.
func isRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 && apiErr.Status < 600
	}
	return false
}

// calculateBackoff returns the delay before retry n: 500ms, 1s, 2s, ...
// capped at retryMaxDelay.
func calculateBackoff(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}
