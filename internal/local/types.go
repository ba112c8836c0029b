// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package local

import (
	"time"

	"github.com/jeranaias/cloudnein/internal/tools"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// message is a chat message on the wire.
type message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []toolCall `json:"tool_calls,omitempty"`
}

// toolCall is a tool invocation as the runtime reports it.
type toolCall struct {
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// wireTool wraps a catalog tool in the function-calling envelope.
type wireTool struct {
	Type     string     `json:"type"` // always "function"
	Function tools.Tool `json:"function"`
}

// options carries model parameters for inference.
type options struct {
	Temperature float64  `json:"temperature,omitempty"`
	NumPredict  int      `json:"num_predict,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// chatRequest is the request body for /api/chat.
type chatRequest struct {
	Model    string     `json:"model"`
	Messages []message  `json:"messages"`
	Stream   bool       `json:"stream"`
	Tools    []wireTool `json:"tools,omitempty"`
	Options  *options   `json:"options,omitempty"`
}

// chatResponse is the response from /api/chat.
type chatResponse struct {
	Model         string  `json:"model"`
	Message       message `json:"message"`
	Done          bool    `json:"done"`
	TotalDuration int64   `json:"total_duration,omitempty"` // nanoseconds
	EvalCount     int     `json:"eval_count,omitempty"`
}

// runtimeError is the error body the runtime returns on failure.
type runtimeError struct {
	Error string `json:"error"`
}

// =============================================================================
// RESULTS
// =============================================================================

// CompleteResult is the outcome of one local completion.
type CompleteResult struct {
	// Response is the assistant's text content, often empty when the model
	// chose to call tools instead.
	Response string

	// Calls are the tool invocations the model requested, in order.
	Calls []tools.Call

	// Elapsed is the runtime-reported total duration.
	Elapsed time.Duration
}
