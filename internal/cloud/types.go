// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"github.com/jeranaias/cloudnein/internal/tools"
)

// =============================================================================
// WIRE TYPES (OpenAI-compatible chat completions)
// =============================================================================

// chatMessage is one message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// wireTool wraps a catalog tool in the function-calling envelope.
type wireTool struct {
	Type     string     `json:"type"` // always "function"
	Function tools.Tool `json:"function"`
}

// chatRequest is the request body for /chat/completions.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Tools    []wireTool    `json:"tools,omitempty"`
}

// wireToolCall is a tool invocation in the response. Arguments arrive as a
// JSON-encoded string, not an object.
type wireToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

// chatResponse is the response from /chat/completions.
type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role      string         `json:"role"`
			Content   string         `json:"content"`
			ToolCalls []wireToolCall `json:"tool_calls,omitempty"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// apiErrorResponse is the error body the API returns on failure.
type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// =============================================================================
// RESULTS
// =============================================================================

// Reply is the outcome of one cloud completion.
type Reply struct {
	// Text is the assistant's content, empty when it called tools instead.
	Text string

	// Calls are requested tool invocations with decoded arguments.
	Calls []tools.Call

	// Model is the model that actually served the request, which may be a
	// failover entry rather than the first choice.
	Model string
}
