// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/cloudnein/internal/tools"
)

func completionBody(content string, toolCalls []map[string]any) map[string]any {
	msg := map[string]any{"role": "assistant", "content": content}
	if toolCalls != nil {
		msg["tool_calls"] = toolCalls
	}
	return map[string]any{
		"id":      "cmpl-1",
		"model":   "test-model",
		"choices": []map[string]any{{"message": msg, "finish_reason": "stop"}},
	}
}

func testClient(url string, models ...string) *Client {
	return NewClient(Config{
		APIKey:            "test-key",
		BaseURL:           url,
		Models:            models,
		MaxRetries:        1,
		RequestsPerSecond: 1000,
	})
}

func TestComplete_TextReply(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(completionBody("Spend less.", nil))
	}))
	defer srv.Close()

	c := testClient(srv.URL, "model-a")
	reply, err := c.Complete(context.Background(), "advice?", nil)
	require.NoError(t, err)
	assert.Equal(t, "Spend less.", reply.Text)
	assert.Empty(t, reply.Calls)
	assert.Equal(t, "model-a", gotReq.Model)
}

func TestComplete_DecodesToolCallArguments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(completionBody("", []map[string]any{
			{
				"id":   "call_1",
				"type": "function",
				"function": map[string]any{
					"name":      "query_expenses",
					"arguments": `{"category":"Legal"}`,
				},
			},
		}))
	}))
	defer srv.Close()

	c := testClient(srv.URL, "model-a")
	reply, err := c.Complete(context.Background(), "legal spend?", tools.Catalog())
	require.NoError(t, err)
	require.Len(t, reply.Calls, 1)
	assert.Equal(t, "query_expenses", reply.Calls[0].Name)
	assert.Equal(t, "Legal", reply.Calls[0].Arguments["category"])
}

func TestComplete_MalformedArgumentsDegradeToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(completionBody("", []map[string]any{
			{"function": map[string]any{"name": "query_expenses", "arguments": "{not json"}},
		}))
	}))
	defer srv.Close()

	c := testClient(srv.URL, "model-a")
	reply, err := c.Complete(context.Background(), "q", nil)
	require.NoError(t, err)
	require.Len(t, reply.Calls, 1)
	assert.Empty(t, reply.Calls[0].Arguments)
}

func TestComplete_FailsOverToNextModel(t *testing.T) {
	var models []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		models = append(models, req.Model)
		if req.Model == "model-a" {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "no such model"}})
			return
		}
		json.NewEncoder(w).Encode(completionBody("from backup", nil))
	}))
	defer srv.Close()

	c := testClient(srv.URL, "model-a", "model-b")
	reply, err := c.Complete(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Equal(t, "from backup", reply.Text)
	assert.Equal(t, []string{"model-a", "model-b"}, models)
}

func TestComplete_AuthFailureDoesNotFailOver(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := testClient(srv.URL, "model-a", "model-b")
	_, err := c.Complete(context.Background(), "q", nil)
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.Equal(t, 1, calls, "auth failures must abort, not fail over")
}

func TestComplete_AllModelsFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(srv.URL, "model-a", "model-b")
	_, err := c.Complete(context.Background(), "q", nil)
	assert.ErrorIs(t, err, ErrAllModelsFailed)
}

func TestComplete_NotConfigured(t *testing.T) {
	c := NewClient(Config{})
	_, err := c.Complete(context.Background(), "q", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestAnalyze_ReturnsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(completionBody("analysis done", nil))
	}))
	defer srv.Close()

	c := testClient(srv.URL, "model-a")
	text, err := c.Analyze(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "analysis done", text)
}

func TestCalculateBackoff(t *testing.T) {
	assert.Equal(t, retryBaseDelay*2, calculateBackoff(1))
	assert.Equal(t, retryBaseDelay*4, calculateBackoff(2))
	assert.Equal(t, retryMaxDelay, calculateBackoff(10))
}
