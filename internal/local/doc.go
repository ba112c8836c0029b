// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package local provides the HTTP client for the on-device model runtime
// (Ollama-compatible /api/chat).
//
// The local model is the preferred tool-selection backend: it sees the raw
// query, runs on the device, and costs nothing. It is small, so the router
// narrows the tool catalog before calling it and scores its output before
// trusting it.
//
// # Key Types
//
//   - Client: HTTP client for the chat endpoint, safe for concurrent use
//   - CompleteResult: Completion text, requested tool calls, and timing
//   - ClientError: Typed error with category and cause
//
// # Usage
//
//	client := local.NewClient(local.DefaultConfig())
//	res, err := client.Complete(ctx, query, narrowed)
//	if err != nil { /* fall through to the cloud path */ }
//	for _, call := range res.Calls { ... }
package local
