// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud provides the client for the hosted frontier model behind an
// OpenAI-compatible chat completions API.
//
// Everything sent through this client crosses the network boundary. The
// router is responsible for ensuring only redacted or anonymized content
// reaches it; the client itself is a plain transport with retries, model
// failover, and client-side rate limiting.
//
// # Key Types
//
//   - Client: Chat completions client with an ordered model failover list
//   - Reply: Completion text plus any tool calls the model requested
//
// # Error Handling
//
// Sentinel errors (ErrNotConfigured, ErrAuthFailed, ErrRateLimited,
// ErrModelNotFound) support errors.Is checks. Rate limits and 5xx responses
// retry with exponential backoff; auth failures do not. When a model is
// unavailable the client fails over to the next model in its list.
//
// # Usage
//
//	client := cloud.NewClient(cloud.Config{APIKey: key})
//	reply, err := client.Complete(ctx, prompt, narrowedTools)
package cloud
