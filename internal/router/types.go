// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"time"

	"github.com/jeranaias/cloudnein/internal/pii"
	"github.com/jeranaias/cloudnein/internal/tools"
)

// =============================================================================
// ROUTING PATHS
// =============================================================================

// RoutingPath identifies which pipeline branch served a query.
type RoutingPath int

const (
	// PathPrivacyRedact handles high sensitivity queries: redact locally,
	// then cloud analysis over the redacted text only.
	PathPrivacyRedact RoutingPath = iota

	// PathCloudAnalysis handles analytical questions: anonymized local
	// context goes to the cloud, the response is de-anonymized locally.
	PathCloudAnalysis

	// PathLocalTool is the happy path: the local model picked a tool with
	// enough confidence and it executed against the local ledger.
	PathLocalTool

	// PathCloudTool means the local model was uncertain, so the cloud chose
	// the tool. Execution still happens locally.
	PathCloudTool

	// PathLocalFallback means keyword extraction picked the tool, or
	// nothing worked at all.
	PathLocalFallback
)

func (p RoutingPath) String() string {
	switch p {
	case PathPrivacyRedact:
		return "privacy-redact"
	case PathCloudAnalysis:
		return "cloud-analysis"
	case PathLocalTool:
		return "local-tool"
	case PathCloudTool:
		return "cloud-tool"
	case PathLocalFallback:
		return "local-fallback"
	default:
		return "unknown"
	}
}

// =============================================================================
// CONFIG
// =============================================================================

// Config holds router tuning parameters.
type Config struct {
	// ConfidenceThreshold is the minimum local tool-calling confidence
	// required to execute without consulting the cloud (default: 0.5).
	ConfidenceThreshold float64

	// SensitivityKeywords extends the built-in sensitive term list used
	// for scoring. Empty keeps the defaults.
	SensitivityKeywords []string
}

// DefaultConfig returns the default router configuration.
func DefaultConfig() Config {
	return Config{ConfidenceThreshold: 0.5}
}

// =============================================================================
// RESULTS
// =============================================================================

// HybridResult is the full outcome of routing one query: the response text
// plus everything needed to explain how it was produced.
type HybridResult struct {
	// RequestID uniquely identifies this pipeline run in logs.
	RequestID string

	// Source reports where the response content came from.
	Source tools.Source

	// Path is the pipeline branch that produced the response.
	Path RoutingPath

	// Reason is a human-readable explanation of the routing decision.
	Reason string

	// Calls are the tool invocations the pipeline executed, if any.
	Calls []tools.Call

	// Response is the final user-facing text.
	Response string

	// Elapsed is wall-clock time for the whole pipeline.
	Elapsed time.Duration

	// Confidence is the local model's tool-calling confidence, when the
	// local model made the call.
	Confidence float64

	// LocalConfidence records the local confidence that triggered a cloud
	// handoff on the cloud-tool path.
	LocalConfidence float64

	// Sensitivity is the query's scored sensitivity level.
	Sensitivity pii.Sensitivity

	// PIIDetected counts PII entities found in the query.
	PIIDetected int

	// RedactedPreview shows the first 200 runes of redacted text, when
	// redaction happened.
	RedactedPreview string

	// LocalContext previews the anonymized context sent on the
	// cloud-analysis path.
	LocalContext string
}
