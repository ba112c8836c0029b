// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pii provides PII detection and sensitivity scoring for query text.
//
// Detection is deterministic: a fixed set of compiled regular expressions
// (SSN, email, phone, credit card, account number) plus a dictionary-backed
// capitalized-word pass for person names. No ML models, no network calls.
//
// # Key Types
//
//   - Detector: Compiled matchers; Detect returns ordered, deduplicated entities
//   - Entity: A detected span with type, value, and rune-index positions
//   - EntityType: Closed enumeration of entity kinds
//   - Scorer: Sensitivity scoring (Low, Medium, High) from entities + keywords
//
// # Spans
//
// Entity Start/End are character (rune) indices into the original text,
// half-open [Start, End). Byte indices are never exposed, so downstream
// redaction is safe for multi-byte input.
//
// # Usage
//
// Detect entities and score a query:
//
//	d := pii.NewDetector()
//	entities := d.Detect(query)
//	s := pii.NewScorer(nil) // default financial keyword set
//	level := s.Score(query, entities)
//	if level == pii.SensitivityHigh {
//	    // force the privacy-redaction path
//	}
package pii
