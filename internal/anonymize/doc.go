// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package anonymize provides reversible alias substitution for sensitive
// values crossing the network boundary.
//
// A NodeMap is built per request. Real values are registered and receive
// stable, typed aliases ("Person_A", "Vendor_B"); outbound text is rewritten
// real->alias, and responses are rewritten alias->real before display. The
// map never leaves the process.
//
// # Key Types
//
//   - NodeMap: Bidirectional value<->alias table with per-prefix counters
//
// # Usage
//
//	m := anonymize.NewNodeMap()
//	redacted := m.Redact(query, entities)     // span-based, for detected PII
//	safe := m.Anonymize(contextText)          // substring-based, for known values
//	answer := m.DeAnonymize(cloudResponse)    // restore real values locally
//
// # Limitations
//
// Substring substitution is longest-first to keep overlapping values ("Acme"
// inside "Acme Corp") deterministic, but a real value that appears as part of
// an unrelated word will still be rewritten. Detected-entity redaction via
// Redact does not have this problem since it is span-based.
package anonymize
