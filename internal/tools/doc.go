// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tools defines the financial tool catalog and executes tool calls
// against the local ledger.
//
// The catalog holds seven tools: four data tools (query_expenses,
// get_budget_status, query_revenue, get_wire_approvals) that never leave
// the device, and three privacy tools (detect_pii, redact_and_analyze,
// cloud_analyze) that mediate cloud access.
//
// # Key Types
//
//   - Tool: JSON-schema tool definition passed to both model backends
//   - Call: A requested invocation (name + argument map)
//   - Executor: Dispatches calls to the ledger or the cloud analyzer
//   - Result: Execution output with its provenance (Source)
//
// # Narrowing
//
// Narrow applies an ordered keyword table to shrink the catalog to the 2-3
// tools a query plausibly needs; small tool-calling models select far more
// reliably from a short list. FilterBySensitivity removes cloud_analyze
// whenever the query scored Medium or High.
//
// # Fault tolerance
//
// Model-produced calls are repaired, not rejected: ResolveName fixes
// near-miss tool names and NormalizeArgs fixes known argument confusions
// before dispatch. An unknown tool yields an explanatory Result, never an
// error.
package tools
