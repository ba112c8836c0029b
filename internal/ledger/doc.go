// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ledger provides the local financial store backing all tool
// execution: expenses, budgets, revenue, and wire approvals in SQLite.
//
// The store is the only source of financial ground truth; nothing in it is
// ever sent off-device without passing through the anonymizer first.
//
// # Key Types
//
//   - Store: SQLite-backed query service, safe for concurrent reads
//   - Expense, BudgetStatus, Revenue, WireApproval: row types
//   - VendorHistory: joined expense + pending-wire view for one vendor
//
// # Usage
//
//	store, err := ledger.Open("cfo_ledger.db")
//	if err != nil { ... }
//	defer store.Close()
//	if err := store.Seed(ctx); err != nil { ... } // no-op when populated
//
//	rows, err := store.QueryExpenses(ctx, ledger.ExpenseFilter{Category: "Legal"})
//
// Open accepts ":memory:" for tests.
package ledger
