// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Seed(context.Background()))
	return s
}

func TestSeed_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Seed(ctx))

	rows, err := s.QueryExpenses(ctx, ExpenseFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 20)
}

func TestQueryExpenses_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		filter    ExpenseFilter
		wantCount int
	}{
		{name: "no_filter_returns_all", filter: ExpenseFilter{}, wantCount: 20},
		{name: "category_case_insensitive", filter: ExpenseFilter{Category: "legal"}, wantCount: 2},
		{name: "vendor_substring_match", filter: ExpenseFilter{Vendor: "baker"}, wantCount: 1},
		{name: "date_range", filter: ExpenseFilter{StartDate: "2026-02-10", EndDate: "2026-02-12"}, wantCount: 4},
		{name: "combined_filters", filter: ExpenseFilter{Category: "Engineering", StartDate: "2026-02-10"}, wantCount: 2},
		{name: "unknown_vendor_empty", filter: ExpenseFilter{Vendor: "nonexistent"}, wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := s.QueryExpenses(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, rows, tt.wantCount)
		})
	}
}

func TestQueryExpenses_OrderedNewestFirst(t *testing.T) {
	s := newTestStore(t)

	rows, err := s.QueryExpenses(context.Background(), ExpenseFilter{})
	require.NoError(t, err)
	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i].Date, rows[i-1].Date)
	}
}

func TestTotalSpend(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	legal, err := s.TotalSpend(ctx, "Legal")
	require.NoError(t, err)
	assert.InDelta(t, 5000.0, legal, 0.01) // 3200 + 1800

	all, err := s.TotalSpend(ctx, "")
	require.NoError(t, err)
	assert.InDelta(t, 39705.0, all, 0.01)
}

func TestBudgetStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t.Run("single_category", func(t *testing.T) {
		rows, err := s.BudgetStatus(ctx, "legal")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Legal", rows[0].Category)
		assert.InDelta(t, 4000.0, rows[0].MonthlyLimit, 0.01)
		assert.InDelta(t, 5000.0, rows[0].TotalSpent, 0.01)
		assert.InDelta(t, -1000.0, rows[0].Remaining, 0.01)
	})

	t.Run("all_ordered_by_remaining", func(t *testing.T) {
		rows, err := s.BudgetStatus(ctx, "")
		require.NoError(t, err)
		require.Len(t, rows, 9)
		for i := 1; i < len(rows); i++ {
			assert.LessOrEqual(t, rows[i-1].Remaining, rows[i].Remaining)
		}
		// Legal is over budget and must sort first.
		assert.Equal(t, "Legal", rows[0].Category)
	})
}

func TestQueryRevenue(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t.Run("client_substring", func(t *testing.T) {
		rows, err := s.QueryRevenue(ctx, RevenueFilter{Client: "globaltech"})
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("segment_filter", func(t *testing.T) {
		rows, err := s.QueryRevenue(ctx, RevenueFilter{Segment: "Enterprise"})
		require.NoError(t, err)
		assert.Len(t, rows, 4)
	})

	t.Run("total_matches_filter", func(t *testing.T) {
		total, err := s.TotalRevenue(ctx, RevenueFilter{Client: "GlobalTech"})
		require.NoError(t, err)
		assert.InDelta(t, 33000.0, total, 0.01)
	})
}

func TestWireApprovals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pending, err := s.WireApprovals(ctx, "pending")
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	all, err := s.WireApprovals(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestVendorHistory(t *testing.T) {
	s := newTestStore(t)

	h, err := s.VendorHistory(context.Background(), "baker mckenzie")
	require.NoError(t, err)
	require.Len(t, h.Expenses, 1)
	assert.InDelta(t, 3200.0, h.TotalSpend, 0.01)
	require.Len(t, h.PendingWires, 1)
	assert.InDelta(t, 5000.0, h.PendingWires[0].Amount, 0.01)
}
