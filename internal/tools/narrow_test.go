// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/cloudnein/internal/pii"
)

func toolNames(ts []Tool) []string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.Name
	}
	return names
}

func TestNarrow(t *testing.T) {
	catalog := Catalog()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "budget_keywords",
			query: "are we over budget on marketing?",
			want:  []string{ToolGetBudgetStatus, ToolQueryExpenses},
		},
		{
			name:  "wire_keywords",
			query: "any pending wire approvals?",
			want:  []string{ToolGetWireApprovals, ToolQueryExpenses},
		},
		{
			name:  "revenue_keywords",
			query: "what's our enterprise ARR looking like",
			want:  []string{ToolQueryRevenue, ToolQueryExpenses},
		},
		{
			name:  "spend_keywords",
			query: "how much did we spend on AWS",
			want:  []string{ToolQueryExpenses, ToolGetBudgetStatus},
		},
		{
			name:  "pii_keywords",
			query: "redact this before sending",
			want:  []string{ToolDetectPII, ToolRedactAndAnalyze},
		},
		{
			name:  "default_four_data_tools",
			query: "tell me about the company",
			want:  []string{ToolQueryExpenses, ToolGetBudgetStatus, ToolQueryRevenue, ToolGetWireApprovals},
		},
		{
			name:  "first_rule_wins",
			query: "budget for revenue team", // budget rule outranks revenue rule
			want:  []string{ToolGetBudgetStatus, ToolQueryExpenses},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toolNames(Narrow(tt.query, catalog)))
		})
	}
}

func TestNarrow_RespectsAvailableSubset(t *testing.T) {
	// If a rule's tool was already filtered out, it is skipped, not re-added.
	var available []Tool
	for _, tool := range Catalog() {
		if tool.Name != ToolQueryExpenses {
			available = append(available, tool)
		}
	}

	got := Narrow("how much did we spend on AWS", available)
	assert.Equal(t, []string{ToolGetBudgetStatus}, toolNames(got))
}

func TestFilterBySensitivity(t *testing.T) {
	catalog := Catalog()

	tests := []struct {
		name      string
		level     pii.Sensitivity
		wantCloud bool
	}{
		{name: "low_keeps_cloud_analyze", level: pii.SensitivityLow, wantCloud: true},
		{name: "medium_drops_cloud_analyze", level: pii.SensitivityMedium, wantCloud: false},
		{name: "high_drops_cloud_analyze", level: pii.SensitivityHigh, wantCloud: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toolNames(FilterBySensitivity(catalog, tt.level))
			if tt.wantCloud {
				assert.Contains(t, got, ToolCloudAnalyze)
			} else {
				assert.NotContains(t, got, ToolCloudAnalyze)
				// Redaction tools stay: they are the sanctioned cloud route.
				assert.Contains(t, got, ToolRedactAndAnalyze)
			}
		})
	}
}
