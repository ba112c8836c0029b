// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/cloudnein/internal/tools"
)

func TestKeywordFallback(t *testing.T) {
	catalog := tools.Catalog()

	tests := []struct {
		name     string
		query    string
		wantTool string
		wantArgs map[string]any
	}{
		{
			name:     "pay_vendor_pattern",
			query:    "How much did we pay AWS last month?",
			wantTool: tools.ToolQueryExpenses,
			wantArgs: map[string]any{"vendor": "aws"},
		},
		{
			name:     "spend_on_vendor_pattern",
			query:    "What did we spend on Google Ads?",
			wantTool: tools.ToolQueryExpenses,
			wantArgs: map[string]any{"vendor": "google ads"},
		},
		{
			name:     "category_pattern_capitalizes",
			query:    "show me all marketing expenses",
			wantTool: tools.ToolQueryExpenses,
			wantArgs: map[string]any{"category": "Marketing"},
		},
		{
			name:     "revenue_from_client",
			query:    "revenue from GlobalTech Industries?",
			wantTool: tools.ToolQueryRevenue,
			wantArgs: map[string]any{"client": "globaltech industries"},
		},
		{
			name:     "earnings_pattern",
			query:    "how much did we make from Meridian Health?",
			wantTool: tools.ToolQueryRevenue,
			wantArgs: map[string]any{"client": "meridian health"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KeywordFallback(tt.query, catalog)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantTool, got.Name)
			assert.Equal(t, tt.wantArgs, got.Arguments)
		})
	}
}

func TestKeywordFallback_NoMatch(t *testing.T) {
	assert.Nil(t, KeywordFallback("hello there", tools.Catalog()))
}

func TestKeywordFallback_TooShortExtract(t *testing.T) {
	assert.Nil(t, KeywordFallback("spend on x?", tools.Catalog()))
}

// The fallback must not propose tools the narrowing stage removed.
func TestKeywordFallback_RespectsCatalog(t *testing.T) {
	var narrowed []tools.Tool
	for _, tool := range tools.Catalog() {
		if tool.Name == tools.ToolGetBudgetStatus {
			narrowed = append(narrowed, tool)
		}
	}
	assert.Nil(t, KeywordFallback("how much did we pay AWS?", narrowed))
}
