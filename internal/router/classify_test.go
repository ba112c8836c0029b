// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantKind   QueryKind
		wantReason string
	}{
		{
			name:       "advisory_question",
			query:      "Should we cut marketing spend?",
			wantKind:   KindAdvisory,
			wantReason: "advisory/strategic question",
		},
		{
			name:       "causal_question",
			query:      "Why is legal over budget?",
			wantKind:   KindCausal,
			wantReason: "causal reasoning question",
		},
		{
			name:       "comparison_question",
			query:      "Compare engineering versus marketing spend",
			wantKind:   KindComparison,
			wantReason: "comparison question",
		},
		{
			name:       "trend_question",
			query:      "What is the revenue forecast for next quarter?",
			wantKind:   KindTrend,
			wantReason: "trend/forecast question",
		},
		{
			name:       "action_question",
			query:      "Where can we reduce burn?",
			wantKind:   KindAction,
			wantReason: "action/optimization question",
		},
		{
			name:       "summary_request",
			query:      "Give me an overview of February",
			wantKind:   KindSummary,
			wantReason: "summary/insight request",
		},
		{
			name:       "data_lookup",
			query:      "How much did we spend on AWS?",
			wantKind:   KindDataLookup,
			wantReason: "data retrieval question",
		},
		{
			name:       "show_expenses_is_lookup",
			query:      "Show me all legal expenses",
			wantKind:   KindDataLookup,
			wantReason: "data retrieval question",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.query)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantReason, got.Reason)
		})
	}
}

// "should we cut" contains both the advisory and the action keywords; the
// advisory rule must win because it is checked first.
func TestClassify_RuleOrder(t *testing.T) {
	got := Classify("should we cut the marketing budget?")
	assert.Equal(t, KindAdvisory, got.Kind)
}

func TestQueryKind_Analytical(t *testing.T) {
	assert.False(t, KindDataLookup.Analytical())
	for _, k := range []QueryKind{KindAdvisory, KindCausal, KindComparison, KindTrend, KindAction, KindSummary} {
		assert.True(t, k.Analytical())
	}
}
