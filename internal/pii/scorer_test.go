// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pii

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	s := NewScorer(nil)

	tests := []struct {
		name     string
		text     string
		entities []Entity
		want     Sensitivity
	}{
		{
			name:     "ssn_always_high",
			text:     "my number is 123-45-6789",
			entities: []Entity{{Type: TypeSSN, Value: "123-45-6789"}},
			want:     SensitivityHigh,
		},
		{
			name:     "credit_card_always_high",
			text:     "card on file",
			entities: []Entity{{Type: TypeCreditCard}},
			want:     SensitivityHigh,
		},
		{
			name: "three_entities_high",
			text: "Alice, Bob and Tom",
			entities: []Entity{
				{Type: TypePersonName, Value: "Alice"},
				{Type: TypePersonName, Value: "Bob"},
				{Type: TypePersonName, Value: "Tom"},
			},
			want: SensitivityHigh,
		},
		{
			name: "two_keywords_high",
			text: "pull the payroll and salary report",
			want: SensitivityHigh,
		},
		{
			name:     "single_name_medium",
			text:     "did we pay Bob",
			entities: []Entity{{Type: TypePersonName, Value: "Bob"}},
			want:     SensitivityMedium,
		},
		{
			name: "single_keyword_medium",
			text: "is Monday a bank holiday",
			want: SensitivityMedium,
		},
		{
			name: "clean_text_low",
			text: "what did we spend on software",
			want: SensitivityLow,
		},
		{
			name: "keyword_substrings_do_not_count",
			text: "summarize our accounting processes and trade secrets",
			want: SensitivityLow,
		},
		{
			name: "multi_word_keyword_matches_whole",
			text: "update the social security records and bank details",
			want: SensitivityHigh,
		},
		{
			name: "empty_text_low",
			text: "",
			want: SensitivityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Score(tt.text, tt.entities))
		})
	}
}

func TestScore_NormalizesLookalikes(t *testing.T) {
	s := NewScorer(nil)

	// Accented characters decompose to the plain keyword.
	assert.Equal(t, SensitivityMedium, s.Score("sälary review next week", nil))
	assert.Equal(t, SensitivityHigh, s.Score("sälary and payröll numbers", nil))
}

func TestScore_CustomKeywords(t *testing.T) {
	s := NewScorer([]string{"merger", "layoff"})

	assert.Equal(t, SensitivityHigh, s.Score("merger before the layoff", nil))
	// Default keywords no longer apply.
	assert.Equal(t, SensitivityLow, s.Score("payroll and salary", nil))
}
