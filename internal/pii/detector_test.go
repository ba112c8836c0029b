// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pii

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_SingleEntities(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name      string
		text      string
		wantType  EntityType
		wantValue string
	}{
		{
			name:      "ssn_detected",
			text:      "My SSN is 123-45-6789",
			wantType:  TypeSSN,
			wantValue: "123-45-6789",
		},
		{
			name:      "email_detected",
			text:      "reach me at jane.doe+tax@example.com today",
			wantType:  TypeEmail,
			wantValue: "jane.doe+tax@example.com",
		},
		{
			name:      "phone_detected",
			text:      "call me at 555-123-4567",
			wantType:  TypePhone,
			wantValue: "555-123-4567",
		},
		{
			name:      "credit_card_with_dashes",
			text:      "charge 1234-5678-9012-3456 for it",
			wantType:  TypeCreditCard,
			wantValue: "1234-5678-9012-3456",
		},
		{
			name:      "account_number_with_prefix",
			text:      "wire from acct #12345678 please",
			wantType:  TypeAccountNumber,
			wantValue: "acct #12345678",
		},
		{
			name:      "account_number_spelled_out",
			text:      "the Account 987654321 is frozen",
			wantType:  TypeAccountNumber,
			wantValue: "Account 987654321",
		},
		{
			name:      "person_name_first_and_last",
			text:      "Send the report to Alice Johnson",
			wantType:  TypePersonName,
			wantValue: "Alice Johnson",
		},
		{
			name:      "person_name_first_only",
			text:      "did we pay Bob yet",
			wantType:  TypePersonName,
			wantValue: "Bob",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities := d.Detect(tt.text)
			require.Len(t, entities, 1)
			assert.Equal(t, tt.wantType, entities[0].Type)
			assert.Equal(t, tt.wantValue, entities[0].Value)
		})
	}
}

func TestDetect_NoFalsePositives(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name string
		text string
	}{
		{name: "plain_question", text: "how much did we spend on software last month?"},
		{name: "capitalized_non_names", text: "The Quarterly Report is ready"},
		{name: "short_digit_run", text: "invoice 12345"},
		{name: "empty_text", text: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, d.Detect(tt.text))
		})
	}
}

func TestDetect_SpansAreRuneIndices(t *testing.T) {
	d := NewDetector()

	// "Café" contains a multi-byte rune before the name.
	entities := d.Detect("Café owner Bob paid cash")
	require.Len(t, entities, 1)
	assert.Equal(t, TypePersonName, entities[0].Type)
	assert.Equal(t, 11, entities[0].Start)
	assert.Equal(t, 14, entities[0].End)

	// Span slices back out of the rune sequence exactly.
	runes := []rune("Café owner Bob paid cash")
	assert.Equal(t, "Bob", string(runes[entities[0].Start:entities[0].End]))
}

func TestDetect_OverlapsDeduplicated(t *testing.T) {
	d := NewDetector()

	// Digit runs inside a card number must not surface as extra entities.
	entities := d.Detect("use 1234 5678 9012 3456 for the deposit")
	require.Len(t, entities, 1)
	assert.Equal(t, TypeCreditCard, entities[0].Type)
}

func TestDetect_MultipleEntitiesSorted(t *testing.T) {
	d := NewDetector()

	entities := d.Detect("Alice Johnson (SSN 123-45-6789, email alice@corp.com)")
	require.Len(t, entities, 3)

	assert.Equal(t, TypePersonName, entities[0].Type)
	assert.Equal(t, TypeSSN, entities[1].Type)
	assert.Equal(t, TypeEmail, entities[2].Type)

	for i := 1; i < len(entities); i++ {
		assert.GreaterOrEqual(t, entities[i].Start, entities[i-1].End,
			"entities must be non-overlapping and ordered")
	}
}
