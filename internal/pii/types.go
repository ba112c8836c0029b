// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pii

// =============================================================================
// ENTITY TYPES
// =============================================================================

// EntityType identifies the kind of sensitive value a span holds.
type EntityType int

const (
	// TypeSSN is a US social security number.
	TypeSSN EntityType = iota
	// TypeEmail is an email address.
	TypeEmail
	// TypePhone is a US phone number in common formats.
	TypePhone
	// TypeCreditCard is a 16-digit card number.
	TypeCreditCard
	// TypeAccountNumber is a bank account reference ("acct #123456").
	TypeAccountNumber
	// TypePersonName is a dictionary-matched person name.
	TypePersonName
	// TypeVendor is a vendor name registered from local financial context.
	TypeVendor
	// TypeClient is a client name registered from local financial context.
	TypeClient
	// TypeEmployee is an employee name registered from local financial context.
	TypeEmployee
)

// String returns the canonical wire name for the entity type.
func (t EntityType) String() string {
	switch t {
	case TypeSSN:
		return "SSN"
	case TypeEmail:
		return "EMAIL"
	case TypePhone:
		return "PHONE"
	case TypeCreditCard:
		return "CREDIT_CARD"
	case TypeAccountNumber:
		return "ACCOUNT_NUMBER"
	case TypePersonName:
		return "PERSON_NAME"
	case TypeVendor:
		return "VENDOR"
	case TypeClient:
		return "CLIENT"
	case TypeEmployee:
		return "EMPLOYEE"
	default:
		return "UNKNOWN"
	}
}

// HighRisk reports whether a single entity of this type is enough to
// classify the surrounding text as highly sensitive.
func (t EntityType) HighRisk() bool {
	switch t {
	case TypeSSN, TypeCreditCard, TypeAccountNumber:
		return true
	default:
		return false
	}
}

// Entity is a detected sensitive span within a query.
// Start and End are rune indices, half-open [Start, End).
type Entity struct {
	Type  EntityType
	Value string
	Start int
	End   int
}

// =============================================================================
// SENSITIVITY LEVELS
// =============================================================================

// Sensitivity is the overall sensitivity classification of a query.
type Sensitivity int

const (
	// SensitivityLow means no detected entities and no financial keywords.
	SensitivityLow Sensitivity = iota
	// SensitivityMedium means some PII or a single financial keyword.
	SensitivityMedium
	// SensitivityHigh means high-risk identifiers, dense PII, or repeated
	// financial keywords. High always forces redaction before cloud use.
	SensitivityHigh
)

// String returns the human-readable name of the sensitivity level.
func (s Sensitivity) String() string {
	switch s {
	case SensitivityLow:
		return "LOW"
	case SensitivityMedium:
		return "MEDIUM"
	case SensitivityHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}
