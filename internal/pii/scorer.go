// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// SCORER: Sensitivity classification from entities and keyword density
package pii

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultKeywords is the financial keyword set used when no configured set
// is supplied. Keywords match as whole words only; "account" does not fire
// inside "accounting".
var DefaultKeywords = []string{
	"salary", "payroll", "ssn", "social security", "bank", "account",
	"routing", "confidential", "secret", "acquisition", "compensation",
}

// Scorer classifies text sensitivity. Safe for concurrent use.
type Scorer struct {
	keywords *regexp.Regexp
}

// NewScorer builds a scorer around the given keyword set. A nil or empty
// set falls back to DefaultKeywords.
func NewScorer(keywords []string) *Scorer {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(k))
	}
	// Anchored per alternative so multi-word keys ("social security") bound
	// at their own edges.
	return &Scorer{
		keywords: regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`),
	}
}

// Score returns the sensitivity level for text with its detected entities.
//
// Rules, in order:
//  1. Any high-risk entity (SSN, card, account number) -> High
//  2. Three or more entities -> High
//  3. Two or more financial keyword hits -> High
//  4. At least one entity -> Medium
//  5. Exactly one keyword hit -> Medium
//  6. Otherwise -> Low
func (s *Scorer) Score(text string, entities []Entity) Sensitivity {
	for _, e := range entities {
		if e.Type.HighRisk() {
			return SensitivityHigh
		}
	}
	if len(entities) >= 3 {
		return SensitivityHigh
	}

	hits := len(s.keywords.FindAllStringIndex(normalizeForScan(text), -1))
	if hits >= 2 {
		return SensitivityHigh
	}
	if len(entities) >= 1 {
		return SensitivityMedium
	}
	if hits == 1 {
		return SensitivityMedium
	}
	return SensitivityLow
}

// normalizeForScan applies NFKD decomposition, strips combining marks, and
// lowercases, so accented lookalikes ("sälary") still hit the keyword table.
func normalizeForScan(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	normalized, _, err := transform.String(t, text)
	if err != nil {
		normalized = text
	}
	return strings.ToLower(normalized)
}
