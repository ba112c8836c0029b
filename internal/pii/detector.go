// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// DETECTOR: Deterministic regex + dictionary PII detection
package pii

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// ============================================================================
// PATTERN TABLE
// ============================================================================

// matcher pairs an entity type with its compiled pattern.
// Order matters: earlier matchers win ties during deduplication.
type matcher struct {
	typ EntityType
	re  *regexp.Regexp
}

var matchers = []matcher{
	{TypeSSN, regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{TypeEmail, regexp.MustCompile(`\b[\w.+-]+@[\w.-]+\.\w{2,}\b`)},
	{TypePhone, regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)},
	{TypeCreditCard, regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)},
	{TypeAccountNumber, regexp.MustCompile(`(?i)\b(?:acct?\.?|account)\s*#?\s*\d{6,12}\b`)},
}

// namePattern matches one or two adjacent capitalized words. Candidates are
// confirmed against the common-name dictionary before being reported, so
// ordinary capitalized words (sentence starts, product names) pass through.
var namePattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\b`)

// commonNames is the confirmation dictionary for the person-name pass.
// Frequent US first and last names, lowercase.
var commonNames = map[string]struct{}{}

func init() {
	for _, n := range []string{
		"james", "john", "robert", "michael", "david", "william", "richard",
		"joseph", "thomas", "charles", "mary", "patricia", "jennifer", "linda",
		"elizabeth", "barbara", "susan", "jessica", "sarah", "karen", "alice",
		"bob", "tom", "jake", "emma", "lisa", "dave",
		"smith", "johnson", "williams", "brown", "jones", "garcia", "miller",
		"davis", "rodriguez", "martinez",
	} {
		commonNames[n] = struct{}{}
	}
}

// ============================================================================
// DETECTOR
// ============================================================================

// Detector finds sensitive spans in text. Zero-value is not usable; create
// with NewDetector. Safe for concurrent use.
type Detector struct {
	matchers []matcher
	names    *regexp.Regexp
	dict     map[string]struct{}
}

// NewDetector returns a detector with the built-in pattern table and
// common-name dictionary.
func NewDetector() *Detector {
	return &Detector{
		matchers: matchers,
		names:    namePattern,
		dict:     commonNames,
	}
}

// Detect returns all sensitive spans in text, sorted by start position with
// overlaps removed (longest match wins at each position). Positions are rune
// indices, half-open.
func (d *Detector) Detect(text string) []Entity {
	var found []Entity

	for _, m := range d.matchers {
		for _, loc := range m.re.FindAllStringIndex(text, -1) {
			found = append(found, Entity{
				Type:  m.typ,
				Value: text[loc[0]:loc[1]],
				Start: runeOffset(text, loc[0]),
				End:   runeOffset(text, loc[1]),
			})
		}
	}

	for _, loc := range d.names.FindAllStringIndex(text, -1) {
		candidate := text[loc[0]:loc[1]]
		if !d.isKnownName(candidate) {
			continue
		}
		found = append(found, Entity{
			Type:  TypePersonName,
			Value: candidate,
			Start: runeOffset(text, loc[0]),
			End:   runeOffset(text, loc[1]),
		})
	}

	return dedupe(found)
}

// isKnownName reports whether any word of the candidate is in the dictionary.
// A match on either the first or last name is enough: "Alice Hendricks"
// is confirmed by "alice" alone.
func (d *Detector) isKnownName(candidate string) bool {
	for _, w := range strings.Fields(candidate) {
		if _, ok := d.dict[strings.ToLower(w)]; ok {
			return true
		}
	}
	return false
}

// dedupe sorts entities by start ascending (longest first on ties) and drops
// any entity overlapping one already kept. A phone-shaped tail inside a card
// number is discarded here rather than special-cased in the patterns.
func dedupe(entities []Entity) []Entity {
	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].Start != entities[j].Start {
			return entities[i].Start < entities[j].Start
		}
		return entities[i].End > entities[j].End
	})

	kept := entities[:0]
	lastEnd := -1
	for _, e := range entities {
		if e.Start < lastEnd {
			continue
		}
		kept = append(kept, e)
		lastEnd = e.End
	}
	return kept
}

// runeOffset converts a byte offset into a rune offset.
func runeOffset(text string, byteOff int) int {
	return utf8.RuneCountInString(text[:byteOff])
}
