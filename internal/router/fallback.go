// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"log"
	"regexp"
	"strings"

	"github.com/jeranaias/cloudnein/internal/tools"
)

// =============================================================================
// KEYWORD FALLBACK
// =============================================================================

// Fallback patterns for when no model produces a usable tool call. Each
// extracts an entity from the query text and maps it onto a tool argument.
var (
	payPattern = regexp.MustCompile(
		`(?:pay|paid|spend|spent)\s+(?:on\s+|to\s+|with\s+|for\s+)?(.+?)(?:\?|$|\.|last|this)`)
	categoryPattern = regexp.MustCompile(
		`(?:show|list|get)\s+(?:me\s+)?(?:all\s+)?(\w+)\s+expense`)
	revenuePattern = regexp.MustCompile(
		`(?:revenue|income|sales|arr|mrr)\s+(?:from|for|of|with)\s+(.+?)(?:\?|$|\.|last|this)`)
	earningsPattern = regexp.MustCompile(
		`(?:how much|what)\s+(?:did\s+)?(?:we\s+)?(?:make|earn|get|receive)\s+(?:from|for|with)\s+(.+?)(?:\?|$|\.|last|this)`)

	extractCleaner = strings.NewReplacer("?", "", `"`, "")
)

// cleanExtract trims and strips quote noise from a captured entity. Too-short
// captures are discarded.
func cleanExtract(raw string) (string, bool) {
	s := extractCleaner.Replace(strings.TrimSpace(raw))
	return s, len(s) > 1
}

// KeywordFallback extracts a tool call from the query by keyword patterns.
// It only proposes tools present in the narrowed catalog. Returns nil when
// no pattern matches.
func KeywordFallback(query string, catalog []tools.Tool) *tools.Call {
	lower := strings.ToLower(query)
	available := make(map[string]bool, len(catalog))
	for _, t := range catalog {
		available[t.Name] = true
	}

	if m := payPattern.FindStringSubmatch(lower); m != nil && available[tools.ToolQueryExpenses] {
		if vendor, ok := cleanExtract(m[1]); ok {
			log.Printf("FALLBACK: extracted vendor %q from pay/spend pattern", vendor)
			return &tools.Call{Name: tools.ToolQueryExpenses, Arguments: map[string]any{"vendor": vendor}}
		}
	}

	if m := categoryPattern.FindStringSubmatch(lower); m != nil && available[tools.ToolQueryExpenses] {
		category := strings.ToUpper(m[1][:1]) + m[1][1:]
		log.Printf("FALLBACK: extracted category %q from expense pattern", category)
		return &tools.Call{Name: tools.ToolQueryExpenses, Arguments: map[string]any{"category": category}}
	}

	if m := revenuePattern.FindStringSubmatch(lower); m != nil && available[tools.ToolQueryRevenue] {
		if client, ok := cleanExtract(m[1]); ok {
			log.Printf("FALLBACK: extracted client %q from revenue pattern", client)
			return &tools.Call{Name: tools.ToolQueryRevenue, Arguments: map[string]any{"client": client}}
		}
	}

	if m := earningsPattern.FindStringSubmatch(lower); m != nil && available[tools.ToolQueryRevenue] {
		if client, ok := cleanExtract(m[1]); ok {
			log.Printf("FALLBACK: extracted client %q from earnings pattern", client)
			return &tools.Call{Name: tools.ToolQueryRevenue, Arguments: map[string]any{"client": client}}
		}
	}

	return nil
}
