// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"regexp"
	"strings"
)

// =============================================================================
// QUERY CLASSIFICATION
// =============================================================================

// QueryKind is the complexity class of a query: a plain data lookup the
// local tools can answer, or an analytical question that needs reasoning.
type QueryKind int

const (
	KindDataLookup QueryKind = iota
	KindAdvisory
	KindCausal
	KindComparison
	KindTrend
	KindAction
	KindSummary
)

// Analytical reports whether this kind needs reasoning rather than just
// data retrieval.
func (k QueryKind) Analytical() bool {
	return k != KindDataLookup
}

// Classification is the result of classifying one query.
type Classification struct {
	Kind   QueryKind
	Reason string
}

// classifierRules are checked in order; first match wins. Ordering matters:
// "should we cut marketing?" is advisory, not action, because the advisory
// pattern is checked first.
var classifierRules = []struct {
	kind    QueryKind
	reason  string
	pattern *regexp.Regexp
}{
	{KindAdvisory, "advisory/strategic question",
		regexp.MustCompile(`should\s+(we|i)|recommend|advice|suggest|optimize|strategy`)},
	{KindCausal, "causal reasoning question",
		regexp.MustCompile(`why\s+(is|are|did|do|was)|explain|reason|cause`)},
	{KindComparison, "comparison question",
		regexp.MustCompile(`compare|versus|vs\.?|better|worse|difference`)},
	{KindTrend, "trend/forecast question",
		regexp.MustCompile(`trend|forecast|predict|project|next\s+(month|quarter|year)`)},
	{KindAction, "action/optimization question",
		regexp.MustCompile(`cut|reduce|increase|grow|improve|risk|opportunity`)},
	{KindSummary, "summary/insight request",
		regexp.MustCompile(`summary|summarize|overview|report|insight`)},
}

// Classify determines whether a query is a plain data lookup or one of the
// analytical kinds that warrant cloud reasoning.
func Classify(query string) Classification {
	lower := strings.ToLower(query)
	for _, rule := range classifierRules {
		if rule.pattern.MatchString(lower) {
			return Classification{Kind: rule.kind, Reason: rule.reason}
		}
	}
	return Classification{Kind: KindDataLookup, Reason: "data retrieval question"}
}
