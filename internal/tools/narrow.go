// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// NARROW: Keyword pre-router shrinking the catalog per query
package tools

import (
	"regexp"
	"strings"

	"github.com/jeranaias/cloudnein/internal/pii"
)

// narrowRule maps a query keyword pattern to the tool subset it implies.
// Rules are tried in order; the first hit wins.
type narrowRule struct {
	re    *regexp.Regexp
	tools []string
}

var narrowRules = []narrowRule{
	{
		re:    regexp.MustCompile(`budget|over\s?budget|under\s?budget|remaining|limit`),
		tools: []string{ToolGetBudgetStatus, ToolQueryExpenses},
	},
	{
		re:    regexp.MustCompile(`wire|approv|pending|transfer|authorize`),
		tools: []string{ToolGetWireApprovals, ToolQueryExpenses},
	},
	{
		re:    regexp.MustCompile(`revenue|income|sales|client|segment|arr|mrr|enterprise|mid.market|smb`),
		tools: []string{ToolQueryRevenue, ToolQueryExpenses},
	},
	{
		re:    regexp.MustCompile(`spend|expense|cost|pay|paid|vendor|total|how much`),
		tools: []string{ToolQueryExpenses, ToolGetBudgetStatus},
	},
	{
		re:    regexp.MustCompile(`ssn|social security|credit card|account number|redact`),
		tools: []string{ToolDetectPII, ToolRedactAndAnalyze},
	},
}

// defaultNarrow is the fallback subset when no rule matches: the four data
// tools, no cloud surface.
var defaultNarrow = []string{
	ToolQueryExpenses, ToolGetBudgetStatus, ToolQueryRevenue, ToolGetWireApprovals,
}

// Narrow returns the subset of available tools the query plausibly needs.
// Tools named by the winning rule but absent from available are skipped,
// so narrowing composes with FilterBySensitivity.
func Narrow(query string, available []Tool) []Tool {
	q := strings.ToLower(query)

	byName := make(map[string]Tool, len(available))
	for _, t := range available {
		byName[t.Name] = t
	}

	pick := func(names []string) []Tool {
		out := make([]Tool, 0, len(names))
		for _, n := range names {
			if t, ok := byName[n]; ok {
				out = append(out, t)
			}
		}
		return out
	}

	for _, rule := range narrowRules {
		if rule.re.MatchString(q) {
			return pick(rule.tools)
		}
	}
	return pick(defaultNarrow)
}

// FilterBySensitivity removes cloud_analyze from the catalog for Medium and
// High sensitivity queries. The redaction tools stay available; they are the
// sanctioned route to the cloud for sensitive content.
func FilterBySensitivity(available []Tool, level pii.Sensitivity) []Tool {
	if level < pii.SensitivityMedium {
		return available
	}
	out := make([]Tool, 0, len(available))
	for _, t := range available {
		if t.Name != ToolCloudAnalyze {
			out = append(out, t)
		}
	}
	return out
}
