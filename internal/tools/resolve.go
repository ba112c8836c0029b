// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// RESOLVE: Repair of model-produced tool names and arguments
package tools

import "strings"

// toolAliases maps frequent small-model misspellings and truncations to
// canonical tool names.
var toolAliases = map[string]string{
	"get_wire_approval":   ToolGetWireApprovals,
	"wire_approvals":      ToolGetWireApprovals,
	"budget_status":       ToolGetBudgetStatus,
	"expenses":            ToolQueryExpenses,
	"revenue":             ToolQueryRevenue,
	"detect_pii_entities": ToolDetectPII,
	"redact":              ToolRedactAndAnalyze,
	"cloud":               ToolCloudAnalyze,
}

// ResolveName maps a model-produced tool name to its canonical form.
// Unknown names pass through unchanged; the executor reports them.
func ResolveName(name string) string {
	if canonical, ok := toolAliases[name]; ok {
		return canonical
	}
	return name
}

// argRule moves a misplaced argument when its value belongs to another
// parameter's domain.
type argRule struct {
	tool    string
	from    string
	to      string
	applies func(value string) bool
}

var argRules = []argRule{
	// Small models pass segment values ("enterprise") as the client name.
	{
		tool: ToolQueryRevenue,
		from: "client",
		to:   "segment",
		applies: func(v string) bool {
			switch strings.ToLower(v) {
			case "enterprise", "mid-market", "smb":
				return true
			}
			return false
		},
	},
}

// NormalizeArgs applies the repair rules for a resolved tool name and
// returns a corrected copy of the arguments. The input map is not modified.
func NormalizeArgs(name string, args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}

	for _, rule := range argRules {
		if rule.tool != name {
			continue
		}
		v, ok := out[rule.from].(string)
		if !ok || !rule.applies(v) {
			continue
		}
		out[rule.to] = strings.ToLower(v)
		delete(out, rule.from)
	}
	return out
}
