// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"github.com/jeranaias/cloudnein/internal/tools"
)

// =============================================================================
// CONFIDENCE ESTIMATION
// =============================================================================

// EstimateConfidence scores how trustworthy the local model's tool calls
// are against the narrowed catalog. No calls at all scores 0.1; a call
// naming a tool outside the catalog (even after alias resolution) scores
// 0.15. Otherwise the base is 0.7, minus 0.3 per call missing a required
// argument, plus 0.15 when the model committed to exactly one call.
func EstimateConfidence(calls []tools.Call, catalog []tools.Tool) float64 {
	if len(calls) == 0 {
		return 0.1
	}

	byName := make(map[string]tools.Tool, len(catalog))
	for _, t := range catalog {
		byName[t.Name] = t
	}

	for _, call := range calls {
		if _, ok := byName[call.Name]; ok {
			continue
		}
		if _, ok := byName[tools.ResolveName(call.Name)]; !ok {
			return 0.15
		}
	}

	confidence := 0.7
	for _, call := range calls {
		tool, ok := byName[call.Name]
		if !ok {
			tool, ok = byName[tools.ResolveName(call.Name)]
		}
		if !ok {
			continue
		}
		for _, key := range tool.Parameters.Required {
			if _, present := call.Arguments[key]; !present {
				confidence -= 0.3
				break
			}
		}
	}

	if len(calls) == 1 {
		confidence += 0.15
	}

	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}
