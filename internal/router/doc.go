// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router implements the hybrid routing pipeline that decides, per
// query, whether work happens on-device or in the cloud, and in what form.
//
// Every query runs a five stage pipeline:
//
//	Stage 0: PII detection + sensitivity scoring (always, instant)
//	Stage 1: Complexity classification (data-lookup vs analytical)
//	Stage 2: Tool narrowing (keyword pre-router, 7 tools down to 2-3)
//	Stage 3: Local model tool calling (on-device)
//	Stage 4: Execution (local SQL) or cloud reasoning
//
// which resolves to one of five routing paths:
//
//	privacy-redact   PII found, redact locally before any cloud contact
//	cloud-analysis   analytical question, anonymized context to the cloud
//	local-tool       local model picked a tool, executed locally
//	cloud-tool       local model uncertain, cloud picks the tool,
//	                 execution stays local
//	local-fallback   models failed, keyword extraction picks the tool
//
// For the cloud-analysis path the router builds a reversible alias map of
// every vendor, client, and employee name before anything leaves the device.
// The cloud model reasons over Vendor_A and Client_B; the map that reverses
// them never leaves the process.
//
// # Key Types
//
//   - Router: The pipeline orchestrator
//   - HybridResult: Response plus full routing metadata
//   - RoutingPath: Which of the five paths served the query
//
// # Usage
//
//	r := router.New(localClient, cloudClient, executor, store, router.DefaultConfig())
//	result, err := r.Route(ctx, "why is marketing over budget?")
package router
