// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// CATALOG: Financial tool definitions (JSON Schema)
package tools

// Tool names. These are the canonical identifiers; ResolveName maps model
// near-misses onto them.
const (
	ToolQueryExpenses    = "query_expenses"
	ToolGetBudgetStatus  = "get_budget_status"
	ToolQueryRevenue     = "query_revenue"
	ToolGetWireApprovals = "get_wire_approvals"
	ToolDetectPII        = "detect_pii"
	ToolRedactAndAnalyze = "redact_and_analyze"
	ToolCloudAnalyze     = "cloud_analyze"
)

// Tool defines a callable tool's interface.
type Tool struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  Parameters `json:"parameters"`
}

// Parameters is the JSON-Schema object describing a tool's arguments.
type Parameters struct {
	Type       string              `json:"type"` // always "object"
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes a single argument.
type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Enum        []string `json:"enum,omitempty"`
}

// Call is a requested tool invocation as produced by a model backend.
type Call struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// StringArg returns the named argument as a string, or "" when absent or
// of another type.
func (c Call) StringArg(key string) string {
	if v, ok := c.Arguments[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Catalog returns the full seven-tool catalog. The returned slice is fresh
// on each call; callers may filter it freely.
func Catalog() []Tool {
	return []Tool{
		{
			Name:        ToolQueryExpenses,
			Description: "Query company expenses, optionally filtered by category, vendor, or date range",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"category":   {Type: "string", Description: "Expense category, e.g. Engineering, Legal, Payroll"},
					"vendor":     {Type: "string", Description: "Vendor name or part of it"},
					"start_date": {Type: "string", Description: "Earliest date, YYYY-MM-DD"},
					"end_date":   {Type: "string", Description: "Latest date, YYYY-MM-DD"},
				},
			},
		},
		{
			Name:        ToolGetBudgetStatus,
			Description: "Get spend versus monthly budget limits, per category or for all categories",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"category": {Type: "string", Description: "Budget category; omit for all"},
				},
			},
		},
		{
			Name:        ToolQueryRevenue,
			Description: "Query revenue records, optionally filtered by client, segment, or date range",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"client":     {Type: "string", Description: "Client name or part of it"},
					"segment":    {Type: "string", Description: "Market segment", Enum: []string{"enterprise", "mid-market", "smb"}},
					"start_date": {Type: "string", Description: "Earliest date, YYYY-MM-DD"},
					"end_date":   {Type: "string", Description: "Latest date, YYYY-MM-DD"},
				},
			},
		},
		{
			Name:        ToolGetWireApprovals,
			Description: "List wire transfer approvals, optionally filtered by status or vendor",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"status": {Type: "string", Description: "Approval status", Enum: []string{"pending", "approved", "rejected"}},
					"vendor": {Type: "string", Description: "Vendor name to scope the report to"},
				},
			},
		},
		{
			Name:        ToolDetectPII,
			Description: "Detect personally identifiable information in a piece of text",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"text": {Type: "string", Description: "Text to scan"},
				},
				Required: []string{"text"},
			},
		},
		{
			Name:        ToolRedactAndAnalyze,
			Description: "Redact PII from text, then send the redacted text to the cloud for analysis",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"text":     {Type: "string", Description: "Text containing sensitive data"},
					"question": {Type: "string", Description: "Question to answer about the text"},
				},
				Required: []string{"text"},
			},
		},
		{
			Name:        ToolCloudAnalyze,
			Description: "Send a non-sensitive question to the cloud model for general financial advice",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"question": {Type: "string", Description: "Question to ask"},
				},
				Required: []string{"question"},
			},
		},
	}
}

// =============================================================================
// PROVENANCE
// =============================================================================

// Source records where a result's content came from.
type Source int

const (
	// SourceOnDevice means everything ran locally.
	SourceOnDevice Source = iota
	// SourceCloud means raw (non-sensitive) content reached the cloud.
	SourceCloud
	// SourceRedactedCloud means only redacted content reached the cloud.
	SourceRedactedCloud
)

// String returns the wire name of the source.
func (s Source) String() string {
	switch s {
	case SourceOnDevice:
		return "on-device"
	case SourceCloud:
		return "cloud"
	case SourceRedactedCloud:
		return "redacted-cloud"
	default:
		return "unknown"
	}
}
