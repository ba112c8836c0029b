// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// EXECUTOR: Tool call dispatch against the local ledger
package tools

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/jeranaias/cloudnein/internal/anonymize"
	"github.com/jeranaias/cloudnein/internal/ledger"
	"github.com/jeranaias/cloudnein/internal/pii"
	"github.com/jeranaias/cloudnein/internal/util"
)

// Display caps keep tool output readable in a terminal.
const (
	maxExpenseLines = 12
	maxHistoryLines = 10
	previewRunes    = 200
)

// Analyzer is the minimal cloud surface the executor needs: one prompt in,
// one completion out. The concrete client lives in internal/cloud.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

// Result is the outcome of executing one tool call.
type Result struct {
	Output          string
	Source          Source
	PIIDetected     int
	RedactedPreview string
}

// Executor dispatches tool calls. Data tools hit the ledger; privacy tools
// run the detector and, when allowed, the cloud analyzer.
type Executor struct {
	store    *ledger.Store
	detector *pii.Detector
	scorer   *pii.Scorer
	cloud    Analyzer
}

// NewExecutor wires an executor. cloud may be nil; cloud-backed tools then
// report failure in their output instead of calling out.
func NewExecutor(store *ledger.Store, detector *pii.Detector, scorer *pii.Scorer, cloud Analyzer) *Executor {
	return &Executor{store: store, detector: detector, scorer: scorer, cloud: cloud}
}

// Execute runs one call. Names and arguments are repaired first; an
// unrecognized tool produces an explanatory result, never an error. All
// faults are folded into the Result so the pipeline always has output.
func (x *Executor) Execute(ctx context.Context, call Call) *Result {
	name := ResolveName(call.Name)
	args := NormalizeArgs(name, call.Arguments)
	fixed := Call{Name: name, Arguments: args}

	if name != call.Name {
		log.Printf("EXEC: tool %s resolved to %s", call.Name, name)
	}

	switch name {
	case ToolQueryExpenses:
		return x.queryExpenses(ctx, fixed)
	case ToolGetBudgetStatus:
		return x.budgetStatus(ctx, fixed)
	case ToolQueryRevenue:
		return x.queryRevenue(ctx, fixed)
	case ToolGetWireApprovals:
		return x.wireApprovals(ctx, fixed)
	case ToolDetectPII:
		return x.detectPII(fixed)
	case ToolRedactAndAnalyze:
		return x.redactAndAnalyze(ctx, fixed)
	case ToolCloudAnalyze:
		return x.cloudAnalyze(ctx, fixed)
	default:
		return &Result{Output: fmt.Sprintf("Unknown tool: %s", name), Source: SourceOnDevice}
	}
}

// =============================================================================
// DATA TOOLS
// =============================================================================

func (x *Executor) queryExpenses(ctx context.Context, call Call) *Result {
	category := call.StringArg("category")
	vendor := call.StringArg("vendor")
	start := call.StringArg("start_date")
	end := call.StringArg("end_date")

	// Vendor-only queries get the richer history view with pending wires.
	if vendor != "" && category == "" && start == "" && end == "" {
		return x.vendorHistory(ctx, vendor)
	}

	expenses, err := x.store.QueryExpenses(ctx, ledger.ExpenseFilter{
		Category: category, Vendor: vendor, StartDate: start, EndDate: end,
	})
	if err != nil {
		return errorResult(err)
	}
	total, err := x.store.TotalSpend(ctx, category)
	if err != nil {
		return errorResult(err)
	}

	if len(expenses) == 0 {
		filter := category
		if filter == "" {
			filter = vendor
		}
		if filter == "" {
			filter = "all categories"
		}
		return &Result{Output: fmt.Sprintf("No expenses found for %s.", filter), Source: SourceOnDevice}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d expense(s)", len(expenses))
	if category != "" {
		fmt.Fprintf(&b, " in %s", category)
	}
	if vendor != "" {
		fmt.Fprintf(&b, " from %s", vendor)
	}
	if start != "" || end != "" {
		fmt.Fprintf(&b, " (%s to %s)", orElse(start, "..."), orElse(end, "now"))
	}
	fmt.Fprintf(&b, ".\nTotal: $%.2f\n\n", total)

	for i, e := range expenses {
		if i == maxExpenseLines {
			fmt.Fprintf(&b, "... and %d more\n", len(expenses)-maxExpenseLines)
			break
		}
		fmt.Fprintf(&b, "%s | %s | %s | $%.2f", e.Date, e.Category, e.Vendor, e.Amount)
		if e.Notes != "" {
			fmt.Fprintf(&b, " | %s", e.Notes)
		}
		b.WriteByte('\n')
	}

	return &Result{Output: strings.TrimRight(b.String(), "\n"), Source: SourceOnDevice}
}

func (x *Executor) vendorHistory(ctx context.Context, vendor string) *Result {
	history, err := x.store.VendorHistory(ctx, vendor)
	if err != nil {
		return errorResult(err)
	}
	if len(history.Expenses) == 0 {
		return &Result{Output: fmt.Sprintf("No expenses found for vendor %q.", vendor), Source: SourceOnDevice}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Vendor: %s\n", vendor)
	fmt.Fprintf(&b, "Total historical spend: $%.2f\n", history.TotalSpend)
	fmt.Fprintf(&b, "%d transaction(s) on record\n\n", len(history.Expenses))

	for i, e := range history.Expenses {
		if i == maxHistoryLines {
			fmt.Fprintf(&b, "... and %d more\n", len(history.Expenses)-maxHistoryLines)
			break
		}
		fmt.Fprintf(&b, "%s | %s | $%.2f", e.Date, e.Category, e.Amount)
		if e.Notes != "" {
			fmt.Fprintf(&b, " | %s", e.Notes)
		}
		b.WriteByte('\n')
	}

	if len(history.PendingWires) > 0 {
		fmt.Fprintf(&b, "\n%d pending wire(s):\n", len(history.PendingWires))
		for _, w := range history.PendingWires {
			fmt.Fprintf(&b, "  %s | $%.2f | %s\n", w.Date, w.Amount, w.Notes)
		}
	}

	return &Result{Output: strings.TrimRight(b.String(), "\n"), Source: SourceOnDevice}
}

func (x *Executor) budgetStatus(ctx context.Context, call Call) *Result {
	category := call.StringArg("category")
	statuses, err := x.store.BudgetStatus(ctx, category)
	if err != nil {
		return errorResult(err)
	}

	if len(statuses) == 0 {
		if category != "" {
			return &Result{Output: fmt.Sprintf("No budget found for %s.", category), Source: SourceOnDevice}
		}
		return &Result{Output: "No budgets configured.", Source: SourceOnDevice}
	}

	over := 0
	for _, s := range statuses {
		if s.Remaining < 0 {
			over++
		}
	}

	var b strings.Builder
	if over > 0 {
		fmt.Fprintf(&b, "Budget Status (%d category(ies) over budget):\n", over)
	} else {
		b.WriteString("Budget Status (all within limits):\n")
	}

	for _, s := range statuses {
		pct := 0.0
		if s.MonthlyLimit > 0 {
			pct = s.TotalSpent / s.MonthlyLimit * 100
		}
		var word string
		switch {
		case s.Remaining < 0:
			word = "over"
		default:
			word = "remaining"
		}
		fmt.Fprintf(&b, "%s: $%.2f / $%.2f (%.0f%%) %s - $%.2f %s\n",
			s.Category, s.TotalSpent, s.MonthlyLimit, pct,
			budgetBand(s), math.Abs(s.Remaining), word)
	}

	return &Result{Output: strings.TrimRight(b.String(), "\n"), Source: SourceOnDevice}
}

// budgetBand labels a category's position against its limit. The WARNING
// band starts when less than 20% of the limit remains.
func budgetBand(s ledger.BudgetStatus) string {
	switch {
	case s.Remaining < 0:
		return "OVER BUDGET"
	case s.Remaining < s.MonthlyLimit*0.2:
		return "WARNING"
	default:
		return "OK"
	}
}

func (x *Executor) queryRevenue(ctx context.Context, call Call) *Result {
	filter := ledger.RevenueFilter{
		Client:    call.StringArg("client"),
		Segment:   call.StringArg("segment"),
		StartDate: call.StringArg("start_date"),
		EndDate:   call.StringArg("end_date"),
	}

	records, err := x.store.QueryRevenue(ctx, filter)
	if err != nil {
		return errorResult(err)
	}
	total, err := x.store.TotalRevenue(ctx, filter)
	if err != nil {
		return errorResult(err)
	}

	if len(records) == 0 {
		scope := filter.Client
		if scope == "" {
			scope = filter.Segment
		}
		if scope == "" {
			scope = "all clients"
		}
		return &Result{Output: fmt.Sprintf("No revenue records found for %s.", scope), Source: SourceOnDevice}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d revenue record(s)", len(records))
	if filter.Client != "" {
		fmt.Fprintf(&b, " from %s", filter.Client)
	}
	if filter.Segment != "" {
		fmt.Fprintf(&b, " in %s", filter.Segment)
	}
	if filter.StartDate != "" || filter.EndDate != "" {
		fmt.Fprintf(&b, " (%s to %s)", orElse(filter.StartDate, "..."), orElse(filter.EndDate, "now"))
	}
	fmt.Fprintf(&b, ".\nTotal revenue: $%.2f\n\n", total)

	for i, r := range records {
		if i == maxExpenseLines {
			fmt.Fprintf(&b, "... and %d more\n", len(records)-maxExpenseLines)
			break
		}
		fmt.Fprintf(&b, "%s | %s | %s | $%.2f (%s)", r.Date, r.Client, r.Segment, r.Amount, r.Type)
		if r.Notes != "" {
			fmt.Fprintf(&b, " | %s", r.Notes)
		}
		b.WriteByte('\n')
	}

	return &Result{Output: strings.TrimRight(b.String(), "\n"), Source: SourceOnDevice}
}

func (x *Executor) wireApprovals(ctx context.Context, call Call) *Result {
	status := call.StringArg("status")
	vendor := call.StringArg("vendor")

	if vendor != "" {
		return x.vendorWires(ctx, status, vendor)
	}

	wires, err := x.store.WireApprovals(ctx, status)
	if err != nil {
		return errorResult(err)
	}
	if len(wires) == 0 {
		if status != "" {
			return &Result{Output: fmt.Sprintf("No %s wire approvals.", status), Source: SourceOnDevice}
		}
		return &Result{Output: "No wire approvals found.", Source: SourceOnDevice}
	}

	var pendingTotal float64
	for _, w := range wires {
		if w.Status == "pending" {
			pendingTotal += w.Amount
		}
	}

	var b strings.Builder
	if status == "pending" {
		fmt.Fprintf(&b, "%d pending wire approval(s) - Total: $%.2f\n\n", len(wires), pendingTotal)
	} else {
		fmt.Fprintf(&b, "%d wire approval(s):\n\n", len(wires))
	}
	for _, w := range wires {
		fmt.Fprintf(&b, "%s | %s | $%.2f | %s | %s", w.Date, w.Vendor, w.Amount,
			strings.ToUpper(w.Status), w.RequestedBy)
		if w.Notes != "" {
			fmt.Fprintf(&b, " | %s", w.Notes)
		}
		b.WriteByte('\n')
	}

	return &Result{Output: strings.TrimRight(b.String(), "\n"), Source: SourceOnDevice}
}

func (x *Executor) vendorWires(ctx context.Context, status, vendor string) *Result {
	history, err := x.store.VendorHistory(ctx, vendor)
	if err != nil {
		return errorResult(err)
	}
	wires, err := x.store.WireApprovals(ctx, status)
	if err != nil {
		return errorResult(err)
	}

	var matched []ledger.WireApproval
	for _, w := range wires {
		if strings.Contains(strings.ToLower(w.Vendor), strings.ToLower(vendor)) {
			matched = append(matched, w)
		}
	}
	if len(matched) == 0 {
		return &Result{Output: fmt.Sprintf("No wire approvals found for vendor %q.", vendor), Source: SourceOnDevice}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Wire approvals for %s:\n", vendor)
	for _, w := range matched {
		fmt.Fprintf(&b, "%s | $%.2f | %s | %s | %s\n", w.Date, w.Amount,
			strings.ToUpper(w.Status), w.RequestedBy, w.Notes)
	}
	fmt.Fprintf(&b, "\nHistorical context: $%.2f total spend across %d transaction(s)",
		history.TotalSpend, len(history.Expenses))

	return &Result{Output: b.String(), Source: SourceOnDevice}
}

// =============================================================================
// PRIVACY TOOLS
// =============================================================================

func (x *Executor) detectPII(call Call) *Result {
	text := call.StringArg("text")
	entities := x.detector.Detect(text)

	if len(entities) == 0 {
		return &Result{Output: "No PII detected in the provided text.", Source: SourceOnDevice}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Detected %d PII entity(ies):\n", len(entities))
	for _, e := range entities {
		fmt.Fprintf(&b, "[%s] %q at position %d-%d\n", e.Type, e.Value, e.Start, e.End)
	}

	return &Result{
		Output:      strings.TrimRight(b.String(), "\n"),
		Source:      SourceOnDevice,
		PIIDetected: len(entities),
	}
}

func (x *Executor) redactAndAnalyze(ctx context.Context, call Call) *Result {
	text := call.StringArg("text")
	question := call.StringArg("question")
	if question == "" {
		question = "Analyze this data."
	}

	entities := x.detector.Detect(text)
	nodeMap := anonymize.NewNodeMap()
	redacted := nodeMap.Redact(text, entities)
	preview := util.TruncateRunesNoEllipsis(redacted, previewRunes)

	prompt := fmt.Sprintf("You are a financial compliance assistant. The following data has been "+
		"redacted for privacy (PII replaced with placeholders). Analyze it and answer the question."+
		"\n\nRedacted data:\n%s\n\nQuestion: %s", redacted, question)

	answer, err := x.analyze(ctx, prompt)
	if err != nil {
		return &Result{
			Output: fmt.Sprintf("Cloud analysis failed: %v. %d PII entities were redacted locally.",
				err, len(entities)),
			Source:          SourceOnDevice,
			PIIDetected:     len(entities),
			RedactedPreview: preview,
		}
	}
	if answer == "" {
		answer = "Cloud analysis complete. The redacted data was sent securely."
	}

	return &Result{
		Output:          answer,
		Source:          SourceRedactedCloud,
		PIIDetected:     len(entities),
		RedactedPreview: preview,
	}
}

func (x *Executor) cloudAnalyze(ctx context.Context, call Call) *Result {
	question := call.StringArg("question")

	entities := x.detector.Detect(question)
	level := x.scorer.Score(question, entities)

	// Last line of defense: even a mis-narrowed call cannot push sensitive
	// content to the cloud unredacted.
	if level == pii.SensitivityHigh {
		return &Result{
			Output:      "This question contains sensitive data. Blocked from cloud. Use redact_and_analyze instead.",
			Source:      SourceOnDevice,
			PIIDetected: len(entities),
		}
	}

	answer, err := x.analyze(ctx, "You are a financial advisor. "+question)
	if err != nil {
		return &Result{Output: fmt.Sprintf("Cloud analysis failed: %v", err), Source: SourceOnDevice}
	}
	if answer == "" {
		answer = "Cloud analysis complete."
	}

	return &Result{
		Output:      answer,
		Source:      SourceCloud,
		PIIDetected: len(entities),
	}
}

func (x *Executor) analyze(ctx context.Context, prompt string) (string, error) {
	if x.cloud == nil {
		return "", fmt.Errorf("no cloud backend configured")
	}
	return x.cloud.Analyze(ctx, prompt)
}

// =============================================================================
// HELPERS
// =============================================================================

func errorResult(err error) *Result {
	return &Result{Output: fmt.Sprintf("Query failed: %v", err), Source: SourceOnDevice}
}

func orElse(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
