// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/jeranaias/cloudnein/internal/anonymize"
	"github.com/jeranaias/cloudnein/internal/ledger"
)

// =============================================================================
// LOCAL CONTEXT GATHERING
// =============================================================================

const (
	maxContextExpenses = 10
	maxContextClients  = 5
)

// expenseDetailPattern decides whether the query warrants itemized expense
// lines in the context, not just totals.
var expenseDetailPattern = regexp.MustCompile(`marketing|spend|expense|cost|cut|reduce|burn`)

// gatherLocalContext assembles a financial snapshot for the cloud-analysis
// path and registers every vendor, client, and employee name it touches in
// the alias map. Sections are best-effort: a failed query logs and skips
// its section rather than aborting the whole gather.
func gatherLocalContext(ctx context.Context, store *ledger.Store, query string, nm *anonymize.NodeMap) string {
	lower := strings.ToLower(query)
	var parts []string

	if budgets, err := store.BudgetStatus(ctx, ""); err != nil {
		log.Printf("CONTEXT: budget status failed: %v", err)
	} else if len(budgets) > 0 {
		lines := make([]string, len(budgets))
		for i, b := range budgets {
			pct := 0.0
			if b.MonthlyLimit > 0 {
				pct = b.TotalSpent / b.MonthlyLimit * 100
			}
			lines[i] = fmt.Sprintf("%s: $%.0f / $%.0f (%.0f%%)",
				b.Category, b.TotalSpent, b.MonthlyLimit, pct)
		}
		parts = append(parts, "BUDGET STATUS:\n"+strings.Join(lines, "\n"))
	}

	if total, err := store.TotalSpend(ctx, ""); err != nil {
		log.Printf("CONTEXT: total spend failed: %v", err)
	} else {
		parts = append(parts, fmt.Sprintf("TOTAL EXPENSES (all time): $%.0f", total))
	}

	if expenses, err := store.QueryExpenses(ctx, ledger.ExpenseFilter{}); err != nil {
		log.Printf("CONTEXT: expenses failed: %v", err)
	} else {
		for _, e := range expenses {
			nm.Register(e.Vendor, "VENDOR")
		}
		if expenseDetailPattern.MatchString(lower) {
			n := min(len(expenses), maxContextExpenses)
			lines := make([]string, n)
			for i, e := range expenses[:n] {
				lines[i] = fmt.Sprintf("%s: %s - $%.0f (%s)", e.Date, e.Vendor, e.Amount, e.Category)
			}
			if n > 0 {
				parts = append(parts, "RECENT EXPENSES:\n"+strings.Join(lines, "\n"))
			}
		}
	}

	if total, err := store.TotalRevenue(ctx, ledger.RevenueFilter{}); err != nil {
		log.Printf("CONTEXT: total revenue failed: %v", err)
	} else {
		parts = append(parts, fmt.Sprintf("TOTAL REVENUE (all time): $%.0f", total))
	}

	if revenue, err := store.QueryRevenue(ctx, ledger.RevenueFilter{}); err != nil {
		log.Printf("CONTEXT: revenue failed: %v", err)
	} else if len(revenue) > 0 {
		for _, r := range revenue {
			nm.Register(r.Client, "CLIENT")
		}
		n := min(len(revenue), maxContextClients)
		lines := make([]string, n)
		for i, r := range revenue[:n] {
			lines[i] = fmt.Sprintf("%s (%s): $%.0f - %s", r.Client, r.Segment, r.Amount, r.Type)
		}
		parts = append(parts, "RECENT REVENUE:\n"+strings.Join(lines, "\n"))
	}

	if wires, err := store.WireApprovals(ctx, ""); err != nil {
		log.Printf("CONTEXT: wire approvals failed: %v", err)
	} else if len(wires) > 0 {
		var pending []ledger.WireApproval
		for _, w := range wires {
			nm.Register(w.Vendor, "VENDOR")
			nm.Register(w.RequestedBy, "EMPLOYEE")
			if w.Status == "pending" {
				pending = append(pending, w)
			}
		}
		if len(pending) > 0 {
			var total float64
			lines := make([]string, len(pending))
			for i, w := range pending {
				total += w.Amount
				lines[i] = fmt.Sprintf("%s: $%.0f - requested by %s", w.Vendor, w.Amount, w.RequestedBy)
			}
			parts = append(parts, fmt.Sprintf("PENDING WIRE APPROVALS (%d, totaling $%.0f):\n%s",
				len(pending), total, strings.Join(lines, "\n")))
		}
	}

	log.Printf("CONTEXT: %d entities registered in alias map", nm.Count())
	return strings.Join(parts, "\n\n")
}
