// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ledger

import (
	"context"
	"fmt"
)

// Seed populates the demo dataset if the store is empty. Idempotent: a
// populated expenses table makes it a no-op.
func (s *Store) Seed(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM expenses").Scan(&count); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	expenseStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO expenses (date, category, vendor, amount, notes) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer expenseStmt.Close()
	for _, e := range seedExpenses {
		if _, err := expenseStmt.ExecContext(ctx, e.Date, e.Category, e.Vendor, e.Amount, e.Notes); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	budgetStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO budgets (category, monthly_limit) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer budgetStmt.Close()
	for cat, limit := range seedBudgets {
		if _, err := budgetStmt.ExecContext(ctx, cat, limit); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	revenueStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO revenue (date, client, segment, amount, type, notes) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer revenueStmt.Close()
	for _, r := range seedRevenue {
		if _, err := revenueStmt.ExecContext(ctx, r.Date, r.Client, r.Segment, r.Amount, r.Type, r.Notes); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	wireStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO wire_approvals (date, vendor, amount, status, requested_by, notes) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer wireStmt.Close()
	for _, w := range seedWires {
		if _, err := wireStmt.ExecContext(ctx, w.Date, w.Vendor, w.Amount, w.Status, w.RequestedBy, w.Notes); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	return tx.Commit()
}

// February 2026 demo books for a seed-stage startup.
var seedExpenses = []Expense{
	{Date: "2026-02-01", Category: "Engineering", Vendor: "AWS", Amount: 2400.0, Notes: "Cloud hosting - production servers"},
	{Date: "2026-02-02", Category: "Engineering", Vendor: "GitHub", Amount: 450.0, Notes: "Enterprise plan - 15 seats"},
	{Date: "2026-02-03", Category: "Marketing", Vendor: "Google Ads", Amount: 1500.0, Notes: "Q1 campaign - Series A launch"},
	{Date: "2026-02-04", Category: "Marketing", Vendor: "Figma", Amount: 300.0, Notes: "Design team licenses"},
	{Date: "2026-02-05", Category: "Payroll", Vendor: "ADP", Amount: 15000.0, Notes: "February salaries - Project Alpha team"},
	{Date: "2026-02-06", Category: "Payroll", Vendor: "ADP", Amount: 8500.0, Notes: "February salaries - Engineering"},
	{Date: "2026-02-07", Category: "Legal", Vendor: "Baker McKenzie", Amount: 3200.0, Notes: "Acquisition review - confidential"},
	{Date: "2026-02-08", Category: "Legal", Vendor: "Wilson Sonsini", Amount: 1800.0, Notes: "Patent filing - ML inference engine"},
	{Date: "2026-02-10", Category: "Office", Vendor: "WeWork", Amount: 2200.0, Notes: "February coworking space"},
	{Date: "2026-02-10", Category: "Office", Vendor: "Amazon", Amount: 350.0, Notes: "Office supplies and equipment"},
	{Date: "2026-02-11", Category: "Engineering", Vendor: "Vercel", Amount: 200.0, Notes: "Pro plan hosting"},
	{Date: "2026-02-12", Category: "Travel", Vendor: "United Airlines", Amount: 680.0, Notes: "SFO to NYC - investor meeting"},
	{Date: "2026-02-13", Category: "Travel", Vendor: "Marriott", Amount: 450.0, Notes: "NYC hotel - 2 nights"},
	{Date: "2026-02-14", Category: "Marketing", Vendor: "Mailchimp", Amount: 250.0, Notes: "Email campaign platform"},
	{Date: "2026-02-15", Category: "Engineering", Vendor: "Datadog", Amount: 600.0, Notes: "Monitoring and observability"},
	{Date: "2026-02-16", Category: "Meals", Vendor: "DoorDash", Amount: 180.0, Notes: "Team lunch - sprint review"},
	{Date: "2026-02-17", Category: "Meals", Vendor: "Uber Eats", Amount: 95.0, Notes: "Client dinner - John Smith"},
	{Date: "2026-02-18", Category: "Software", Vendor: "Notion", Amount: 150.0, Notes: "Team workspace - annual"},
	{Date: "2026-02-19", Category: "Software", Vendor: "Slack", Amount: 200.0, Notes: "Business+ plan"},
	{Date: "2026-02-20", Category: "Insurance", Vendor: "Hartford", Amount: 1200.0, Notes: "D&O insurance - quarterly"},
}

var seedBudgets = map[string]float64{
	"Engineering": 5000.0,
	"Marketing":   3000.0,
	"Payroll":     25000.0,
	"Legal":       4000.0,
	"Office":      3000.0,
	"Travel":      2000.0,
	"Meals":       500.0,
	"Software":    500.0,
	"Insurance":   1500.0,
}

var seedRevenue = []Revenue{
	{Date: "2026-02-01", Client: "GlobalTech Industries", Segment: "enterprise", Amount: 24000.0, Type: "subscription", Notes: "Annual platform license - year 2"},
	{Date: "2026-02-03", Client: "Meridian Health", Segment: "enterprise", Amount: 18000.0, Type: "subscription", Notes: "Compliance tier renewal"},
	{Date: "2026-02-05", Client: "Northwind Traders", Segment: "mid-market", Amount: 6500.0, Type: "subscription", Notes: "Q1 invoice"},
	{Date: "2026-02-08", Client: "Bluebird Media", Segment: "smb", Amount: 1200.0, Type: "subscription", Notes: "Monthly plan"},
	{Date: "2026-02-10", Client: "GlobalTech Industries", Segment: "enterprise", Amount: 9000.0, Type: "services", Notes: "Custom integration work"},
	{Date: "2026-02-12", Client: "Zenith Labs", Segment: "smb", Amount: 950.0, Type: "subscription", Notes: "Monthly plan"},
	{Date: "2026-02-14", Client: "Cascade Logistics", Segment: "mid-market", Amount: 5400.0, Type: "license", Notes: "On-prem deployment"},
	{Date: "2026-02-18", Client: "Meridian Health", Segment: "enterprise", Amount: 4000.0, Type: "services", Notes: "Audit support retainer"},
}

var seedWires = []WireApproval{
	{Date: "2026-02-09", Vendor: "Baker McKenzie", Amount: 5000.0, Status: "pending", RequestedBy: "Sarah Chen", Notes: "Acquisition retainer - phase 2"},
	{Date: "2026-02-15", Vendor: "AWS", Amount: 12000.0, Status: "pending", RequestedBy: "Dave Miller", Notes: "Reserved instance prepay"},
	{Date: "2026-02-06", Vendor: "ADP", Amount: 23500.0, Status: "approved", RequestedBy: "Alice Johnson", Notes: "February payroll run"},
	{Date: "2026-02-11", Vendor: "WeWork", Amount: 2200.0, Status: "approved", RequestedBy: "Alice Johnson", Notes: "March space, paid early"},
	{Date: "2026-02-13", Vendor: "Pinnacle Events", Amount: 8000.0, Status: "rejected", RequestedBy: "Tom Baker", Notes: "Conference sponsorship - deferred to Q2"},
}
