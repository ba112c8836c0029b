// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// LEDGER: SQLite-backed financial query service
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrDatabaseError = errors.New("ledger database error")
	ErrInvalidPath   = errors.New("invalid ledger path")
)

// =============================================================================
// ROW TYPES
// =============================================================================

// Expense is a single outbound transaction.
type Expense struct {
	ID       int64
	Date     string
	Category string
	Vendor   string
	Amount   float64
	Notes    string
}

// BudgetStatus is one category's limit joined with its actual spend.
type BudgetStatus struct {
	Category     string
	MonthlyLimit float64
	TotalSpent   float64
	Remaining    float64
}

// Revenue is a single recognized inbound amount.
type Revenue struct {
	ID      int64
	Date    string
	Client  string
	Segment string
	Amount  float64
	Type    string
	Notes   string
}

// WireApproval is an outbound wire request and its approval state.
type WireApproval struct {
	ID          int64
	Date        string
	Vendor      string
	Amount      float64
	Status      string
	RequestedBy string
	Notes       string
}

// VendorHistory is the joined view for a single vendor: all expenses,
// lifetime spend, and any wires still pending approval.
type VendorHistory struct {
	Vendor       string
	Expenses     []Expense
	TotalSpend   float64
	PendingWires []WireApproval
}

// ExpenseFilter narrows QueryExpenses. Zero-value fields are ignored.
type ExpenseFilter struct {
	Category  string
	Vendor    string // substring match
	StartDate string
	EndDate   string
}

// RevenueFilter narrows QueryRevenue. Zero-value fields are ignored.
type RevenueFilter struct {
	Client    string // substring match
	Segment   string
	StartDate string
	EndDate   string
}

// =============================================================================
// STORE
// =============================================================================

// Store wraps the SQLite connection pool. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger database at path and applies
// the schema. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: schema: %v", ErrDatabaseError, err)
	}

	return &Store{db: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// EXPENSE QUERIES
// =============================================================================

// QueryExpenses returns expenses matching the filter, newest first.
// Category and segment comparisons are case-insensitive; vendor is a
// case-insensitive substring match.
func (s *Store) QueryExpenses(ctx context.Context, f ExpenseFilter) ([]Expense, error) {
	var conditions []string
	var params []any

	if f.Category != "" {
		conditions = append(conditions, "LOWER(category) = LOWER(?)")
		params = append(params, f.Category)
	}
	if f.StartDate != "" {
		conditions = append(conditions, "date >= ?")
		params = append(params, f.StartDate)
	}
	if f.EndDate != "" {
		conditions = append(conditions, "date <= ?")
		params = append(params, f.EndDate)
	}
	if f.Vendor != "" {
		conditions = append(conditions, "LOWER(vendor) LIKE LOWER(?)")
		params = append(params, "%"+f.Vendor+"%")
	}

	query := "SELECT id, date, category, vendor, amount, COALESCE(notes, '') FROM expenses"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC"

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.Date, &e.Category, &e.Vendor, &e.Amount, &e.Notes); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// TotalSpend returns the sum of all expenses, optionally limited to one
// category.
func (s *Store) TotalSpend(ctx context.Context, category string) (float64, error) {
	var total float64
	var err error
	if category != "" {
		err = s.db.QueryRowContext(ctx,
			"SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE LOWER(category) = LOWER(?)",
			category).Scan(&total)
	} else {
		err = s.db.QueryRowContext(ctx,
			"SELECT COALESCE(SUM(amount), 0) FROM expenses").Scan(&total)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return total, nil
}

// Categories returns the distinct expense categories, sorted.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT category FROM expenses ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// =============================================================================
// BUDGET QUERIES
// =============================================================================

// BudgetStatus joins each budget with its actual spend. With an empty
// category all budgets are returned, tightest remaining margin first.
func (s *Store) BudgetStatus(ctx context.Context, category string) ([]BudgetStatus, error) {
	base := `SELECT
		b.category,
		b.monthly_limit,
		COALESCE(SUM(e.amount), 0) AS total_spent,
		b.monthly_limit - COALESCE(SUM(e.amount), 0) AS remaining
	FROM budgets b
	LEFT JOIN expenses e ON LOWER(b.category) = LOWER(e.category)`

	var rows *sql.Rows
	var err error
	if category != "" {
		rows, err = s.db.QueryContext(ctx,
			base+" WHERE LOWER(b.category) = LOWER(?) GROUP BY b.category, b.monthly_limit",
			category)
	} else {
		rows, err = s.db.QueryContext(ctx,
			base+" GROUP BY b.category, b.monthly_limit ORDER BY remaining ASC")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var out []BudgetStatus
	for rows.Next() {
		var b BudgetStatus
		if err := rows.Scan(&b.Category, &b.MonthlyLimit, &b.TotalSpent, &b.Remaining); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// =============================================================================
// REVENUE QUERIES
// =============================================================================

// QueryRevenue returns revenue rows matching the filter, newest first.
func (s *Store) QueryRevenue(ctx context.Context, f RevenueFilter) ([]Revenue, error) {
	conditions, params := revenueConditions(f)

	query := "SELECT id, date, client, segment, amount, type, COALESCE(notes, '') FROM revenue"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC"

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var out []Revenue
	for rows.Next() {
		var r Revenue
		if err := rows.Scan(&r.ID, &r.Date, &r.Client, &r.Segment, &r.Amount, &r.Type, &r.Notes); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TotalRevenue returns the revenue sum under the same filter semantics as
// QueryRevenue.
func (s *Store) TotalRevenue(ctx context.Context, f RevenueFilter) (float64, error) {
	conditions, params := revenueConditions(f)

	query := "SELECT COALESCE(SUM(amount), 0) FROM revenue"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var total float64
	if err := s.db.QueryRowContext(ctx, query, params...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return total, nil
}

func revenueConditions(f RevenueFilter) ([]string, []any) {
	var conditions []string
	var params []any

	if f.Client != "" {
		conditions = append(conditions, "LOWER(client) LIKE LOWER(?)")
		params = append(params, "%"+f.Client+"%")
	}
	if f.Segment != "" {
		conditions = append(conditions, "LOWER(segment) = LOWER(?)")
		params = append(params, f.Segment)
	}
	if f.StartDate != "" {
		conditions = append(conditions, "date >= ?")
		params = append(params, f.StartDate)
	}
	if f.EndDate != "" {
		conditions = append(conditions, "date <= ?")
		params = append(params, f.EndDate)
	}
	return conditions, params
}

// =============================================================================
// WIRE APPROVAL QUERIES
// =============================================================================

// WireApprovals returns wire requests, optionally filtered by status,
// newest first.
func (s *Store) WireApprovals(ctx context.Context, status string) ([]WireApproval, error) {
	query := "SELECT id, date, vendor, amount, status, requested_by, COALESCE(notes, '') FROM wire_approvals"
	var params []any
	if status != "" {
		query += " WHERE LOWER(status) = LOWER(?)"
		params = append(params, status)
	}
	query += " ORDER BY date DESC"

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var out []WireApproval
	for rows.Next() {
		var w WireApproval
		if err := rows.Scan(&w.ID, &w.Date, &w.Vendor, &w.Amount, &w.Status, &w.RequestedBy, &w.Notes); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// VendorHistory returns everything known about one vendor: transactions,
// lifetime spend, and pending wires.
func (s *Store) VendorHistory(ctx context.Context, vendor string) (*VendorHistory, error) {
	expenses, err := s.QueryExpenses(ctx, ExpenseFilter{Vendor: vendor})
	if err != nil {
		return nil, err
	}

	var total float64
	for _, e := range expenses {
		total += e.Amount
	}

	wires, err := s.WireApprovals(ctx, "pending")
	if err != nil {
		return nil, err
	}
	var pending []WireApproval
	for _, w := range wires {
		if strings.Contains(strings.ToLower(w.Vendor), strings.ToLower(vendor)) {
			pending = append(pending, w)
		}
	}

	return &VendorHistory{
		Vendor:       vendor,
		Expenses:     expenses,
		TotalSpend:   total,
		PendingWires: pending,
	}, nil
}
