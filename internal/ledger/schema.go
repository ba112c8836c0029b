// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ledger

// SQLite schema for the financial ledger. Dates are ISO-8601 TEXT so range
// filters compare lexicographically.
const schema = `
-- Outbound spend, one row per transaction
CREATE TABLE IF NOT EXISTS expenses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT NOT NULL,
    category TEXT NOT NULL,
    vendor TEXT NOT NULL,
    amount REAL NOT NULL,
    notes TEXT
);

CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses(category);
CREATE INDEX IF NOT EXISTS idx_expenses_vendor ON expenses(vendor);
CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date);

-- Monthly spend limits per category
CREATE TABLE IF NOT EXISTS budgets (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    category TEXT NOT NULL UNIQUE,
    monthly_limit REAL NOT NULL
);

-- Inbound revenue, one row per recognized amount
CREATE TABLE IF NOT EXISTS revenue (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT NOT NULL,
    client TEXT NOT NULL,
    segment TEXT NOT NULL,   -- enterprise, mid-market, smb
    amount REAL NOT NULL,
    type TEXT NOT NULL,      -- subscription, services, license
    notes TEXT
);

CREATE INDEX IF NOT EXISTS idx_revenue_client ON revenue(client);
CREATE INDEX IF NOT EXISTS idx_revenue_segment ON revenue(segment);
CREATE INDEX IF NOT EXISTS idx_revenue_date ON revenue(date);

-- Outbound wire transfers awaiting or past approval
CREATE TABLE IF NOT EXISTS wire_approvals (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT NOT NULL,
    vendor TEXT NOT NULL,
    amount REAL NOT NULL,
    status TEXT NOT NULL,    -- pending, approved, rejected
    requested_by TEXT NOT NULL,
    notes TEXT
);

CREATE INDEX IF NOT EXISTS idx_wires_status ON wire_approvals(status);
CREATE INDEX IF NOT EXISTS idx_wires_vendor ON wire_approvals(vendor);
`
