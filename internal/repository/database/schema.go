package database

import (
	"context"

	"planner_import/internal/ports"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS territories (
	  id BIGSERIAL PRIMARY KEY,
	  name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
	  id BIGSERIAL PRIMARY KEY,
	  cust_code TEXT UNIQUE,
	  name TEXT NOT NULL,
	  trade_name TEXT,
	  territory_id BIGINT REFERENCES territories(id),
	  group_name TEXT,
	  group_2_iws TEXT,
	  iws_code TEXT,
	  old_value TEXT,
	  old_name TEXT,
	  door_count INT,
	  cvm_notes TEXT,
	  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS stores (
	  id BIGSERIAL PRIMARY KEY,
	  customer_id BIGINT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
	  address_1 TEXT,
	  address_2 TEXT,
	  city TEXT,
	  state TEXT,
	  postcode TEXT,
	  country TEXT,
	  main_contact TEXT,
	  owner_name TEXT,
	  owner_phone TEXT,
	  owner_email TEXT,
	  store_manager_name TEXT,
	  store_phone TEXT,
	  store_email TEXT,
	  market_manager_name TEXT,
	  marketing_phone TEXT,
	  marketing_email TEXT,
	  account_dept_name TEXT,
	  accounting_phone TEXT,
	  accounting_email TEXT,
	  sort_bucket TEXT,
	  notes TEXT,
	  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
	  id BIGSERIAL PRIMARY KEY,
	  customer_id BIGINT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
	  product_name TEXT NOT NULL,
	  last_visit DATE,
	  action TEXT,
	  status TEXT,
	  next_action TEXT,
	  last_contact DATE,
	  notes TEXT,
	  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS cvm_month_entries (
	  id BIGSERIAL PRIMARY KEY,
	  customer_id BIGINT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
	  year INT NOT NULL,
	  month INT NOT NULL CHECK (month BETWEEN 1 AND 12),
	  planned_date DATE,
	  completed_manual BOOLEAN NOT NULL DEFAULT FALSE,
	  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	  UNIQUE (customer_id, year, month)
	)`,
}

// EnsureSchema creates the planner tables if they do not exist yet. Runs at
// startup so a fresh database is usable without a separate migration step.
func EnsureSchema(ctx context.Context, q ports.Querier) error {
	for _, stmt := range schemaStatements {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
