package postgres

import (
	"context"
	"fmt"
)

// EnsureSchema creates all tables when they do not exist. Statements are
// idempotent so this runs on every startup.
func EnsureSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		access_token TEXT NOT NULL,
		institution_name TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS cursors (
		id BIGSERIAL PRIMARY KEY,
		item_id BIGINT NOT NULL UNIQUE REFERENCES items(id),
		cursor TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id BIGSERIAL PRIMARY KEY,
		item_id BIGINT NOT NULL REFERENCES items(id),
		account_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		official_name TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT '',
		subtype TEXT NOT NULL DEFAULT '',
		mask TEXT NOT NULL DEFAULT '',
		available DOUBLE PRECISION,
		current DOUBLE PRECISION,
		iso_currency_code TEXT NOT NULL DEFAULT '',
		unofficial_currency_code TEXT,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id BIGSERIAL PRIMARY KEY,
		item_id BIGINT NOT NULL REFERENCES items(id),
		account_id TEXT NOT NULL DEFAULT '',
		transaction_id TEXT NOT NULL UNIQUE,
		amount DOUBLE PRECISION NOT NULL,
		iso_currency_code TEXT NOT NULL DEFAULT '',
		date DATE NOT NULL,
		authorized_date DATE,
		name TEXT NOT NULL DEFAULT '',
		merchant_name TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT 'Other',
		pending BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS budgets (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		month TEXT NOT NULL,
		category TEXT NOT NULL,
		amount DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS securities (
		security_id TEXT PRIMARY KEY,
		ticker TEXT,
		name TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT '',
		close_price DOUBLE PRECISION,
		close_price_as_of DATE,
		iso_currency_code TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS holdings (
		id BIGSERIAL PRIMARY KEY,
		item_id BIGINT NOT NULL REFERENCES items(id),
		account_id TEXT NOT NULL DEFAULT '',
		security_id TEXT NOT NULL REFERENCES securities(security_id),
		quantity DOUBLE PRECISION NOT NULL DEFAULT 0,
		institution_value DOUBLE PRECISION,
		cost_basis DOUBLE PRECISION,
		iso_currency_code TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_item_date ON transactions (item_id, date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_holdings_item ON holdings (item_id)`,
}
