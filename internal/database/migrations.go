package database

import (
	"database/sql"
	"fmt"
)

// Migrate creates the schema if it does not exist yet.
// Statements are idempotent so this is safe to run on every boot.
func Migrate(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS groups (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			description TEXT,
			created_by BIGINT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS group_members (
			group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (group_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id BIGSERIAL PRIMARY KEY,
			group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
			payer_id BIGINT NOT NULL REFERENCES users(id),
			description VARCHAR(255) NOT NULL,
			amount_cents BIGINT NOT NULL CHECK (amount_cents > 0),
			split_type VARCHAR(20) NOT NULL,
			category VARCHAR(20) NOT NULL DEFAULT 'OTHER',
			notes TEXT,
			expense_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS expense_participants (
			expense_id BIGINT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES users(id),
			percentage DOUBLE PRECISION,
			amount_cents BIGINT,
			PRIMARY KEY (expense_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS settlements (
			id BIGSERIAL PRIMARY KEY,
			group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
			debtor_id BIGINT NOT NULL REFERENCES users(id),
			creditor_id BIGINT NOT NULL REFERENCES users(id),
			amount_cents BIGINT NOT NULL CHECK (amount_cents > 0),
			notes TEXT,
			settled_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_group_id ON expenses(group_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_payer_id ON expenses(payer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_settlements_group_id ON settlements(group_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
