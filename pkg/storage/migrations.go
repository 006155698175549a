package storage

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	// Migration 1: Initial schema
	`CREATE TABLE IF NOT EXISTS transactions (
		id          TEXT PRIMARY KEY,
		owner_id    TEXT NOT NULL,
		amount      REAL NOT NULL DEFAULT 0.0,
		type        TEXT NOT NULL CHECK(type IN ('income', 'expense')),
		category    TEXT NOT NULL DEFAULT '',
		subcategory TEXT NOT NULL DEFAULT '',
		note        TEXT NOT NULL DEFAULT '',
		date        TEXT NOT NULL,
		is_fixed    INTEGER NOT NULL DEFAULT 0,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_owner ON transactions(owner_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
	CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category);

	CREATE TABLE IF NOT EXISTS categories (
		id            TEXT PRIMARY KEY,
		owner_id      TEXT NOT NULL,
		name          TEXT NOT NULL,
		icon          TEXT NOT NULL DEFAULT '',
		color         TEXT NOT NULL DEFAULT '',
		subcategories TEXT NOT NULL DEFAULT '[]',
		UNIQUE(owner_id, name)
	);

	CREATE TABLE IF NOT EXISTS budgets (
		id          TEXT PRIMARY KEY,
		owner_id    TEXT NOT NULL,
		category_id TEXT NOT NULL DEFAULT '',
		amount      REAL NOT NULL,
		period      TEXT NOT NULL CHECK(period IN ('monthly', 'weekly', 'custom')),
		start_date  TEXT NOT NULL DEFAULT '',
		end_date    TEXT NOT NULL DEFAULT '',
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_budgets_owner ON budgets(owner_id);

	CREATE TABLE IF NOT EXISTS notifications (
		id         TEXT PRIMARY KEY,
		owner_id   TEXT NOT NULL,
		title      TEXT NOT NULL,
		message    TEXT NOT NULL,
		type       TEXT NOT NULL CHECK(type IN ('info', 'warning', 'success', 'error')),
		read       INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_notifications_owner ON notifications(owner_id);

	CREATE TABLE IF NOT EXISTS settings (
		owner_id               TEXT PRIMARY KEY,
		notifications_enabled  INTEGER NOT NULL DEFAULT 1,
		fixed_expenses_enabled INTEGER NOT NULL DEFAULT 1,
		detailed_stats_enabled INTEGER NOT NULL DEFAULT 1,
		smart_bar_enabled      INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
}

// runMigrations applies pending schema migrations.
func runMigrations(db *sql.DB) error {
	// Ensure migration tracking table exists
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("create migration table: %w", err)
	}

	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("check migration version: %w", err)
	}

	for i := currentVersion; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", i+1, err)
		}

		if _, err := tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("run migration %d: %w", i+1, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", i+1); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", i+1, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", i+1, err)
		}
	}

	return nil
}
