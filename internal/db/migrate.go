package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// A single-row table holding the authenticated session, so a restart
	// picks up where the operator left off instead of forcing a new login.
	`CREATE TABLE IF NOT EXISTS sessions (
		id            TEXT PRIMARY KEY DEFAULT 'default',
		access_token  TEXT NOT NULL DEFAULT '',
		refresh_token TEXT NOT NULL DEFAULT '',
		token_type    TEXT NOT NULL DEFAULT '',
		expires_at    TEXT,
		operator_id   TEXT NOT NULL DEFAULT '',
		operator_name TEXT NOT NULL DEFAULT '',
		email         TEXT NOT NULL DEFAULT '',
		access_group  TEXT NOT NULL DEFAULT '',
		roles         TEXT NOT NULL DEFAULT '[]',
		updated_at    TEXT NOT NULL
	)`,

	// Recently opened cases, newest first on the dashboard.
	`CREATE TABLE IF NOT EXISTS recent_cases (
		case_id    TEXT PRIMARY KEY,
		case_name  TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL DEFAULT '',
		opened_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_recent_cases_opened ON recent_cases(opened_at)`,
}
