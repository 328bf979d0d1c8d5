package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"casedesk/internal/domain"
)

// SQLiteRecentCaseRepo implements RecentCaseRepo using a SQLite database.
type SQLiteRecentCaseRepo struct {
	db *sql.DB
}

// NewSQLiteRecentCaseRepo creates a new SQLiteRecentCaseRepo.
func NewSQLiteRecentCaseRepo(db *sql.DB) *SQLiteRecentCaseRepo {
	return &SQLiteRecentCaseRepo{db: db}
}

// Touch records that a case was just opened, updating its entry in place.
func (r *SQLiteRecentCaseRepo) Touch(ctx context.Context, c domain.RecentCase) error {
	openedAt := c.OpenedAt
	if openedAt.IsZero() {
		openedAt = time.Now().UTC()
	}
	query := `INSERT INTO recent_cases (case_id, case_name, status, opened_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(case_id) DO UPDATE SET
			case_name = excluded.case_name,
			status    = excluded.status,
			opened_at = excluded.opened_at`
	_, err := r.db.ExecContext(ctx, query,
		c.CaseID, c.CaseName, c.Status, openedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording recent case: %w", err)
	}
	return nil
}

// ListRecent returns the most recently opened cases, newest first.
func (r *SQLiteRecentCaseRepo) ListRecent(ctx context.Context, limit int) ([]domain.RecentCase, error) {
	query := `SELECT case_id, case_name, status, opened_at
		FROM recent_cases ORDER BY opened_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent cases: %w", err)
	}
	defer rows.Close()

	var cases []domain.RecentCase
	for rows.Next() {
		var (
			c        domain.RecentCase
			openedAt string
		)
		if err := rows.Scan(&c.CaseID, &c.CaseName, &c.Status, &openedAt); err != nil {
			return nil, fmt.Errorf("scanning recent case: %w", err)
		}
		c.OpenedAt, err = time.Parse(time.RFC3339, openedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing opened_at: %w", err)
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recent cases: %w", err)
	}
	return cases, nil
}

// Delete removes a case from the recent list.
func (r *SQLiteRecentCaseRepo) Delete(ctx context.Context, caseID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recent_cases WHERE case_id = ?`, caseID); err != nil {
		return fmt.Errorf("deleting recent case: %w", err)
	}
	return nil
}
