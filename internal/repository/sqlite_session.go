package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"casedesk/internal/domain"
)

// SQLiteSessionStore persists the authenticated session in the single-row
// sessions table. It satisfies the session manager's Store port.
type SQLiteSessionStore struct {
	db *sql.DB
}

// NewSQLiteSessionStore creates a new SQLiteSessionStore.
func NewSQLiteSessionStore(db *sql.DB) *SQLiteSessionStore {
	return &SQLiteSessionStore{db: db}
}

// Load returns the persisted session, or (nil, nil, nil) when none exists.
func (r *SQLiteSessionStore) Load(ctx context.Context) (*domain.AuthTokens, *domain.Operator, error) {
	query := `SELECT access_token, refresh_token, token_type, expires_at,
		operator_id, operator_name, email, access_group, roles
		FROM sessions WHERE id = 'default'`
	row := r.db.QueryRowContext(ctx, query)

	var (
		tokens    domain.AuthTokens
		operator  domain.Operator
		expiresAt sql.NullString
		rolesJSON string
	)
	err := row.Scan(
		&tokens.AccessToken, &tokens.RefreshToken, &tokens.TokenType, &expiresAt,
		&operator.OperatorID, &operator.Name, &operator.Email, &operator.AccessGroup, &rolesJSON,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("scanning session: %w", err)
	}

	if t := parseNullableTime(expiresAt, time.RFC3339); t != nil {
		tokens.ExpiresAt = *t
	}
	if err := json.Unmarshal([]byte(rolesJSON), &operator.Roles); err != nil {
		return nil, nil, fmt.Errorf("parsing session roles: %w", err)
	}

	var tokensOut *domain.AuthTokens
	if tokens.AccessToken != "" {
		tokensOut = &tokens
	}
	var operatorOut *domain.Operator
	if operator.OperatorID != "" || operator.Name != "" {
		operatorOut = &operator
	}
	return tokensOut, operatorOut, nil
}

// Save upserts the session row. Either record may be nil; absent halves are
// stored as empty values.
func (r *SQLiteSessionStore) Save(ctx context.Context, tokens *domain.AuthTokens, operator *domain.Operator) error {
	var t domain.AuthTokens
	if tokens != nil {
		t = *tokens
	}
	var o domain.Operator
	if operator != nil {
		o = *operator
	}

	rolesJSON, err := json.Marshal(o.Roles)
	if err != nil {
		return fmt.Errorf("encoding session roles: %w", err)
	}
	var expiresAt interface{}
	if !t.ExpiresAt.IsZero() {
		expiresAt = t.ExpiresAt.UTC().Format(time.RFC3339)
	}

	query := `INSERT INTO sessions (id, access_token, refresh_token, token_type, expires_at,
		operator_id, operator_name, email, access_group, roles, updated_at)
		VALUES ('default', ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token  = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type    = excluded.token_type,
			expires_at    = excluded.expires_at,
			operator_id   = excluded.operator_id,
			operator_name = excluded.operator_name,
			email         = excluded.email,
			access_group  = excluded.access_group,
			roles         = excluded.roles,
			updated_at    = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query,
		t.AccessToken, t.RefreshToken, t.TokenType, expiresAt,
		o.OperatorID, o.Name, o.Email, o.AccessGroup, string(rolesJSON),
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Clear deletes the persisted session.
func (r *SQLiteSessionStore) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = 'default'`); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
