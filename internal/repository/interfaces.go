package repository

import (
	"context"
	"errors"

	"casedesk/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// RecentCaseRepo records cases the operator has opened, for the dashboard's
// recent list.
type RecentCaseRepo interface {
	Touch(ctx context.Context, c domain.RecentCase) error
	ListRecent(ctx context.Context, limit int) ([]domain.RecentCase, error)
	Delete(ctx context.Context, caseID string) error
}
