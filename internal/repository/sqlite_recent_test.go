package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casedesk/internal/domain"
	"casedesk/internal/testutil"
)

func recentCase(id, name string, openedAt time.Time) domain.RecentCase {
	return domain.RecentCase{CaseID: id, CaseName: name, Status: "Open", OpenedAt: openedAt}
}

func TestRecentCaseRepo_TouchAndList(t *testing.T) {
	repo := NewSQLiteRecentCaseRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Touch(ctx, recentCase("CASE-1", "Loan A", base)))
	require.NoError(t, repo.Touch(ctx, recentCase("CASE-2", "Loan B", base.Add(time.Minute))))
	require.NoError(t, repo.Touch(ctx, recentCase("CASE-3", "Loan C", base.Add(2*time.Minute))))

	cases, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, cases, 3)
	assert.Equal(t, "CASE-3", cases[0].CaseID)
	assert.Equal(t, "CASE-1", cases[2].CaseID)
	assert.True(t, base.Equal(cases[2].OpenedAt))
}

func TestRecentCaseRepo_TouchMovesCaseToFront(t *testing.T) {
	repo := NewSQLiteRecentCaseRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Touch(ctx, recentCase("CASE-1", "Loan A", base)))
	require.NoError(t, repo.Touch(ctx, recentCase("CASE-2", "Loan B", base.Add(time.Minute))))

	// Re-opening an old case updates its row instead of duplicating it.
	updated := recentCase("CASE-1", "Loan A", base.Add(2*time.Minute))
	updated.Status = "Pending-Review"
	require.NoError(t, repo.Touch(ctx, updated))

	cases, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "CASE-1", cases[0].CaseID)
	assert.Equal(t, "Pending-Review", cases[0].Status)
}

func TestRecentCaseRepo_ListRespectsLimit(t *testing.T) {
	repo := NewSQLiteRecentCaseRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"CASE-1", "CASE-2", "CASE-3", "CASE-4"} {
		require.NoError(t, repo.Touch(ctx, recentCase(id, id, base.Add(time.Duration(i)*time.Minute))))
	}

	cases, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "CASE-4", cases[0].CaseID)
	assert.Equal(t, "CASE-3", cases[1].CaseID)
}

func TestRecentCaseRepo_Delete(t *testing.T) {
	repo := NewSQLiteRecentCaseRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Touch(ctx, recentCase("CASE-1", "Loan A", time.Now().UTC())))
	require.NoError(t, repo.Delete(ctx, "CASE-1"))

	cases, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, cases)
}
