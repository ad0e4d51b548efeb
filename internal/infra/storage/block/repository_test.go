package block

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var testTenant = domain.Tenant{ID: 1, Slug: "acme", Schema: "org_acme", Active: true}

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestListOverlapping_HalfOpenCondition(t *testing.T) {
	repo, mock := newMockRepo(t)

	from := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	mock.ExpectQuery(`SELECT id, resource_id, start_at, end_at, reason, created_at FROM "org_acme"\."blocks" ` +
		`WHERE resource_id = \$1 AND start_at < \$2 AND end_at > \$3 ORDER BY start_at ASC, id ASC`).
		WithArgs(int64(3), to, from).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), int64(3), from.Add(12*time.Hour), from.Add(13*time.Hour), "lunch", from))

	got, err := repo.ListOverlapping(context.Background(), testTenant, 3, from, to)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "lunch", got[0].Reason)
	assert.Equal(t, from.Add(13*time.Hour), got[0].EndAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM "org_acme"\."blocks" WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), testTenant, 42)

	assert.ErrorIs(t, err, ErrBlockNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
