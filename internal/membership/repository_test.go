package membership

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return NewRepository(sqlxDB), mock
}

func passRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "gym_id", "name", "duration_days", "price_cents", "visit_limit", "created_at",
	})
}

func membershipRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "gym_id", "pass_id", "status", "visit_limit", "visits_used",
		"price_cents", "valid_from", "valid_until", "created_at", "updated_at",
	})
}

func TestCreatePass(t *testing.T) {
	repo, mock := setupMock(t)
	ctx := context.Background()

	limit := 12
	req := CreatePassRequest{Name: "Monthly 12 Visits", DurationDays: 30, PriceCents: 450000, VisitLimit: &limit}

	mock.ExpectQuery("INSERT INTO membership_passes").
		WithArgs(1, "Monthly 12 Visits", 30, int64(450000), &limit).
		WillReturnRows(passRows().AddRow(1, 1, "Monthly 12 Visits", 30, 450000, 12, time.Now()))

	pass, err := repo.CreatePass(ctx, 1, req)

	require.NoError(t, err)
	assert.Equal(t, 1, pass.ID)
	assert.Equal(t, int64(450000), pass.PriceCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchase(t *testing.T) {
	repo, mock := setupMock(t)
	ctx := context.Background()

	limit := 12
	pass := &MembershipPass{ID: 3, GymID: 1, Name: "Monthly 12 Visits", DurationDays: 30, PriceCents: 450000, VisitLimit: &limit}

	now := time.Now()
	mock.ExpectQuery("INSERT INTO user_memberships").
		WithArgs(7, 1, 3, &limit, int64(450000), 30).
		WillReturnRows(membershipRows().
			AddRow(10, 7, 1, 3, "active", 12, 0, 450000, now, now.AddDate(0, 0, 30), now, now))

	m, err := repo.Purchase(ctx, 7, pass)

	require.NoError(t, err)
	assert.Equal(t, 10, m.ID)
	assert.Equal(t, StatusActive, m.Status)
	assert.Equal(t, 0, m.VisitsUsed)
}

func TestGetActiveForUserAndGym(t *testing.T) {
	repo, mock := setupMock(t)
	ctx := context.Background()

	t.Run("Active membership", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery("FROM user_memberships").
			WithArgs(7, 1).
			WillReturnRows(membershipRows().
				AddRow(10, 7, 1, 3, "active", 12, 4, 450000, now, now.AddDate(0, 0, 20), now, now))

		m, err := repo.GetActiveForUserAndGym(ctx, 7, 1)

		require.NoError(t, err)
		assert.Equal(t, 4, m.VisitsUsed)
	})

	t.Run("None active", func(t *testing.T) {
		mock.ExpectQuery("FROM user_memberships").
			WithArgs(7, 2).
			WillReturnError(sql.ErrNoRows)

		m, err := repo.GetActiveForUserAndGym(ctx, 7, 2)

		assert.Error(t, err)
		assert.Nil(t, m)
	})
}

func TestIncrementVisits(t *testing.T) {
	repo, mock := setupMock(t)
	ctx := context.Background()

	t.Run("Under the limit", func(t *testing.T) {
		mock.ExpectExec("UPDATE user_memberships").
			WithArgs(10).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.IncrementVisits(ctx, 10)

		assert.NoError(t, err)
	})

	t.Run("Limit reached", func(t *testing.T) {
		mock.ExpectExec("UPDATE user_memberships").
			WithArgs(10).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.IncrementVisits(ctx, 10)

		assert.ErrorIs(t, err, ErrVisitLimitReached)
	})
}

func TestCancel(t *testing.T) {
	repo, mock := setupMock(t)
	ctx := context.Background()

	t.Run("Active membership cancelled", func(t *testing.T) {
		mock.ExpectExec("UPDATE user_memberships").
			WithArgs(10, 7).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Cancel(ctx, 10, 7)

		assert.NoError(t, err)
	})

	t.Run("Already cancelled or not owned", func(t *testing.T) {
		mock.ExpectExec("UPDATE user_memberships").
			WithArgs(10, 7).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Cancel(ctx, 10, 7)

		assert.ErrorIs(t, err, ErrMembershipNotFound)
	})
}
