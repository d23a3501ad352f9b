package payment

import (
	"context"
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

func paymentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "booking_id", "user_id", "gym_id", "amount_cents", "method", "status", "created_at", "updated_at",
	})
}

func TestCreate(t *testing.T) {
	repo, mock := setupMock(t)
	ctx := context.Background()

	bookingID := 10
	now := time.Now()

	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(&bookingID, 7, 1, int64(6000), "card").
		WillReturnRows(paymentRows().
			AddRow(1, 10, 7, 1, 6000, "card", "completed", now, now))

	p, err := repo.Create(ctx, &bookingID, 7, 1, 6000, "card")

	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, StatusCompleted, p.Status)
	assert.Equal(t, int64(6000), p.AmountCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundForBooking(t *testing.T) {
	repo, mock := setupMock(t)
	ctx := context.Background()

	t.Run("Refunds completed payment", func(t *testing.T) {
		mock.ExpectExec("UPDATE payments").
			WithArgs(10).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.RefundForBooking(ctx, 10)

		assert.NoError(t, err)
	})

	t.Run("No payment is not an error", func(t *testing.T) {
		mock.ExpectExec("UPDATE payments").
			WithArgs(11).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.RefundForBooking(ctx, 11)

		assert.NoError(t, err)
	})
}

func TestGetUserPayments(t *testing.T) {
	repo, mock := setupMock(t)
	ctx := context.Background()

	now := time.Now()
	mock.ExpectQuery("FROM payments").
		WithArgs(7).
		WillReturnRows(paymentRows().
			AddRow(2, 11, 7, 1, 450000, "card", "completed", now, now).
			AddRow(1, 10, 7, 1, 6000, "card", "refunded", now, now))

	payments, err := repo.GetUserPayments(ctx, 7)

	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, StatusRefunded, payments[1].Status)
}
