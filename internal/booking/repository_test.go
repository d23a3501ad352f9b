package booking

import (
	"context"
	"testing"
	"time"

	"gymspot/internal/logger"
	"gymspot/internal/slot"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, *sqlx.DB, sqlmock.Sqlmock, func()) {
	logger.Init()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB, slot.NewRepository(sqlxDB), 2*time.Second)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, sqlxDB, mock, closer
}

func slotSnapshotRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "gym_id", "equipment_id", "date", "start_time", "end_time", "capacity",
		"booked_count", "base_price_cents", "surge_multiplier", "is_available", "created_at",
	}).AddRow(2, 1, nil, now, "10:00", "11:00", 3, 1, int64(5000), 1.2, true, now)
}

func bookingRows(now time.Time, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "gym_id", "equipment_id", "slot_id", "membership_id", "booking_date",
		"start_time", "end_time", "equipment_station", "total_price_cents", "status",
		"checked_in_at", "created_at", "updated_at",
	}).AddRow(10, 1, 1, nil, 2, nil, now, "10:00", "11:00", nil, int64(6000), status, nil, now, now)
}

func TestCreateWithReservation_Success(t *testing.T) {
	repo, _, mock, close := setupMock(t)
	defer close()

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL lock_timeout").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE time_slots").
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, gym_id, equipment_id").
		WithArgs(2).
		WillReturnRows(slotSnapshotRows(now))
	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(1, 1, nil, 2, nil, now, "10:00", "11:00", nil, int64(6000)).
		WillReturnRows(bookingRows(now, "upcoming"))
	mock.ExpectCommit()

	b, err := repo.CreateWithReservation(context.Background(), CreateParams{UserID: 1, SlotID: 2})
	require.NoError(t, err)

	assert.Equal(t, 10, b.ID)
	assert.Equal(t, int64(6000), b.TotalPriceCents)
	assert.Equal(t, StatusUpcoming, b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithReservation_SlotFull(t *testing.T) {
	repo, _, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL lock_timeout").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE time_slots").
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.CreateWithReservation(context.Background(), CreateParams{UserID: 1, SlotID: 2})
	assert.ErrorIs(t, err, slot.ErrSlotFull)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithReservation_SlotNotFound(t *testing.T) {
	repo, _, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL lock_timeout").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE time_slots").
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := repo.CreateWithReservation(context.Background(), CreateParams{UserID: 1, SlotID: 99})
	assert.ErrorIs(t, err, slot.ErrSlotNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelWithRelease_Success(t *testing.T) {
	repo, _, mock, close := setupMock(t)
	defer close()

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL lock_timeout").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("UPDATE bookings").
		WithArgs(10).
		WillReturnRows(bookingRows(now, "cancelled"))
	mock.ExpectExec("UPDATE time_slots").
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := repo.CancelWithRelease(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelWithRelease_AlreadyCancelled(t *testing.T) {
	repo, _, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL lock_timeout").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("UPDATE bookings").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT status FROM bookings").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("cancelled"))
	mock.ExpectRollback()

	_, err := repo.CancelWithRelease(context.Background(), 10)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelWithRelease_Completed(t *testing.T) {
	repo, _, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL lock_timeout").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("UPDATE bookings").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT status FROM bookings").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("completed"))
	mock.ExpectRollback()

	_, err := repo.CancelWithRelease(context.Background(), 10)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkActive_InvalidFromCompleted(t *testing.T) {
	repo, db, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery("UPDATE bookings").
		WithArgs(10, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT status FROM bookings").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("completed"))

	_, err := repo.MarkActive(context.Background(), db, 10, time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkCompleted_Success(t *testing.T) {
	repo, db, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery("UPDATE bookings").
		WithArgs(10).
		WillReturnRows(bookingRows(time.Now(), "completed"))

	b, err := repo.MarkCompleted(context.Background(), db, 10)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingByID_NotFound(t *testing.T) {
	repo, _, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetBookingByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
