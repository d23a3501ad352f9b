package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gymspot/internal/booking"
	"gymspot/internal/logger"
)

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAlreadyCheckedIn   = errors.New("already checked in for this booking")
	ErrAlreadyCheckedOut  = errors.New("already checked out")
)

const pgUniqueViolation = "23505"

const attendanceColumns = `id, booking_id, user_id, gym_id, check_in_time, check_out_time, created_at`

type repository struct {
	db       *sqlx.DB
	bookings booking.Repository
}

func NewRepository(db *sqlx.DB, bookings booking.Repository) Repository {
	return &repository{db: db, bookings: bookings}
}

// CreateWithActivation activates the booking and inserts the attendance
// row in one transaction. A failed insert rolls the activation back, so
// a booking is never left active without a visit record.
func (r *repository) CreateWithActivation(ctx context.Context, bookingID, userID, gymID int) (*Attendance, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := r.bookings.MarkActive(ctx, tx, bookingID, time.Now()); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO attendance (booking_id, user_id, gym_id, check_in_time)
		VALUES ($1, $2, $3, NOW())
		RETURNING ` + attendanceColumns

	var a Attendance
	err = sqlx.GetContext(ctx, tx, &a, query, bookingID, userID, gymID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &a, nil
}

func getByID(ctx context.Context, q sqlx.QueryerContext, id int) (*Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE id = $1`

	var a Attendance
	err := sqlx.GetContext(ctx, q, &a, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttendanceNotFound
		}
		return nil, err
	}

	return &a, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Attendance, error) {
	return getByID(ctx, r.db, id)
}

func (r *repository) GetByBookingID(ctx context.Context, bookingID int) (*Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE booking_id = $1`

	var a Attendance
	err := r.db.GetContext(ctx, &a, query, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttendanceNotFound
		}
		return nil, err
	}

	return &a, nil
}

// CloseOutWithCompletion stamps the visit end and completes the booking
// in one transaction. A booking cancelled mid-visit has already left the
// active state; the visit record still closes.
func (r *repository) CloseOutWithCompletion(ctx context.Context, id int) (*Attendance, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		UPDATE attendance
		SET check_out_time = NOW()
		WHERE id = $1 AND check_out_time IS NULL
		RETURNING ` + attendanceColumns

	var a Attendance
	err = sqlx.GetContext(ctx, tx, &a, query, id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if _, gerr := getByID(ctx, tx, id); gerr != nil {
			return nil, gerr
		}
		return nil, ErrAlreadyCheckedOut
	}

	if _, err := r.bookings.MarkCompleted(ctx, tx, a.BookingID); err != nil {
		var transition *booking.InvalidTransitionError
		if !errors.As(err, &transition) {
			return nil, err
		}
		logger.Error("check-out found booking outside active state", "booking_id", a.BookingID, "status", string(transition.From))
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &a, nil
}

func (r *repository) GetUserAttendance(ctx context.Context, userID int) ([]AttendanceWithDetails, error) {
	query := `
		SELECT a.id, a.booking_id, a.user_id, a.gym_id, a.check_in_time, a.check_out_time, a.created_at,
		       u.full_name AS customer_name,
		       g.name AS gym_name
		FROM attendance a
		JOIN users u ON a.user_id = u.id
		JOIN gyms g ON a.gym_id = g.id
		WHERE a.user_id = $1
		ORDER BY a.check_in_time DESC
	`

	var records []AttendanceWithDetails
	err := r.db.SelectContext(ctx, &records, query, userID)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *repository) GetGymAttendance(ctx context.Context, gymID int, date string) ([]AttendanceWithDetails, error) {
	query := `
		SELECT a.id, a.booking_id, a.user_id, a.gym_id, a.check_in_time, a.check_out_time, a.created_at,
		       u.full_name AS customer_name,
		       g.name AS gym_name
		FROM attendance a
		JOIN users u ON a.user_id = u.id
		JOIN gyms g ON a.gym_id = g.id
		WHERE a.gym_id = $1
	`
	args := []interface{}{gymID}

	if date != "" {
		query += " AND DATE(a.check_in_time) = $2"
		args = append(args, date)
	}

	query += " ORDER BY a.check_in_time DESC"

	var records []AttendanceWithDetails
	err := r.db.SelectContext(ctx, &records, query, args...)
	if err != nil {
		return nil, err
	}

	return records, nil
}
