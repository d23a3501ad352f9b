package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"gymspot/internal/logger"
	"gymspot/internal/slot"
)

const bookingColumns = `id, user_id, gym_id, equipment_id, slot_id, membership_id, booking_date,
	start_time, end_time, equipment_station, total_price_cents, status, checked_in_at, created_at, updated_at`

type repository struct {
	db          *sqlx.DB
	slots       slot.Repository
	lockTimeout time.Duration
}

func NewRepository(db *sqlx.DB, slots slot.Repository, lockTimeout time.Duration) Repository {
	return &repository{
		db:          db,
		slots:       slots,
		lockTimeout: lockTimeout,
	}
}

func (r *repository) CreateWithReservation(ctx context.Context, p CreateParams) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Bound the wait on a contended slot row; expiry surfaces as a
	// retryable busy error, never as a half-applied reservation.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())); err != nil {
		return nil, err
	}

	if err := r.slots.TryReserve(ctx, tx, p.SlotID); err != nil {
		return nil, err
	}

	// Snapshot the slot inside the same transaction. The row is locked
	// by our own update, so the price and time fields are stable.
	var s slot.TimeSlot
	err = sqlx.GetContext(ctx, tx, &s, `
		SELECT id, gym_id, equipment_id, date, start_time, end_time, capacity,
		       booked_count, base_price_cents, surge_multiplier, is_available, created_at
		FROM time_slots
		WHERE id = $1
	`, p.SlotID)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO bookings (user_id, gym_id, equipment_id, slot_id, membership_id, booking_date,
		                      start_time, end_time, equipment_station, total_price_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'upcoming')
		RETURNING ` + bookingColumns

	var b Booking
	err = sqlx.GetContext(ctx, tx, &b, query,
		p.UserID, s.GymID, s.EquipmentID, s.ID, p.MembershipID, s.Date,
		s.StartTime, s.EndTime, p.EquipmentStation, TotalPriceCents(s.BasePriceCents, s.SurgeMultiplier))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) GetBookingByID(ctx context.Context, id int) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

// currentStatus resolves which gate rejected a conditional update.
func currentStatus(ctx context.Context, q sqlx.QueryerContext, id int) (BookingStatus, error) {
	var status BookingStatus
	err := sqlx.GetContext(ctx, q, &status, `SELECT status FROM bookings WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrBookingNotFound
		}
		return "", err
	}
	return status, nil
}

func (r *repository) CancelWithRelease(ctx context.Context, id int) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())); err != nil {
		return nil, err
	}

	query := `
		UPDATE bookings
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status IN ('upcoming', 'active')
		RETURNING ` + bookingColumns

	var b Booking
	err = sqlx.GetContext(ctx, tx, &b, query, id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		status, serr := currentStatus(ctx, tx, id)
		if serr != nil {
			return nil, serr
		}
		switch status {
		case StatusCancelled:
			return nil, ErrAlreadyCancelled
		case StatusCompleted:
			return nil, ErrAlreadyCompleted
		default:
			return nil, &InvalidTransitionError{From: status, To: StatusCancelled}
		}
	}

	// The booking held exactly one unit (the state gate above makes
	// this transition fire at most once), so release exactly once. A
	// deleted slot should not happen under restrict-delete; if it does,
	// the release is a no-op and the cancellation still completes.
	if err := r.slots.Release(ctx, tx, b.SlotID); err != nil {
		if !errors.Is(err, slot.ErrSlotNotFound) {
			return nil, err
		}
		logger.Error("cancelled booking references missing slot", "booking_id", b.ID, "slot_id", b.SlotID)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) MarkActive(ctx context.Context, q sqlx.ExtContext, id int, checkedInAt time.Time) (*Booking, error) {
	query := `
		UPDATE bookings
		SET status = 'active', checked_in_at = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'upcoming'
		RETURNING ` + bookingColumns

	var b Booking
	err := sqlx.GetContext(ctx, q, &b, query, id, checkedInAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		status, serr := currentStatus(ctx, q, id)
		if serr != nil {
			return nil, serr
		}
		return nil, &InvalidTransitionError{From: status, To: StatusActive}
	}

	return &b, nil
}

func (r *repository) MarkCompleted(ctx context.Context, q sqlx.ExtContext, id int) (*Booking, error) {
	query := `
		UPDATE bookings
		SET status = 'completed', updated_at = NOW()
		WHERE id = $1 AND status = 'active'
		RETURNING ` + bookingColumns

	var b Booking
	err := sqlx.GetContext(ctx, q, &b, query, id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		status, serr := currentStatus(ctx, q, id)
		if serr != nil {
			return nil, serr
		}
		return nil, &InvalidTransitionError{From: status, To: StatusCompleted}
	}

	return &b, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID int, status string) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1`
	args := []interface{}{userID}

	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
	}

	query += " ORDER BY booking_date DESC, start_time DESC"

	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, args...)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) GetGymBookings(ctx context.Context, gymID int, date *time.Time, status string) ([]BookingWithDetails, error) {
	query := `
		SELECT
			b.id, b.user_id, b.gym_id, b.equipment_id, b.slot_id, b.membership_id, b.booking_date,
			b.start_time, b.end_time, b.equipment_station, b.total_price_cents, b.status,
			b.checked_in_at, b.created_at, b.updated_at,
			g.name AS gym_name,
			u.full_name AS customer_name,
			u.email AS customer_email
		FROM bookings b
		JOIN gyms g ON b.gym_id = g.id
		JOIN users u ON b.user_id = u.id
		WHERE b.gym_id = $1
	`
	args := []interface{}{gymID}

	if date != nil {
		args = append(args, *date)
		query += fmt.Sprintf(" AND b.booking_date = $%d", len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND b.status = $%d", len(args))
	}

	query += " ORDER BY b.booking_date DESC, b.start_time DESC"

	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, query, args...)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) GetDashboardStats(ctx context.Context, gymID int, day time.Time) (*DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM bookings WHERE gym_id = $1) AS total_bookings,
			(SELECT COUNT(*) FROM bookings WHERE gym_id = $1 AND booking_date = $2) AS today_bookings,
			(SELECT COUNT(*) FROM bookings WHERE gym_id = $1 AND status = 'upcoming' AND booking_date >= $2) AS upcoming_bookings,
			(SELECT COUNT(*) FROM bookings WHERE gym_id = $1 AND status = 'active') AS active_bookings,
			(SELECT COALESCE(SUM(total_price_cents), 0) FROM bookings
				WHERE gym_id = $1 AND status IN ('upcoming', 'active', 'completed')) AS total_revenue_cents,
			(SELECT COALESCE(SUM(total_price_cents), 0) FROM bookings
				WHERE gym_id = $1 AND booking_date = $2 AND status IN ('upcoming', 'active', 'completed')) AS today_revenue_cents,
			(SELECT COUNT(*) FROM time_slots
				WHERE gym_id = $1 AND date = $2 AND is_available = TRUE AND booked_count < capacity) AS available_slots_today,
			(SELECT COUNT(*) FROM time_slots
				WHERE gym_id = $1 AND date = $2 AND booked_count >= capacity) AS fully_booked_today
	`

	var stats DashboardStats
	err := r.db.GetContext(ctx, &stats, query, gymID, day)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
