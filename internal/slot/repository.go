package slot

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gymspot/internal/logger"
)

var (
	ErrSlotNotFound    = errors.New("time slot not found")
	ErrSlotFull        = errors.New("time slot is full or unavailable")
	ErrSlotBusy        = errors.New("time slot is busy, retry")
	ErrSlotHasBookings = errors.New("time slot has bookings and cannot be deleted")
)

// pgLockNotAvailable is raised when lock_timeout expires while waiting
// for a contended slot row.
const pgLockNotAvailable = "55P03"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetTimeSlotByID(ctx context.Context, id int) (*TimeSlot, error) {
	query := `
		SELECT id, gym_id, equipment_id, date, start_time, end_time, capacity,
		       booked_count, base_price_cents, surge_multiplier, is_available, created_at
		FROM time_slots
		WHERE id = $1
	`

	var slot TimeSlot
	err := r.db.GetContext(ctx, &slot, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	return &slot, nil
}

// TryReserve is the single conditional UPDATE that serializes concurrent
// reservations per slot. Two callers racing for the last unit cannot both
// match the WHERE clause, so capacity is never oversold.
func (r *repository) TryReserve(ctx context.Context, q sqlx.ExtContext, id int) error {
	query := `
		UPDATE time_slots
		SET booked_count = booked_count + 1,
		    is_available = (booked_count + 1 < capacity)
		WHERE id = $1 AND is_available = TRUE AND booked_count < capacity
	`

	result, err := q.ExecContext(ctx, query, id)
	if err != nil {
		if isLockTimeout(err) {
			return ErrSlotBusy
		}
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 1 {
		return nil
	}

	// Zero rows: the slot is either absent or at capacity. Probe which,
	// so callers can surface not-found and full distinctly.
	var exists bool
	if err := sqlx.GetContext(ctx, q, &exists, `SELECT EXISTS(SELECT 1 FROM time_slots WHERE id = $1)`, id); err != nil {
		return err
	}
	if !exists {
		return ErrSlotNotFound
	}
	return ErrSlotFull
}

func (r *repository) Release(ctx context.Context, q sqlx.ExtContext, id int) error {
	query := `
		UPDATE time_slots
		SET booked_count = booked_count - 1,
		    is_available = (booked_count - 1 < capacity)
		WHERE id = $1 AND booked_count > 0
	`

	result, err := q.ExecContext(ctx, query, id)
	if err != nil {
		if isLockTimeout(err) {
			return ErrSlotBusy
		}
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 1 {
		return nil
	}

	var exists bool
	if err := sqlx.GetContext(ctx, q, &exists, `SELECT EXISTS(SELECT 1 FROM time_slots WHERE id = $1)`, id); err != nil {
		return err
	}
	if !exists {
		return ErrSlotNotFound
	}

	// booked_count was already zero. A release without a matching
	// reservation is a logic error upstream; clamp and log.
	logger.Error("release on empty slot clamped", "slot_id", id)
	return nil
}

func (r *repository) Create(ctx context.Context, s NewSlot) (*TimeSlot, error) {
	query := `
		INSERT INTO time_slots (gym_id, equipment_id, date, start_time, end_time, capacity, base_price_cents, surge_multiplier)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, gym_id, equipment_id, date, start_time, end_time, capacity,
		          booked_count, base_price_cents, surge_multiplier, is_available, created_at
	`

	var slot TimeSlot
	err := r.db.GetContext(ctx, &slot, query,
		s.GymID, s.EquipmentID, s.Date, s.StartTime, s.EndTime, s.Capacity, s.BasePriceCents, s.SurgeMultiplier)
	if err != nil {
		return nil, err
	}

	return &slot, nil
}

func (r *repository) CreateBulk(ctx context.Context, slots []NewSlot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO time_slots (gym_id, equipment_id, date, start_time, end_time, capacity, base_price_cents, surge_multiplier)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, s := range slots {
		if _, err := stmt.ExecContext(ctx,
			s.GymID, s.EquipmentID, s.Date, s.StartTime, s.EndTime, s.Capacity, s.BasePriceCents, s.SurgeMultiplier); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(slots), nil
}

func (r *repository) GetAvailableSlots(ctx context.Context, gymID int, date time.Time, equipmentID *int) ([]TimeSlot, error) {
	query := `
		SELECT id, gym_id, equipment_id, date, start_time, end_time, capacity,
		       booked_count, base_price_cents, surge_multiplier, is_available, created_at
		FROM time_slots
		WHERE gym_id = $1 AND date = $2 AND is_available = TRUE AND booked_count < capacity
	`
	args := []interface{}{gymID, date}

	if equipmentID != nil {
		query += " AND equipment_id = $3"
		args = append(args, *equipmentID)
	}

	query += " ORDER BY start_time ASC"

	var slots []TimeSlot
	err := r.db.SelectContext(ctx, &slots, query, args...)
	if err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *repository) GetSlotsByGym(ctx context.Context, gymID int, date *time.Time) ([]TimeSlot, error) {
	query := `
		SELECT id, gym_id, equipment_id, date, start_time, end_time, capacity,
		       booked_count, base_price_cents, surge_multiplier, is_available, created_at
		FROM time_slots
		WHERE gym_id = $1
	`
	args := []interface{}{gymID}

	if date != nil {
		query += " AND date = $2"
		args = append(args, *date)
	}

	query += " ORDER BY date ASC, start_time ASC"

	var slots []TimeSlot
	err := r.db.SelectContext(ctx, &slots, query, args...)
	if err != nil {
		return nil, err
	}

	return slots, nil
}

// SetAvailability is the administrative override. Forcing a slot open
// never exposes a full slot: the flag is AND-ed with the live count.
func (r *repository) SetAvailability(ctx context.Context, id int, available bool) (*TimeSlot, error) {
	query := `
		UPDATE time_slots
		SET is_available = ($2 AND booked_count < capacity)
		WHERE id = $1
		RETURNING id, gym_id, equipment_id, date, start_time, end_time, capacity,
		          booked_count, base_price_cents, surge_multiplier, is_available, created_at
	`

	var slot TimeSlot
	err := r.db.GetContext(ctx, &slot, query, id, available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	return &slot, nil
}

func (r *repository) HasBookings(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM bookings WHERE slot_id = $1)`, id)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	// bookings.slot_id is ON DELETE RESTRICT; surface the violation as a
	// domain error instead of a raw pq error.
	_, err := r.db.ExecContext(ctx, `DELETE FROM time_slots WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return ErrSlotHasBookings
		}
		return err
	}
	return nil
}

func isLockTimeout(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgLockNotAvailable
}
