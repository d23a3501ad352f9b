package payment

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, bookingID *int, userID, gymID int, amountCents int64, method string) (*Payment, error)
	RefundForBooking(ctx context.Context, bookingID int) error
	GetUserPayments(ctx context.Context, userID int) ([]Payment, error)
	GetGymPayments(ctx context.Context, gymID int) ([]Payment, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, bookingID *int, userID, gymID int, amountCents int64, method string) (*Payment, error) {
	query := `
		INSERT INTO payments (booking_id, user_id, gym_id, amount_cents, method, status)
		VALUES ($1, $2, $3, $4, $5, 'completed')
		RETURNING id, booking_id, user_id, gym_id, amount_cents, method, status, created_at, updated_at
	`

	var p Payment
	err := r.db.GetContext(ctx, &p, query, bookingID, userID, gymID, amountCents, method)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) RefundForBooking(ctx context.Context, bookingID int) error {
	query := `
		UPDATE payments
		SET status = 'refunded', updated_at = NOW()
		WHERE booking_id = $1 AND status = 'completed'
	`

	_, err := r.db.ExecContext(ctx, query, bookingID)
	return err
}

func (r *repository) GetUserPayments(ctx context.Context, userID int) ([]Payment, error) {
	query := `
		SELECT id, booking_id, user_id, gym_id, amount_cents, method, status, created_at, updated_at
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var payments []Payment
	err := r.db.SelectContext(ctx, &payments, query, userID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *repository) GetGymPayments(ctx context.Context, gymID int) ([]Payment, error) {
	query := `
		SELECT id, booking_id, user_id, gym_id, amount_cents, method, status, created_at, updated_at
		FROM payments
		WHERE gym_id = $1
		ORDER BY created_at DESC
	`

	var payments []Payment
	err := r.db.SelectContext(ctx, &payments, query, gymID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}
