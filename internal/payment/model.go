package payment

import "time"

type PaymentStatus string

const (
	StatusCompleted PaymentStatus = "completed"
	StatusRefunded  PaymentStatus = "refunded"
)

// Payment is a bookkeeping record only; no gateway is involved.
type Payment struct {
	ID          int           `db:"id" json:"id"`
	BookingID   *int          `db:"booking_id" json:"booking_id,omitempty"`
	UserID      int           `db:"user_id" json:"user_id"`
	GymID       int           `db:"gym_id" json:"gym_id"`
	AmountCents int64         `db:"amount_cents" json:"amount_cents"`
	Method      string        `db:"method" json:"method"`
	Status      PaymentStatus `db:"status" json:"status"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}
