package booking

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// CreateParams is the input to the reserve-then-persist transaction.
type CreateParams struct {
	UserID           int
	SlotID           int
	EquipmentStation *string
	MembershipID     *int
}

type Repository interface {
	// CreateWithReservation reserves one unit of slot capacity and
	// persists the booking in a single transaction. Either both happen
	// or neither does.
	CreateWithReservation(ctx context.Context, p CreateParams) (*Booking, error)

	GetBookingByID(ctx context.Context, id int) (*Booking, error)

	// CancelWithRelease flips the booking to cancelled (only from
	// upcoming or active) and releases the slot unit, transactionally.
	CancelWithRelease(ctx context.Context, id int) (*Booking, error)

	// MarkActive and MarkCompleted drive the check-in/check-out
	// transitions. Neither touches slot capacity. Both run on the
	// caller's executor so the attendance write commits with them.
	MarkActive(ctx context.Context, q sqlx.ExtContext, id int, checkedInAt time.Time) (*Booking, error)
	MarkCompleted(ctx context.Context, q sqlx.ExtContext, id int) (*Booking, error)

	GetUserBookings(ctx context.Context, userID int, status string) ([]Booking, error)
	GetGymBookings(ctx context.Context, gymID int, date *time.Time, status string) ([]BookingWithDetails, error)
	GetDashboardStats(ctx context.Context, gymID int, day time.Time) (*DashboardStats, error)
}
