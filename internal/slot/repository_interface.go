package slot

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GetTimeSlotByID(ctx context.Context, id int) (*TimeSlot, error)

	// TryReserve atomically takes one unit of capacity on the slot. It
	// runs against q so callers can place it inside their own transaction
	// and roll the reservation back together with their other writes.
	TryReserve(ctx context.Context, q sqlx.ExtContext, id int) error

	// Release returns one unit of capacity. Decrementing an already-empty
	// slot is clamped and logged, not surfaced to the caller.
	Release(ctx context.Context, q sqlx.ExtContext, id int) error

	Create(ctx context.Context, s NewSlot) (*TimeSlot, error)
	CreateBulk(ctx context.Context, slots []NewSlot) (int, error)
	GetAvailableSlots(ctx context.Context, gymID int, date time.Time, equipmentID *int) ([]TimeSlot, error)
	GetSlotsByGym(ctx context.Context, gymID int, date *time.Time) ([]TimeSlot, error)
	SetAvailability(ctx context.Context, id int, available bool) (*TimeSlot, error)
	HasBookings(ctx context.Context, id int) (bool, error)
	Delete(ctx context.Context, id int) error
}
