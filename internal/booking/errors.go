package booking

import (
	"errors"
	"fmt"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNotBookingOwner  = errors.New("you can only manage your own bookings")
	ErrSlotUnavailable  = errors.New("time slot is not available")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrAlreadyCompleted = errors.New("cannot cancel a completed booking")

	// ErrInvalidTransition is the sentinel matched by errors.Is for any
	// InvalidTransitionError.
	ErrInvalidTransition = errors.New("invalid booking transition")
)

// InvalidTransitionError carries the current state so callers can
// distinguish "already in target state" from an illegal move.
type InvalidTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition booking from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
