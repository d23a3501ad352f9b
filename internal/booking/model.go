package booking

import (
	"math"
	"time"
)

type BookingStatus string

const (
	StatusUpcoming  BookingStatus = "upcoming"
	StatusActive    BookingStatus = "active"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking snapshots the slot's date, times and price at creation time;
// later slot edits never change an existing booking.
type Booking struct {
	ID               int           `db:"id" json:"id"`
	UserID           int           `db:"user_id" json:"user_id"`
	GymID            int           `db:"gym_id" json:"gym_id"`
	EquipmentID      *int          `db:"equipment_id" json:"equipment_id,omitempty"`
	SlotID           int           `db:"slot_id" json:"slot_id"`
	MembershipID     *int          `db:"membership_id" json:"membership_id,omitempty"`
	BookingDate      time.Time     `db:"booking_date" json:"booking_date"`
	StartTime        string        `db:"start_time" json:"start_time"`
	EndTime          string        `db:"end_time" json:"end_time"`
	EquipmentStation *string       `db:"equipment_station" json:"equipment_station,omitempty"`
	TotalPriceCents  int64         `db:"total_price_cents" json:"total_price_cents"`
	Status           BookingStatus `db:"status" json:"status"`
	CheckedInAt      *time.Time    `db:"checked_in_at" json:"checked_in_at,omitempty"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updated_at"`
}

// Holds a reservation unit while upcoming or active. Completion keeps
// the unit; only cancellation releases it.
func (b *Booking) HoldsReservation() bool {
	return b.Status == StatusUpcoming || b.Status == StatusActive
}

type BookingWithDetails struct {
	Booking
	GymName       string `db:"gym_name" json:"gym_name"`
	CustomerName  string `db:"customer_name" json:"customer_name"`
	CustomerEmail string `db:"customer_email" json:"customer_email"`
}

type CreateBookingRequest struct {
	SlotID           int     `json:"slot_id" binding:"required"`
	EquipmentStation *string `json:"equipment_station"`
	UseMembership    bool    `json:"use_membership"`
}

// DashboardStats is the vendor dashboard aggregate for one gym.
type DashboardStats struct {
	TotalBookings       int   `db:"total_bookings" json:"total_bookings"`
	TodayBookings       int   `db:"today_bookings" json:"today_bookings"`
	UpcomingBookings    int   `db:"upcoming_bookings" json:"upcoming_bookings"`
	ActiveBookings      int   `db:"active_bookings" json:"active_bookings"`
	TotalRevenueCents   int64 `db:"total_revenue_cents" json:"total_revenue_cents"`
	TodayRevenueCents   int64 `db:"today_revenue_cents" json:"today_revenue_cents"`
	AvailableSlotsToday int   `db:"available_slots_today" json:"available_slots_today"`
	FullyBookedToday    int   `db:"fully_booked_today" json:"fully_booked_today"`
}

// TotalPriceCents computes the booking price from the slot snapshot:
// base price scaled by the surge multiplier, rounded to the cent.
func TotalPriceCents(basePriceCents int64, surgeMultiplier float64) int64 {
	if surgeMultiplier < 1.0 {
		surgeMultiplier = 1.0
	}
	return int64(math.Round(float64(basePriceCents) * surgeMultiplier))
}
