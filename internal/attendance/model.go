package attendance

import "time"

// Attendance is one visit record, tied 1:1 to a booking. Check-in
// creates it and moves the booking to active; check-out stamps the end
// and completes the booking.
type Attendance struct {
	ID           int        `db:"id" json:"id"`
	BookingID    int        `db:"booking_id" json:"booking_id"`
	UserID       int        `db:"user_id" json:"user_id"`
	GymID        int        `db:"gym_id" json:"gym_id"`
	CheckInTime  time.Time  `db:"check_in_time" json:"check_in_time"`
	CheckOutTime *time.Time `db:"check_out_time" json:"check_out_time,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

type AttendanceWithDetails struct {
	Attendance
	CustomerName string `db:"customer_name" json:"customer_name"`
	GymName      string `db:"gym_name" json:"gym_name"`
}

type CheckInRequest struct {
	BookingID int `json:"booking_id" binding:"required"`
}
