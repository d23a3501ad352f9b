package attendance

import "context"

type Repository interface {
	CreateWithActivation(ctx context.Context, bookingID, userID, gymID int) (*Attendance, error)
	GetByID(ctx context.Context, id int) (*Attendance, error)
	GetByBookingID(ctx context.Context, bookingID int) (*Attendance, error)
	CloseOutWithCompletion(ctx context.Context, id int) (*Attendance, error)
	GetUserAttendance(ctx context.Context, userID int) ([]AttendanceWithDetails, error)
	GetGymAttendance(ctx context.Context, gymID int, date string) ([]AttendanceWithDetails, error)
}
