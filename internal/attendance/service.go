package attendance

import (
	"context"
	"errors"

	"gymspot/internal/booking"
	"gymspot/internal/gym"
	"gymspot/internal/metrics"
)

type Service interface {
	CheckIn(ctx context.Context, userID, bookingID int) (*Attendance, error)
	CheckOut(ctx context.Context, userID, attendanceID int) (*Attendance, error)
	GetMyAttendance(ctx context.Context, userID int) ([]AttendanceWithDetails, error)
	GetGymAttendance(ctx context.Context, vendorID, gymID int, date string) ([]AttendanceWithDetails, error)
}

type service struct {
	repo        Repository
	bookingRepo booking.Repository
	gymService  gym.Service
}

func NewService(repo Repository, bookingRepo booking.Repository, gymService gym.Service) Service {
	return &service{
		repo:        repo,
		bookingRepo: bookingRepo,
		gymService:  gymService,
	}
}

// CheckIn moves the booking from upcoming to active and records the
// visit, atomically. A second check-in on the same booking is rejected
// by both the state gate and the attendance uniqueness constraint.
func (s *service) CheckIn(ctx context.Context, userID, bookingID int) (*Attendance, error) {
	b, err := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.UserID != userID {
		return nil, booking.ErrNotBookingOwner
	}

	a, err := s.repo.CreateWithActivation(ctx, bookingID, b.UserID, b.GymID)
	if err != nil {
		var transition *booking.InvalidTransitionError
		if errors.As(err, &transition) && transition.From == booking.StatusActive {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}

	metrics.RecordCheckIn()

	return a, nil
}

// CheckOut stamps the visit end and completes the booking. The booked
// capacity unit stays consumed.
func (s *service) CheckOut(ctx context.Context, userID, attendanceID int) (*Attendance, error) {
	a, err := s.repo.GetByID(ctx, attendanceID)
	if err != nil {
		return nil, err
	}

	if a.UserID != userID {
		return nil, booking.ErrNotBookingOwner
	}

	return s.repo.CloseOutWithCompletion(ctx, attendanceID)
}

func (s *service) GetMyAttendance(ctx context.Context, userID int) ([]AttendanceWithDetails, error) {
	return s.repo.GetUserAttendance(ctx, userID)
}

func (s *service) GetGymAttendance(ctx context.Context, vendorID, gymID int, date string) ([]AttendanceWithDetails, error) {
	if _, err := s.gymService.RequireOwned(ctx, gymID, vendorID); err != nil {
		return nil, err
	}

	return s.repo.GetGymAttendance(ctx, gymID, date)
}
