package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymspot/internal/email"
	"gymspot/internal/gym"
	"gymspot/internal/logger"
	"gymspot/internal/membership"
	"gymspot/internal/metrics"
	"gymspot/internal/payment"
	"gymspot/internal/slot"
	"gymspot/internal/user"
)

type Service interface {
	Reserve(ctx context.Context, userID int, req CreateBookingRequest) (*Booking, error)
	Cancel(ctx context.Context, userID, bookingID int) (*Booking, error)
	GetBooking(ctx context.Context, userID int, userType string, bookingID int) (*Booking, error)
	GetMyBookings(ctx context.Context, userID int, status string) ([]Booking, error)
	GetGymBookings(ctx context.Context, vendorID, gymID int, date, status string) ([]BookingWithDetails, error)
	GetDashboard(ctx context.Context, vendorID, gymID int) (*DashboardStats, error)
}

type service struct {
	repo           Repository
	slotRepo       slot.Repository
	gymService     gym.Service
	membershipRepo membership.Repository
	paymentRepo    payment.Repository
	userRepo       user.Repository
	emailService   *email.Service
}

func NewService(
	repo Repository,
	slotRepo slot.Repository,
	gymService gym.Service,
	membershipRepo membership.Repository,
	paymentRepo payment.Repository,
	userRepo user.Repository,
	emailService *email.Service,
) Service {
	return &service{
		repo:           repo,
		slotRepo:       slotRepo,
		gymService:     gymService,
		membershipRepo: membershipRepo,
		paymentRepo:    paymentRepo,
		userRepo:       userRepo,
		emailService:   emailService,
	}
}

func (s *service) Reserve(ctx context.Context, userID int, req CreateBookingRequest) (*Booking, error) {
	target, err := s.slotRepo.GetTimeSlotByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slot.ErrSlotNotFound) {
			metrics.RecordReservation(metrics.OutcomeNotFound)
		}
		return nil, err
	}

	// Reject-fast on an obviously full slot. The authoritative check is
	// the conditional update inside the transaction below.
	if !target.LiveAvailable() {
		metrics.RecordReservation(metrics.OutcomeSlotFull)
		return nil, ErrSlotUnavailable
	}

	var membershipID *int
	if req.UseMembership {
		m, merr := s.membershipRepo.GetActiveForUserAndGym(ctx, userID, target.GymID)
		if merr == nil && m.HasVisitsLeft() {
			membershipID = &m.ID
		}
	}

	b, err := s.repo.CreateWithReservation(ctx, CreateParams{
		UserID:           userID,
		SlotID:           req.SlotID,
		EquipmentStation: req.EquipmentStation,
		MembershipID:     membershipID,
	})
	if err != nil {
		switch {
		case errors.Is(err, slot.ErrSlotNotFound):
			metrics.RecordReservation(metrics.OutcomeNotFound)
			return nil, err
		case errors.Is(err, slot.ErrSlotFull):
			metrics.RecordReservation(metrics.OutcomeSlotFull)
			return nil, ErrSlotUnavailable
		case errors.Is(err, slot.ErrSlotBusy):
			metrics.RecordReservation(metrics.OutcomeBusy)
			return nil, err
		default:
			metrics.RecordReservation(metrics.OutcomeError)
			return nil, err
		}
	}

	metrics.RecordReservation(metrics.OutcomeReserved)

	// Bookkeeping after the reservation committed; failures here are
	// logged, they never unwind the booking.
	if membershipID != nil {
		if err := s.membershipRepo.IncrementVisits(ctx, *membershipID); err != nil {
			logger.Error("failed to record membership visit", "membership_id", *membershipID, "error", err)
		}
	} else {
		if _, err := s.paymentRepo.Create(ctx, &b.ID, userID, b.GymID, b.TotalPriceCents, "card"); err != nil {
			logger.Error("failed to record payment", "booking_id", b.ID, "error", err)
		}
	}

	s.notify(ctx, b, "confirmation")

	return b, nil
}

func (s *service) Cancel(ctx context.Context, userID, bookingID int) (*Booking, error) {
	b, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.UserID != userID {
		return nil, ErrNotBookingOwner
	}

	cancelled, err := s.repo.CancelWithRelease(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	metrics.RecordBookingCancellation()

	if err := s.paymentRepo.RefundForBooking(ctx, bookingID); err != nil {
		logger.Error("failed to mark payment refunded", "booking_id", bookingID, "error", err)
	}

	s.notify(ctx, cancelled, "cancellation")

	return cancelled, nil
}

func (s *service) notify(ctx context.Context, b *Booking, kind string) {
	u, err := s.userRepo.FindByID(ctx, b.UserID)
	if err != nil {
		return
	}

	gymName := "your gym"
	if g, gerr := s.gymService.GetGymByID(ctx, b.GymID); gerr == nil {
		gymName = g.Name
	}

	when := fmt.Sprintf("%s %s", b.BookingDate.Format("Jan 2, 2006"), b.StartTime)

	if kind == "cancellation" {
		s.emailService.SendBookingCancellation(ctx, u.Email, u.FullName, gymName, when)
		return
	}
	s.emailService.SendBookingConfirmation(ctx, u.Email, u.FullName, gymName, when)
}

func (s *service) GetBooking(ctx context.Context, userID int, userType string, bookingID int) (*Booking, error) {
	b, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch userType {
	case "vendor":
		if _, err := s.gymService.RequireOwned(ctx, b.GymID, userID); err != nil {
			return nil, ErrNotBookingOwner
		}
	case "admin":
		// admins can see everything
	default:
		if b.UserID != userID {
			return nil, ErrNotBookingOwner
		}
	}

	return b, nil
}

func (s *service) GetMyBookings(ctx context.Context, userID int, status string) ([]Booking, error) {
	return s.repo.GetUserBookings(ctx, userID, status)
}

func (s *service) GetGymBookings(ctx context.Context, vendorID, gymID int, date, status string) ([]BookingWithDetails, error) {
	if _, err := s.gymService.RequireOwned(ctx, gymID, vendorID); err != nil {
		return nil, err
	}

	var d *time.Time
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", date, err)
		}
		d = &parsed
	}

	return s.repo.GetGymBookings(ctx, gymID, d, status)
}

func (s *service) GetDashboard(ctx context.Context, vendorID, gymID int) (*DashboardStats, error) {
	if _, err := s.gymService.RequireOwned(ctx, gymID, vendorID); err != nil {
		return nil, err
	}

	// Truncate in the server's local zone; Truncate on a time.Time would
	// cut at UTC midnight instead.
	y, m, d := time.Now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return s.repo.GetDashboardStats(ctx, gymID, today)
}
