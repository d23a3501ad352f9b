package slot

import (
	"context"
	"errors"
	"time"

	"gymspot/internal/equipment"
	"gymspot/internal/gym"
	"gymspot/internal/metrics"
)

var (
	ErrInvalidSlot       = errors.New("invalid time slot")
	ErrInvalidDateRange  = errors.New("end date must not be before start date")
	ErrEquipmentNotFound = errors.New("equipment not found or doesn't belong to this gym")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type Service interface {
	CreateSlot(ctx context.Context, vendorID int, req CreateSlotRequest) (*TimeSlot, error)
	CreateBulk(ctx context.Context, vendorID int, req BulkCreateRequest) (int, error)
	GetAvailableSlots(ctx context.Context, gymID int, date string, equipmentID *int) ([]TimeSlot, error)
	GetSlotsByGym(ctx context.Context, vendorID, gymID int, date string) ([]TimeSlot, error)
	SetAvailability(ctx context.Context, vendorID, slotID int, available bool) (*TimeSlot, error)
	DeleteSlot(ctx context.Context, vendorID, slotID int) error
}

type service struct {
	repo          Repository
	gymService    gym.Service
	equipmentRepo equipment.Repository
}

func NewService(repo Repository, gymService gym.Service, equipmentRepo equipment.Repository) Service {
	return &service{
		repo:          repo,
		gymService:    gymService,
		equipmentRepo: equipmentRepo,
	}
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidSlot
	}
	return d, nil
}

func parseClock(s string) (string, error) {
	if _, err := time.Parse(timeLayout, s); err == nil {
		return s, nil
	}
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t.Format(timeLayout), nil
	}
	return "", ErrInvalidSlot
}

func (s *service) checkEquipment(ctx context.Context, equipmentID *int, gymID int) error {
	if equipmentID == nil {
		return nil
	}
	ok, err := s.equipmentRepo.BelongsToGym(ctx, *equipmentID, gymID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrEquipmentNotFound
	}
	return nil
}

func (s *service) CreateSlot(ctx context.Context, vendorID int, req CreateSlotRequest) (*TimeSlot, error) {
	if _, err := s.gymService.RequireActiveOwned(ctx, req.GymID, vendorID); err != nil {
		return nil, err
	}

	if err := s.checkEquipment(ctx, req.EquipmentID, req.GymID); err != nil {
		return nil, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	start, err := parseClock(req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(req.EndTime)
	if err != nil {
		return nil, err
	}
	if end <= start {
		return nil, ErrInvalidSlot
	}

	surge := req.SurgeMultiplier
	if surge < 1.0 {
		surge = 1.0
	}

	created, err := s.repo.Create(ctx, NewSlot{
		GymID:           req.GymID,
		EquipmentID:     req.EquipmentID,
		Date:            date,
		StartTime:       start,
		EndTime:         end,
		Capacity:        req.Capacity,
		BasePriceCents:  req.BasePriceCents,
		SurgeMultiplier: surge,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordSlotsCreated("single", 1)
	return created, nil
}

func (s *service) CreateBulk(ctx context.Context, vendorID int, req BulkCreateRequest) (int, error) {
	if _, err := s.gymService.RequireActiveOwned(ctx, req.GymID, vendorID); err != nil {
		return 0, err
	}

	if err := s.checkEquipment(ctx, req.EquipmentID, req.GymID); err != nil {
		return 0, err
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return 0, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return 0, err
	}
	if end.Before(start) {
		return 0, ErrInvalidDateRange
	}

	templates := make([]SlotTemplate, 0, len(req.Templates))
	for _, tpl := range req.Templates {
		startClock, err := parseClock(tpl.StartTime)
		if err != nil {
			return 0, err
		}
		endClock, err := parseClock(tpl.EndTime)
		if err != nil {
			return 0, err
		}
		if endClock <= startClock {
			return 0, ErrInvalidSlot
		}
		tpl.StartTime = startClock
		tpl.EndTime = endClock
		templates = append(templates, tpl)
	}

	count, err := s.repo.CreateBulk(ctx, ExpandTemplates(req.GymID, req.EquipmentID, start, end, templates))
	if err != nil {
		return 0, err
	}

	metrics.RecordSlotsCreated("bulk", count)
	return count, nil
}

func (s *service) GetAvailableSlots(ctx context.Context, gymID int, date string, equipmentID *int) ([]TimeSlot, error) {
	d, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	return s.repo.GetAvailableSlots(ctx, gymID, d, equipmentID)
}

func (s *service) GetSlotsByGym(ctx context.Context, vendorID, gymID int, date string) ([]TimeSlot, error) {
	if _, err := s.gymService.RequireOwned(ctx, gymID, vendorID); err != nil {
		return nil, err
	}

	var d *time.Time
	if date != "" {
		parsed, err := parseDate(date)
		if err != nil {
			return nil, err
		}
		d = &parsed
	}

	return s.repo.GetSlotsByGym(ctx, gymID, d)
}

func (s *service) SetAvailability(ctx context.Context, vendorID, slotID int, available bool) (*TimeSlot, error) {
	existing, err := s.repo.GetTimeSlotByID(ctx, slotID)
	if err != nil {
		return nil, err
	}

	if _, err := s.gymService.RequireOwned(ctx, existing.GymID, vendorID); err != nil {
		return nil, err
	}

	return s.repo.SetAvailability(ctx, slotID, available)
}

func (s *service) DeleteSlot(ctx context.Context, vendorID, slotID int) error {
	existing, err := s.repo.GetTimeSlotByID(ctx, slotID)
	if err != nil {
		return err
	}

	if _, err := s.gymService.RequireOwned(ctx, existing.GymID, vendorID); err != nil {
		return err
	}

	hasBookings, err := s.repo.HasBookings(ctx, slotID)
	if err != nil {
		return err
	}
	if hasBookings {
		return ErrSlotHasBookings
	}

	return s.repo.Delete(ctx, slotID)
}
