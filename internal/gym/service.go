package gym

import (
	"context"
	"errors"
)

var (
	ErrGymNotFound  = errors.New("gym not found")
	ErrNotGymOwner  = errors.New("gym does not belong to this vendor")
	ErrGymNotActive = errors.New("gym is not active")
)

type Service interface {
	CreateGym(ctx context.Context, vendorID int, req CreateGymRequest) (*Gym, error)
	GetAllGyms(ctx context.Context) ([]Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	GetGymsByVendor(ctx context.Context, vendorID int) ([]Gym, error)
	UpdateStatus(ctx context.Context, id int, status GymStatus) (*Gym, error)

	// RequireActiveOwned loads a gym and verifies that vendorID owns it and
	// that the gym is active. Used as a pre-condition by the slot and
	// equipment services before any write.
	RequireActiveOwned(ctx context.Context, gymID, vendorID int) (*Gym, error)
	RequireOwned(ctx context.Context, gymID, vendorID int) (*Gym, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateGym(ctx context.Context, vendorID int, req CreateGymRequest) (*Gym, error) {
	return s.repo.CreateGym(ctx, vendorID, req)
}

func (s *service) GetAllGyms(ctx context.Context) ([]Gym, error) {
	return s.repo.GetAllGyms(ctx)
}

func (s *service) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	gym, err := s.repo.GetGymByID(ctx, id)
	if err != nil {
		return nil, ErrGymNotFound
	}
	return gym, nil
}

func (s *service) GetGymsByVendor(ctx context.Context, vendorID int) ([]Gym, error) {
	return s.repo.GetGymsByVendor(ctx, vendorID)
}

func (s *service) UpdateStatus(ctx context.Context, id int, status GymStatus) (*Gym, error) {
	_, err := s.repo.GetGymByID(ctx, id)
	if err != nil {
		return nil, ErrGymNotFound
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *service) RequireOwned(ctx context.Context, gymID, vendorID int) (*Gym, error) {
	gym, err := s.repo.GetGymByID(ctx, gymID)
	if err != nil {
		return nil, ErrGymNotFound
	}
	if gym.VendorID != vendorID {
		return nil, ErrNotGymOwner
	}
	return gym, nil
}

func (s *service) RequireActiveOwned(ctx context.Context, gymID, vendorID int) (*Gym, error) {
	gym, err := s.RequireOwned(ctx, gymID, vendorID)
	if err != nil {
		return nil, err
	}
	if gym.Status != StatusActive {
		return nil, ErrGymNotActive
	}
	return gym, nil
}
