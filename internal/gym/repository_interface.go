package gym

import "context"

type Repository interface {
	CreateGym(ctx context.Context, vendorID int, req CreateGymRequest) (*Gym, error)
	GetAllGyms(ctx context.Context) ([]Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	GetGymsByVendor(ctx context.Context, vendorID int) ([]Gym, error)
	UpdateStatus(ctx context.Context, id int, status GymStatus) (*Gym, error)
	DeleteGym(ctx context.Context, id int) error
}
