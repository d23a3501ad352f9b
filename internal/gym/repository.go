package gym

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateGym(ctx context.Context, vendorID int, req CreateGymRequest) (*Gym, error) {
	query := `
		INSERT INTO gyms (vendor_id, name, description, address, city, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, vendor_id, name, description, address, city, phone, rating, status, created_at
	`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, vendorID, req.Name, req.Description, req.Address, req.City, req.Phone)
	if err != nil {
		return nil, err
	}

	return &gym, nil
}

func (r *repository) GetAllGyms(ctx context.Context) ([]Gym, error) {
	query := `
		SELECT id, vendor_id, name, description, address, city, phone, rating, status, created_at
		FROM gyms
		WHERE status = 'active'
		ORDER BY rating DESC, created_at DESC
	`

	var gyms []Gym
	err := r.db.SelectContext(ctx, &gyms, query)
	if err != nil {
		return nil, err
	}

	return gyms, nil
}

func (r *repository) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	query := `
		SELECT id, vendor_id, name, description, address, city, phone, rating, status, created_at
		FROM gyms
		WHERE id = $1
	`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, id)
	if err != nil {
		return nil, err
	}

	return &gym, nil
}

func (r *repository) GetGymsByVendor(ctx context.Context, vendorID int) ([]Gym, error) {
	query := `
		SELECT id, vendor_id, name, description, address, city, phone, rating, status, created_at
		FROM gyms
		WHERE vendor_id = $1
		ORDER BY created_at DESC
	`

	var gyms []Gym
	err := r.db.SelectContext(ctx, &gyms, query, vendorID)
	if err != nil {
		return nil, err
	}

	return gyms, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status GymStatus) (*Gym, error) {
	query := `
		UPDATE gyms
		SET status = $2
		WHERE id = $1
		RETURNING id, vendor_id, name, description, address, city, phone, rating, status, created_at
	`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, id, status)
	if err != nil {
		return nil, err
	}

	return &gym, nil
}

func (r *repository) DeleteGym(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM gyms WHERE id = $1`, id)
	return err
}
