package equipment

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gymspot/internal/db"
)

type Repository interface {
	Create(ctx context.Context, gymID int, req CreateEquipmentRequest) (*Equipment, error)
	GetByGym(ctx context.Context, gymID int) ([]Equipment, error)
	GetByID(ctx context.Context, id int) (*Equipment, error)
	BelongsToGym(ctx context.Context, id, gymID int) (bool, error)
	Delete(ctx context.Context, id int) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) Create(ctx context.Context, gymID int, req CreateEquipmentRequest) (*Equipment, error) {
	query := `
		INSERT INTO equipment (gym_id, name, category, stations)
		VALUES ($1, $2, $3, $4)
		RETURNING id, gym_id, name, category, stations, created_at
	`

	var eq Equipment
	err := r.db.GetContext(ctx, &eq, query, gymID, req.Name, req.Category, req.Stations)
	if err != nil {
		return nil, err
	}

	return &eq, nil
}

func (r *repository) GetByGym(ctx context.Context, gymID int) ([]Equipment, error) {
	query := `
		SELECT id, gym_id, name, category, stations, created_at
		FROM equipment
		WHERE gym_id = $1
		ORDER BY name ASC
	`

	var items []Equipment
	err := r.db.SelectContext(ctx, &items, query, gymID)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Equipment, error) {
	query := `
		SELECT id, gym_id, name, category, stations, created_at
		FROM equipment
		WHERE id = $1
	`

	var eq Equipment
	err := r.db.GetContext(ctx, &eq, query, id)
	if err != nil {
		return nil, err
	}

	return &eq, nil
}

func (r *repository) BelongsToGym(ctx context.Context, id, gymID int) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM equipment WHERE id = $1 AND gym_id = $2)`, id, gymID)
}

func (r *repository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	return err
}
