package user

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gymspot/internal/db"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) Create(ctx context.Context, fullName, email, passwordHash, phone, userType string) (*User, error) {
	query := `
		INSERT INTO users (full_name, email, password_hash, phone, user_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, full_name, email, password_hash, phone, user_type, created_at
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, fullName, email, passwordHash, phone, userType)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, full_name, email, password_hash, phone, user_type, created_at
		FROM users
		WHERE email = $1
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, full_name, email, password_hash, phone, user_type, created_at
		FROM users
		WHERE id = $1
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}
