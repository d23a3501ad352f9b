package review

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("gym already reviewed by this user")
)

const pgUniqueViolation = "23505"

const reviewColumns = `id, user_id, gym_id, rating, review_text, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// refreshGymRating recomputes the denormalized gyms.rating column from
// the review rows. Runs on the caller's transaction so the review write
// and the aggregate stay consistent.
func refreshGymRating(ctx context.Context, tx *sqlx.Tx, gymID int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE gyms
		SET rating = COALESCE((SELECT AVG(rating) FROM reviews WHERE gym_id = $1), 0)
		WHERE id = $1
	`, gymID)
	return err
}

func (r *repository) CreateWithRatingRefresh(ctx context.Context, userID int, req CreateReviewRequest) (*Review, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO reviews (user_id, gym_id, rating, review_text)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + reviewColumns

	var rv Review
	err = sqlx.GetContext(ctx, tx, &rv, query, userID, req.GymID, req.Rating, req.ReviewText)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	if err := refreshGymRating(ctx, tx, req.GymID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &rv, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	var rv Review
	err := r.db.GetContext(ctx, &rv, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	return &rv, nil
}

func (r *repository) GetGymReviews(ctx context.Context, gymID, limit, offset int) ([]ReviewWithAuthor, error) {
	query := `
		SELECT r.id, r.user_id, r.gym_id, r.rating, r.review_text, r.created_at, r.updated_at,
		       u.full_name AS customer_name
		FROM reviews r
		JOIN users u ON r.user_id = u.id
		WHERE r.gym_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`

	var reviews []ReviewWithAuthor
	err := r.db.SelectContext(ctx, &reviews, query, gymID, limit, offset)
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *repository) GetUserReviews(ctx context.Context, userID int) ([]Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var reviews []Review
	err := r.db.SelectContext(ctx, &reviews, query, userID)
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *repository) DeleteWithRatingRefresh(ctx context.Context, id, userID int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var gymID int
	err = sqlx.GetContext(ctx, tx, &gymID, `
		DELETE FROM reviews
		WHERE id = $1 AND user_id = $2
		RETURNING gym_id
	`, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReviewNotFound
		}
		return err
	}

	if err := refreshGymRating(ctx, tx, gymID); err != nil {
		return err
	}

	return tx.Commit()
}
