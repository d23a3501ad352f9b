package review

import "context"

type Repository interface {
	// CreateWithRatingRefresh inserts the review and recomputes the
	// gym's aggregate rating in one transaction.
	CreateWithRatingRefresh(ctx context.Context, userID int, req CreateReviewRequest) (*Review, error)
	GetByID(ctx context.Context, id int) (*Review, error)
	GetGymReviews(ctx context.Context, gymID, limit, offset int) ([]ReviewWithAuthor, error)
	GetUserReviews(ctx context.Context, userID int) ([]Review, error)
	// DeleteWithRatingRefresh removes the caller's review and recomputes
	// the gym's aggregate rating in one transaction.
	DeleteWithRatingRefresh(ctx context.Context, id, userID int) error
}
