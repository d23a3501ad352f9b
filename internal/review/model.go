package review

import "time"

type Review struct {
	ID         int       `db:"id" json:"id"`
	UserID     int       `db:"user_id" json:"user_id"`
	GymID      int       `db:"gym_id" json:"gym_id"`
	Rating     int       `db:"rating" json:"rating"`
	ReviewText string    `db:"review_text" json:"review_text,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

type ReviewWithAuthor struct {
	Review
	CustomerName string `db:"customer_name" json:"customer_name"`
}

type CreateReviewRequest struct {
	GymID      int    `json:"gym_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required,gte=1,lte=5"`
	ReviewText string `json:"review_text"`
}
