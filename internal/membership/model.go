package membership

import "time"

type MembershipStatus string

const (
	StatusActive    MembershipStatus = "active"
	StatusExpired   MembershipStatus = "expired"
	StatusCancelled MembershipStatus = "cancelled"
)

// MembershipPass is a vendor-defined pass template for one gym.
type MembershipPass struct {
	ID           int       `db:"id" json:"id"`
	GymID        int       `db:"gym_id" json:"gym_id"`
	Name         string    `db:"name" json:"name"`
	DurationDays int       `db:"duration_days" json:"duration_days"`
	PriceCents   int64     `db:"price_cents" json:"price_cents"`
	VisitLimit   *int      `db:"visit_limit" json:"visit_limit,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserMembership is a customer's purchased pass. Visit limit is copied
// from the pass at purchase time so later pass edits don't change it.
type UserMembership struct {
	ID         int              `db:"id" json:"id"`
	UserID     int              `db:"user_id" json:"user_id"`
	GymID      int              `db:"gym_id" json:"gym_id"`
	PassID     int              `db:"pass_id" json:"pass_id"`
	Status     MembershipStatus `db:"status" json:"status"`
	VisitLimit *int             `db:"visit_limit" json:"visit_limit,omitempty"`
	VisitsUsed int              `db:"visits_used" json:"visits_used"`
	PriceCents int64            `db:"price_cents" json:"price_cents"`
	ValidFrom  time.Time        `db:"valid_from" json:"valid_from"`
	ValidUntil time.Time        `db:"valid_until" json:"valid_until"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// HasVisitsLeft reports whether the membership can cover one more visit.
func (m *UserMembership) HasVisitsLeft() bool {
	if m.VisitLimit == nil {
		return true
	}
	return m.VisitsUsed < *m.VisitLimit
}

type CreatePassRequest struct {
	Name         string `json:"name" binding:"required"`
	DurationDays int    `json:"duration_days" binding:"required,min=1"`
	PriceCents   int64  `json:"price_cents" binding:"required,min=0"`
	VisitLimit   *int   `json:"visit_limit"`
}

type PurchaseRequest struct {
	PassID int `json:"pass_id" binding:"required"`
}
