package gym

import "time"

type GymStatus string

const (
	StatusPending   GymStatus = "pending"
	StatusActive    GymStatus = "active"
	StatusSuspended GymStatus = "suspended"
)

type Gym struct {
	ID          int       `db:"id" json:"id"`
	VendorID    int       `db:"vendor_id" json:"vendor_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	Address     string    `db:"address" json:"address"`
	City        string    `db:"city" json:"city,omitempty"`
	Phone       string    `db:"phone" json:"phone,omitempty"`
	Rating      float64   `db:"rating" json:"rating"`
	Status      GymStatus `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type CreateGymRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address" binding:"required"`
	City        string `json:"city"`
	Phone       string `json:"phone"`
}

type UpdateGymStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending active suspended"`
}
