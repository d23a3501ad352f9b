package equipment

import "time"

type Equipment struct {
	ID        int       `db:"id" json:"id"`
	GymID     int       `db:"gym_id" json:"gym_id"`
	Name      string    `db:"name" json:"name"`
	Category  string    `db:"category" json:"category,omitempty"`
	Stations  int       `db:"stations" json:"stations"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateEquipmentRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
	Stations int    `json:"stations" binding:"required,min=1"`
}
