package slot

import "time"

// TimeSlot is a bookable time window with finite concurrent capacity.
// booked_count and is_available are mutated only through TryReserve and
// Release so the 0 <= booked_count <= capacity invariant is enforced in
// one place.
type TimeSlot struct {
	ID              int       `db:"id" json:"id"`
	GymID           int       `db:"gym_id" json:"gym_id"`
	EquipmentID     *int      `db:"equipment_id" json:"equipment_id,omitempty"`
	Date            time.Time `db:"date" json:"date"`
	StartTime       string    `db:"start_time" json:"start_time"`
	EndTime         string    `db:"end_time" json:"end_time"`
	Capacity        int       `db:"capacity" json:"capacity"`
	BookedCount     int       `db:"booked_count" json:"booked_count"`
	BasePriceCents  int64     `db:"base_price_cents" json:"base_price_cents"`
	SurgeMultiplier float64   `db:"surge_multiplier" json:"surge_multiplier"`
	IsAvailable     bool      `db:"is_available" json:"is_available"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// SpotsLeft reports the remaining capacity on the slot.
func (s *TimeSlot) SpotsLeft() int {
	return s.Capacity - s.BookedCount
}

// LiveAvailable is the availability shown to customers: the cached flag
// combined with the real-time count, so a full slot is never shown open.
func (s *TimeSlot) LiveAvailable() bool {
	return s.IsAvailable && s.SpotsLeft() > 0
}

type CreateSlotRequest struct {
	GymID           int     `json:"gym_id" binding:"required"`
	EquipmentID     *int    `json:"equipment_id"`
	Date            string  `json:"date" binding:"required"`
	StartTime       string  `json:"start_time" binding:"required"`
	EndTime         string  `json:"end_time" binding:"required"`
	Capacity        int     `json:"capacity" binding:"required,min=1"`
	BasePriceCents  int64   `json:"base_price_cents" binding:"required,min=0"`
	SurgeMultiplier float64 `json:"surge_multiplier"`
}

// SlotTemplate is one daily time window in a bulk-creation request.
type SlotTemplate struct {
	StartTime       string  `json:"start_time" binding:"required"`
	EndTime         string  `json:"end_time" binding:"required"`
	Capacity        int     `json:"capacity" binding:"required,min=1"`
	BasePriceCents  int64   `json:"base_price_cents" binding:"required,min=0"`
	SurgeMultiplier float64 `json:"surge_multiplier"`
}

type BulkCreateRequest struct {
	GymID       int            `json:"gym_id" binding:"required"`
	EquipmentID *int           `json:"equipment_id"`
	StartDate   string         `json:"start_date" binding:"required"`
	EndDate     string         `json:"end_date" binding:"required"`
	Templates   []SlotTemplate `json:"time_slots" binding:"required,min=1,dive"`
}

type SetAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

// NewSlot is a slot row pending insertion.
type NewSlot struct {
	GymID           int
	EquipmentID     *int
	Date            time.Time
	StartTime       string
	EndTime         string
	Capacity        int
	BasePriceCents  int64
	SurgeMultiplier float64
}

// ExpandTemplates produces one NewSlot per (date x template) over the
// inclusive [start, end] date range. Pure expansion, no storage access.
func ExpandTemplates(gymID int, equipmentID *int, start, end time.Time, templates []SlotTemplate) []NewSlot {
	var out []NewSlot
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		for _, tpl := range templates {
			surge := tpl.SurgeMultiplier
			if surge < 1.0 {
				surge = 1.0
			}
			out = append(out, NewSlot{
				GymID:           gymID,
				EquipmentID:     equipmentID,
				Date:            d,
				StartTime:       tpl.StartTime,
				EndTime:         tpl.EndTime,
				Capacity:        tpl.Capacity,
				BasePriceCents:  tpl.BasePriceCents,
				SurgeMultiplier: surge,
			})
		}
	}
	return out
}
