package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryLine is the quantity of one product held in one section.
// At most one line exists per (section_id, product_id); colliding writes
// merge quantities. A line whose quantity reaches zero is deleted.
type InventoryLine struct {
	ID          uuid.UUID `json:"id" db:"id"`
	SectionID   uuid.UUID `json:"section_id" db:"section_id"`
	ProductID   uuid.UUID `json:"product_id" db:"product_id"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Notes       *string   `json:"notes" db:"notes"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}
