package models

import (
	"time"

	"github.com/google/uuid"
)

type Layout struct {
	ID          uuid.UUID `json:"id" db:"id"`
	WarehouseID uuid.UUID `json:"warehouse_id" db:"warehouse_id"`
	ImageRef    *string   `json:"image_ref" db:"image_ref"`
	GridRows    int       `json:"grid_rows" db:"grid_rows"`
	GridCols    int       `json:"grid_cols" db:"grid_cols"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// LayoutSummary is the aggregate projection consumed by dashboards.
type LayoutSummary struct {
	LayoutID          uuid.UUID `json:"layout_id"`
	SectionCount      int       `json:"section_count"`
	TotalCapacity     int       `json:"total_capacity"`
	TotalCurrentUsage int       `json:"total_current_usage"`
}
