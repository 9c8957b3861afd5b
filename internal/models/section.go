package models

import (
	"time"

	"github.com/google/uuid"
)

type SectionType string

const (
	SectionTypeStorage   SectionType = "storage"
	SectionTypeShipping  SectionType = "shipping"
	SectionTypeReceiving SectionType = "receiving"
	SectionTypePicking   SectionType = "picking"
	SectionTypeBlocked   SectionType = "blocked"
	SectionTypeOther     SectionType = "other"
)

// ValidSectionType reports whether t is one of the known section types.
func ValidSectionType(t SectionType) bool {
	switch t {
	case SectionTypeStorage, SectionTypeShipping, SectionTypeReceiving,
		SectionTypePicking, SectionTypeBlocked, SectionTypeOther:
		return true
	}
	return false
}

type Section struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	LayoutID     uuid.UUID   `json:"layout_id" db:"layout_id"`
	RowIndex     int         `json:"row_index" db:"row_index"`
	ColIndex     int         `json:"col_index" db:"col_index"`
	Name         string      `json:"name" db:"name"`
	SectionType  SectionType `json:"section_type" db:"section_type"`
	Capacity     int         `json:"capacity" db:"capacity"`
	IsBlocked    bool        `json:"is_blocked" db:"is_blocked"`
	CurrentUsage int         `json:"current_usage" db:"current_usage"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`

	// Lines is populated by read projections, not by every query.
	Lines []*InventoryLine `json:"lines,omitempty" db:"-"`
}

// UsagePercent derives the fill percentage from the cached usage counter,
// clamped to [0, 100]. A section with zero capacity reports 0.
func (s *Section) UsagePercent() float64 {
	if s.Capacity <= 0 {
		return 0
	}
	pct := float64(s.CurrentUsage) / float64(s.Capacity) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// SectionConfig carries the mutable configuration of a grid cell.
// Identity ((layout, row, col)) is never part of the config.
type SectionConfig struct {
	Name        string      `json:"name"`
	SectionType SectionType `json:"section_type"`
	Capacity    int         `json:"capacity"`
	IsBlocked   bool        `json:"is_blocked"`
}
