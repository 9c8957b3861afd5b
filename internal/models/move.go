package models

import "github.com/google/uuid"

// MoveLine selects one inventory line and how much of it to relocate.
type MoveLine struct {
	InventoryLineID uuid.UUID `json:"inventory_line_id"`
	Quantity        int       `json:"quantity"`
}

// MoveRequest relocates one or more inventory lines into a single
// destination section. It is transient and carries no identity.
type MoveRequest struct {
	Lines           []MoveLine `json:"lines"`
	TargetSectionID uuid.UUID  `json:"target_section_id"`
	Notes           *string    `json:"notes"`
}

// TransferRequest is the single-product, two-section specialization of a move.
type TransferRequest struct {
	FromSectionID uuid.UUID `json:"from_section_id"`
	ToSectionID   uuid.UUID `json:"to_section_id"`
	ProductID     uuid.UUID `json:"product_id"`
	Quantity      int       `json:"quantity"`
	Notes         *string   `json:"notes"`
}

// MoveResult reports what a completed move did to the ledger.
type MoveResult struct {
	LinesRemoved     int `json:"lines_removed"`
	LinesDecremented int `json:"lines_decremented"`
	LinesMerged      int `json:"lines_merged"`
	LinesCreated     int `json:"lines_created"`
}
