package models

import "errors"

// Domain error taxonomy. Validation errors are returned before any write;
// services wrap store failures with %w so errors.Is still reaches these.
var (
	ErrInvalidAddress      = errors.New("grid address out of layout bounds")
	ErrLayoutNotFound      = errors.New("layout not found")
	ErrSectionNotFound     = errors.New("section not found")
	ErrLineNotFound        = errors.New("inventory line not found")
	ErrInvalidDestination  = errors.New("destination section is blocked or missing")
	ErrInvalidQuantity     = errors.New("quantity must be positive and within available stock")
	ErrSameSectionTransfer = errors.New("transfer source and destination are the same section")
	ErrOrphanedSections    = errors.New("resize would orphan sections holding inventory")
)
