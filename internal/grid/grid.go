package grid

import (
	"fmt"

	"gridstock/internal/models"
)

// IsValidAddress reports whether (row, col) falls inside the layout's grid.
func IsValidAddress(layout *models.Layout, row, col int) bool {
	if layout == nil {
		return false
	}
	return row >= 0 && row < layout.GridRows && col >= 0 && col < layout.GridCols
}

// CheckAddress validates (row, col) against the layout and returns
// models.ErrInvalidAddress when the cell is outside the grid.
func CheckAddress(layout *models.Layout, row, col int) error {
	if !IsValidAddress(layout, row, col) {
		return fmt.Errorf("%w: (%d,%d) outside %dx%d grid",
			models.ErrInvalidAddress, row, col, layout.GridRows, layout.GridCols)
	}
	return nil
}

// DefaultSectionName is the name a cell gets when none is supplied.
func DefaultSectionName(row, col int) string {
	return fmt.Sprintf("Section %d-%d", row, col)
}
