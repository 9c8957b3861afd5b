package handlers

import (
	"errors"
	"net/http"

	"gridstock/internal/common"
	"gridstock/internal/models"
	"gridstock/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SectionHandlers handles section-related HTTP requests
type SectionHandlers struct {
	sectionService services.SectionService
}

// NewSectionHandlers creates a new section handlers instance
func NewSectionHandlers(sectionService services.SectionService) *SectionHandlers {
	return &SectionHandlers{
		sectionService: sectionService,
	}
}

// SectionCellRequest configures one grid cell
type SectionCellRequest struct {
	RowIndex    int    `json:"row_index"`
	ColIndex    int    `json:"col_index"`
	Name        string `json:"name"`
	SectionType string `json:"section_type"`
	Capacity    int    `json:"capacity"`
	IsBlocked   bool   `json:"is_blocked"`
}

// ConfigureSectionsRequest represents a batch of cell configurations
type ConfigureSectionsRequest struct {
	Sections []SectionCellRequest `json:"sections" validate:"required"`
}

// ConfigureSections handles upserting section configuration for grid cells.
// Cells are processed in order; the first failure stops the batch and reports
// how many cells were applied.
func (h *SectionHandlers) ConfigureSections(c echo.Context) error {
	ctx := c.Request().Context()

	layoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid layout ID format")
	}

	var req ConfigureSectionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if len(req.Sections) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "At least one section is required")
	}

	saved := make([]*models.Section, 0, len(req.Sections))
	for i, cell := range req.Sections {
		config := models.SectionConfig{
			Name:        cell.Name,
			SectionType: models.SectionType(cell.SectionType),
			Capacity:    cell.Capacity,
			IsBlocked:   cell.IsBlocked,
		}
		section, err := h.sectionService.Upsert(ctx, layoutID, cell.RowIndex, cell.ColIndex, config)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrLayoutNotFound):
				return echo.NewHTTPError(http.StatusNotFound, "Layout not found")
			case errors.Is(err, models.ErrInvalidAddress):
				return c.JSON(http.StatusBadRequest, map[string]interface{}{
					"error":   err.Error(),
					"applied": i,
				})
			default:
				return c.JSON(http.StatusBadRequest, map[string]interface{}{
					"error":   err.Error(),
					"applied": i,
				})
			}
		}
		saved = append(saved, section)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"layout_id": layoutID,
		"sections":  saved,
	})
}

// GetSection handles getting a section with its inventory lines
func (h *SectionHandlers) GetSection(c echo.Context) error {
	ctx := c.Request().Context()

	sectionID, err := common.ValidateUUID(c.Param("id"), "section ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	section, err := h.sectionService.GetByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, models.ErrSectionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Section not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load section")
	}

	return c.JSON(http.StatusOK, section)
}
