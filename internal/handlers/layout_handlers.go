package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"gridstock/internal/analytics"
	"gridstock/internal/models"
	"gridstock/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const floorPlanBucket = "floor-plans"

// LayoutHandlers handles layout-related HTTP requests
type LayoutHandlers struct {
	layoutService    services.LayoutService
	assetService     services.AssetService
	analyticsService *analytics.AnalyticsService
}

// NewLayoutHandlers creates a new layout handlers instance
func NewLayoutHandlers(layoutService services.LayoutService, assetService services.AssetService, analyticsService *analytics.AnalyticsService) *LayoutHandlers {
	return &LayoutHandlers{
		layoutService:    layoutService,
		assetService:     assetService,
		analyticsService: analyticsService,
	}
}

// SaveLayoutRequest represents the layout create/update payload
type SaveLayoutRequest struct {
	WarehouseID string  `json:"warehouse_id" validate:"required"`
	ImageRef    *string `json:"image_ref"`
	GridRows    int     `json:"grid_rows" validate:"required"`
	GridCols    int     `json:"grid_cols" validate:"required"`
}

// SaveLayout handles creating or updating a warehouse's layout
func (h *LayoutHandlers) SaveLayout(c echo.Context) error {
	ctx := c.Request().Context()

	var req SaveLayoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid warehouse ID format")
	}

	layout, err := h.layoutService.CreateOrUpdate(ctx, warehouseID, req.ImageRef, req.GridRows, req.GridCols)
	if err != nil {
		if errors.Is(err, models.ErrOrphanedSections) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, layout)
}

// GetWarehouseLayout handles getting the layout for a warehouse
func (h *LayoutHandlers) GetWarehouseLayout(c echo.Context) error {
	ctx := c.Request().Context()

	warehouseID, err := uuid.Parse(c.Param("warehouseId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid warehouse ID format")
	}

	layout, err := h.layoutService.GetByWarehouse(ctx, warehouseID)
	if err != nil {
		if errors.Is(err, models.ErrLayoutNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Layout not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load layout")
	}

	return c.JSON(http.StatusOK, layout)
}

// UploadFloorPlan handles uploading a floor-plan image for a layout
func (h *LayoutHandlers) UploadFloorPlan(c echo.Context) error {
	ctx := c.Request().Context()

	layoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid layout ID format")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Floor plan file is required")
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read uploaded file")
	}
	defer src.Close()

	objectName := fmt.Sprintf("%s/%d-%s", layoutID.String(), time.Now().Unix(), file.Filename)
	contentType := file.Header.Get("Content-Type")

	if err := h.assetService.UploadFloorPlan(ctx, floorPlanBucket, objectName, src, file.Size, contentType); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store floor plan")
	}

	if err := h.layoutService.AttachImage(ctx, layoutID, objectName); err != nil {
		if errors.Is(err, models.ErrLayoutNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Layout not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to attach floor plan")
	}

	url, err := h.assetService.GetPresignedURL(floorPlanBucket, objectName, 24*time.Hour)
	if err != nil {
		// the object is stored and attached; the URL is a convenience
		url = ""
	}

	return c.JSON(http.StatusOK, map[string]string{
		"image_ref": objectName,
		"url":       url,
	})
}

// GetLayoutSummary handles getting aggregate stats for a layout
func (h *LayoutHandlers) GetLayoutSummary(c echo.Context) error {
	ctx := c.Request().Context()

	layoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid layout ID format")
	}

	summary, err := h.analyticsService.LayoutSummary(ctx, layoutID)
	if err != nil {
		if errors.Is(err, models.ErrLayoutNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Layout not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute summary")
	}

	return c.JSON(http.StatusOK, summary)
}

// ListLayoutSections handles getting all sections of a layout with inventory
func (h *LayoutHandlers) ListLayoutSections(c echo.Context) error {
	ctx := c.Request().Context()

	layoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid layout ID format")
	}

	sections, err := h.analyticsService.SectionsWithInventory(ctx, layoutID)
	if err != nil {
		if errors.Is(err, models.ErrLayoutNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Layout not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list sections")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"layout_id": layoutID,
		"sections":  sections,
	})
}
