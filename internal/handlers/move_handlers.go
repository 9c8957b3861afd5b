package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"gridstock/internal/caching"
	"gridstock/internal/common"
	"gridstock/internal/models"
	"gridstock/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// MoveHandlers handles inventory movement HTTP requests
type MoveHandlers struct {
	moveService  services.MoveService
	cacheService caching.CacheService
}

// NewMoveHandlers creates a new move handlers instance
func NewMoveHandlers(moveService services.MoveService, cacheService caching.CacheService) *MoveHandlers {
	return &MoveHandlers{
		moveService:  moveService,
		cacheService: cacheService,
	}
}

// checkRateLimit caps mutation bursts per user. Cache failures never block
// the request.
func (h *MoveHandlers) checkRateLimit(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return nil
	}
	limited, err := h.cacheService.IsRateLimited(c.Request().Context(), "moves:"+userID.String(), 60, time.Minute)
	if err != nil {
		log.Printf("Rate limit check failed for user %s: %v", userID.String(), err)
		return nil
	}
	if limited {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many move requests")
	}
	return nil
}

// MoveLineRequest identifies one source line and the quantity to take from it
type MoveLineRequest struct {
	InventoryLineID string `json:"inventory_line_id" validate:"required"`
	Quantity        int    `json:"quantity" validate:"required"`
}

// ExecuteMoveRequest represents a multi-line move payload
type ExecuteMoveRequest struct {
	Lines           []MoveLineRequest `json:"lines" validate:"required"`
	TargetSectionID string            `json:"target_section_id" validate:"required"`
	Notes           *string           `json:"notes"`
}

// ExecuteMove handles moving inventory lines into a target section
func (h *MoveHandlers) ExecuteMove(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.checkRateLimit(c); err != nil {
		return err
	}

	var req ExecuteMoveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	targetID, err := uuid.Parse(req.TargetSectionID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid target section ID format")
	}

	moveReq := &models.MoveRequest{
		TargetSectionID: targetID,
		Notes:           req.Notes,
	}
	for _, line := range req.Lines {
		lineID, err := uuid.Parse(line.InventoryLineID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid inventory line ID format")
		}
		moveReq.Lines = append(moveReq.Lines, models.MoveLine{
			InventoryLineID: lineID,
			Quantity:        line.Quantity,
		})
	}

	if userID, ok := common.GetUserIDFromContext(ctx); ok {
		log.Printf("Move of %d lines into section %s requested by user %s", len(moveReq.Lines), targetID.String(), userID.String())
	}

	result, err := h.moveService.ExecuteMove(ctx, moveReq)
	if err != nil {
		return mapMoveError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// TransferRequest represents a single-product transfer payload
type TransferRequest struct {
	FromSectionID string  `json:"from_section_id" validate:"required"`
	ToSectionID   string  `json:"to_section_id" validate:"required"`
	ProductID     string  `json:"product_id" validate:"required"`
	Quantity      int     `json:"quantity" validate:"required"`
	Notes         *string `json:"notes"`
}

// Transfer handles moving one product between two sections
func (h *MoveHandlers) Transfer(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.checkRateLimit(c); err != nil {
		return err
	}

	var req TransferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	fromID, err := uuid.Parse(req.FromSectionID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid source section ID format")
	}
	toID, err := uuid.Parse(req.ToSectionID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid destination section ID format")
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID format")
	}

	result, err := h.moveService.Transfer(ctx, &models.TransferRequest{
		FromSectionID: fromID,
		ToSectionID:   toID,
		ProductID:     productID,
		Quantity:      req.Quantity,
		Notes:         req.Notes,
	})
	if err != nil {
		return mapMoveError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// mapMoveError translates domain errors into HTTP status codes
func mapMoveError(err error) error {
	switch {
	case errors.Is(err, models.ErrSectionNotFound), errors.Is(err, models.ErrLineNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrInvalidDestination):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrInvalidQuantity), errors.Is(err, models.ErrSameSectionTransfer):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Move failed")
	}
}
