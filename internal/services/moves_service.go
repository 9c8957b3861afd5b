package services

import (
	"context"
	"errors"
	"fmt"

	"gridstock/internal/caching"
	"gridstock/internal/models"
	"gridstock/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MoveService interface {
	ExecuteMove(ctx context.Context, req *models.MoveRequest) (*models.MoveResult, error)
	Transfer(ctx context.Context, req *models.TransferRequest) (*models.MoveResult, error)
}

type moveService struct {
	db           repositories.DB
	sectionRepo  repositories.SectionRepository
	lineRepo     repositories.InventoryLineRepository
	cacheService caching.CacheService
}

func NewMoveService(db repositories.DB, sectionRepo repositories.SectionRepository, lineRepo repositories.InventoryLineRepository, cacheService caching.CacheService) MoveService {
	return &moveService{
		db:           db,
		sectionRepo:  sectionRepo,
		lineRepo:     lineRepo,
		cacheService: cacheService,
	}
}

// ExecuteMove relocates the requested lines into the target section inside a
// single transaction. Quantity is conserved: every unit removed from a source
// line reappears in the target, merged per product. Any failure rolls the
// whole operation back.
func (s *moveService) ExecuteMove(ctx context.Context, req *models.MoveRequest) (*models.MoveResult, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: move has no lines", models.ErrInvalidQuantity)
	}
	for _, ml := range req.Lines {
		if ml.Quantity <= 0 {
			return nil, fmt.Errorf("%w: requested %d for line %s", models.ErrInvalidQuantity, ml.Quantity, ml.InventoryLineID)
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin move transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	sections := s.sectionRepo.WithTx(tx)
	lines := s.lineRepo.WithTx(tx)

	target, err := sections.GetByIDForUpdate(ctx, req.TargetSectionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: section %s", models.ErrInvalidDestination, req.TargetSectionID)
		}
		return nil, fmt.Errorf("lock target section: %w", err)
	}
	if target.IsBlocked {
		return nil, fmt.Errorf("%w: section %s is blocked", models.ErrInvalidDestination, target.ID)
	}

	result := &models.MoveResult{}

	// Remaining quantity per loaded line, so a line referenced twice in one
	// request is validated against what the earlier entry left behind.
	loaded := make(map[uuid.UUID]*models.InventoryLine)
	remaining := make(map[uuid.UUID]int)
	takenTotal := make(map[uuid.UUID]int)
	var lineOrder []uuid.UUID

	// Aggregated destination delta per product, in first-seen order.
	deltas := make(map[uuid.UUID]int)
	var productOrder []uuid.UUID

	touched := make(map[uuid.UUID]bool)
	var touchedOrder []uuid.UUID

	for _, ml := range req.Lines {
		line, ok := loaded[ml.InventoryLineID]
		if !ok {
			line, err = lines.GetByIDForUpdate(ctx, ml.InventoryLineID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, fmt.Errorf("%w: line %s", models.ErrLineNotFound, ml.InventoryLineID)
				}
				return nil, fmt.Errorf("lock inventory line: %w", err)
			}
			loaded[ml.InventoryLineID] = line
			remaining[ml.InventoryLineID] = line.Quantity
			lineOrder = append(lineOrder, ml.InventoryLineID)
		}

		if ml.Quantity > remaining[ml.InventoryLineID] {
			return nil, fmt.Errorf("%w: requested %d, available %d on line %s",
				models.ErrInvalidQuantity, ml.Quantity, remaining[ml.InventoryLineID], ml.InventoryLineID)
		}
		remaining[ml.InventoryLineID] -= ml.Quantity
		takenTotal[ml.InventoryLineID] += ml.Quantity

		if _, seen := deltas[line.ProductID]; !seen {
			productOrder = append(productOrder, line.ProductID)
		}
		deltas[line.ProductID] += ml.Quantity
		if !touched[line.SectionID] {
			touched[line.SectionID] = true
			touchedOrder = append(touchedOrder, line.SectionID)
		}
	}

	// Apply the source side: delete fully drained lines, decrement the rest.
	for _, id := range lineOrder {
		line := loaded[id]
		taken := takenTotal[id]
		if taken == line.Quantity {
			if err := lines.Delete(ctx, id); err != nil {
				return nil, fmt.Errorf("delete drained line: %w", err)
			}
			result.LinesRemoved++
		} else {
			if err := lines.UpdateQuantity(ctx, id, line.Quantity-taken); err != nil {
				return nil, fmt.Errorf("decrement source line: %w", err)
			}
			result.LinesDecremented++
		}
	}

	// Apply the destination side: merge with an existing line per product or
	// create a fresh one.
	for _, productID := range productOrder {
		delta := deltas[productID]
		existing, err := lines.GetBySectionAndProductForUpdate(ctx, target.ID, productID)
		switch {
		case err == nil:
			if err := lines.UpdateQuantityAndNotes(ctx, existing.ID, existing.Quantity+delta, mergeNotes(existing.Notes, req.Notes)); err != nil {
				return nil, fmt.Errorf("merge destination line: %w", err)
			}
			result.LinesMerged++
		case errors.Is(err, pgx.ErrNoRows):
			newLine := &models.InventoryLine{
				ID:        uuid.New(),
				SectionID: target.ID,
				ProductID: productID,
				Quantity:  delta,
				Notes:     req.Notes,
			}
			if err := lines.Insert(ctx, newLine); err != nil {
				return nil, fmt.Errorf("insert destination line: %w", err)
			}
			result.LinesCreated++
		default:
			return nil, fmt.Errorf("lock destination line: %w", err)
		}
	}

	if !touched[target.ID] {
		touchedOrder = append(touchedOrder, target.ID)
	}
	layoutIDs, err := s.recomputeUsage(ctx, sections, lines, touchedOrder)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit move: %w", err)
	}

	s.invalidate(ctx, touchedOrder, layoutIDs)

	return result, nil
}

// Transfer moves one product between two sections. Same validation, merge and
// recompute rules as ExecuteMove, with the extra same-section guard.
func (s *moveService) Transfer(ctx context.Context, req *models.TransferRequest) (*models.MoveResult, error) {
	if req.FromSectionID == req.ToSectionID {
		return nil, models.ErrSameSectionTransfer
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: requested %d", models.ErrInvalidQuantity, req.Quantity)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transfer transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	sections := s.sectionRepo.WithTx(tx)
	lines := s.lineRepo.WithTx(tx)

	from, err := sections.GetByIDForUpdate(ctx, req.FromSectionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: section %s", models.ErrSectionNotFound, req.FromSectionID)
		}
		return nil, fmt.Errorf("lock source section: %w", err)
	}

	to, err := sections.GetByIDForUpdate(ctx, req.ToSectionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: section %s", models.ErrInvalidDestination, req.ToSectionID)
		}
		return nil, fmt.Errorf("lock destination section: %w", err)
	}
	if to.IsBlocked {
		return nil, fmt.Errorf("%w: section %s is blocked", models.ErrInvalidDestination, to.ID)
	}

	line, err := lines.GetBySectionAndProductForUpdate(ctx, from.ID, req.ProductID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %s in section %s", models.ErrLineNotFound, req.ProductID, from.ID)
		}
		return nil, fmt.Errorf("lock source line: %w", err)
	}
	if req.Quantity > line.Quantity {
		return nil, fmt.Errorf("%w: requested %d, available %d", models.ErrInvalidQuantity, req.Quantity, line.Quantity)
	}

	result := &models.MoveResult{}

	if req.Quantity == line.Quantity {
		if err := lines.Delete(ctx, line.ID); err != nil {
			return nil, fmt.Errorf("delete drained line: %w", err)
		}
		result.LinesRemoved++
	} else {
		if err := lines.UpdateQuantity(ctx, line.ID, line.Quantity-req.Quantity); err != nil {
			return nil, fmt.Errorf("decrement source line: %w", err)
		}
		result.LinesDecremented++
	}

	existing, err := lines.GetBySectionAndProductForUpdate(ctx, to.ID, req.ProductID)
	switch {
	case err == nil:
		if err := lines.UpdateQuantityAndNotes(ctx, existing.ID, existing.Quantity+req.Quantity, mergeNotes(existing.Notes, req.Notes)); err != nil {
			return nil, fmt.Errorf("merge destination line: %w", err)
		}
		result.LinesMerged++
	case errors.Is(err, pgx.ErrNoRows):
		newLine := &models.InventoryLine{
			ID:        uuid.New(),
			SectionID: to.ID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Notes:     req.Notes,
		}
		if err := lines.Insert(ctx, newLine); err != nil {
			return nil, fmt.Errorf("insert destination line: %w", err)
		}
		result.LinesCreated++
	default:
		return nil, fmt.Errorf("lock destination line: %w", err)
	}

	touched := []uuid.UUID{from.ID, to.ID}
	layoutIDs, err := s.recomputeUsage(ctx, sections, lines, touched)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transfer: %w", err)
	}

	s.invalidate(ctx, touched, layoutIDs)

	return result, nil
}

// recomputeUsage re-derives current_usage for every touched section inside
// the move transaction and returns the layout ids for cache invalidation.
func (s *moveService) recomputeUsage(ctx context.Context, sections repositories.SectionRepository, lines repositories.InventoryLineRepository, touched []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var layoutIDs []uuid.UUID
	for _, sectionID := range touched {
		section, err := sections.GetByID(ctx, sectionID)
		if err != nil {
			return nil, fmt.Errorf("load touched section: %w", err)
		}
		usage, err := lines.SumQuantityBySection(ctx, sectionID)
		if err != nil {
			return nil, fmt.Errorf("sum inventory lines: %w", err)
		}
		if err := sections.SetCurrentUsage(ctx, sectionID, usage); err != nil {
			return nil, fmt.Errorf("persist usage: %w", err)
		}
		if !seen[section.LayoutID] {
			seen[section.LayoutID] = true
			layoutIDs = append(layoutIDs, section.LayoutID)
		}
	}
	return layoutIDs, nil
}

func (s *moveService) invalidate(ctx context.Context, sectionIDs, layoutIDs []uuid.UUID) {
	for _, sectionID := range sectionIDs {
		if cacheErr := s.cacheService.DeleteSection(ctx, sectionID); cacheErr != nil {
			fmt.Printf("Failed to invalidate cache for section %s: %v\n", sectionID.String(), cacheErr)
		}
	}
	for _, layoutID := range layoutIDs {
		if cacheErr := s.cacheService.DeleteLayoutSummary(ctx, layoutID); cacheErr != nil {
			fmt.Printf("Failed to invalidate summary cache for layout %s: %v\n", layoutID.String(), cacheErr)
		}
	}
}

// mergeNotes combines destination and incoming notes without dropping either.
func mergeNotes(existing, incoming *string) *string {
	switch {
	case incoming == nil || *incoming == "":
		return existing
	case existing == nil || *existing == "":
		return incoming
	case *existing == *incoming:
		return existing
	default:
		merged := *existing + "; " + *incoming
		return &merged
	}
}
