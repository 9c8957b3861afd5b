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

const maxGridDimension = 1000

type LayoutService interface {
	CreateOrUpdate(ctx context.Context, warehouseID uuid.UUID, imageRef *string, gridRows, gridCols int) (*models.Layout, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Layout, error)
	GetByWarehouse(ctx context.Context, warehouseID uuid.UUID) (*models.Layout, error)
	AttachImage(ctx context.Context, layoutID uuid.UUID, imageRef string) error
}

type layoutService struct {
	db           repositories.DB
	layoutRepo   repositories.LayoutRepository
	sectionRepo  repositories.SectionRepository
	lineRepo     repositories.InventoryLineRepository
	cacheService caching.CacheService
}

func NewLayoutService(db repositories.DB, layoutRepo repositories.LayoutRepository, sectionRepo repositories.SectionRepository, lineRepo repositories.InventoryLineRepository, cacheService caching.CacheService) LayoutService {
	return &layoutService{
		db:           db,
		layoutRepo:   layoutRepo,
		sectionRepo:  sectionRepo,
		lineRepo:     lineRepo,
		cacheService: cacheService,
	}
}

// CreateOrUpdate upserts the one layout a warehouse has. A resize that would
// strand sections holding inventory outside the new bounds is rejected before
// any write; empty out-of-bounds sections are deleted in the same transaction
// as the dimension change.
func (s *layoutService) CreateOrUpdate(ctx context.Context, warehouseID uuid.UUID, imageRef *string, gridRows, gridCols int) (*models.Layout, error) {
	if gridRows <= 0 || gridRows > maxGridDimension {
		return nil, fmt.Errorf("grid rows must be between 1 and %d", maxGridDimension)
	}
	if gridCols <= 0 || gridCols > maxGridDimension {
		return nil, fmt.Errorf("grid columns must be between 1 and %d", maxGridDimension)
	}

	layout := &models.Layout{
		ID:          uuid.New(),
		WarehouseID: warehouseID,
		ImageRef:    imageRef,
		GridRows:    gridRows,
		GridCols:    gridCols,
	}

	existing, err := s.layoutRepo.GetByWarehouse(ctx, warehouseID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("load layout: %w", err)
	}
	if existing != nil {
		layout.ID = existing.ID
		if imageRef == nil {
			layout.ImageRef = existing.ImageRef
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin layout transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	layouts := s.layoutRepo.WithTx(tx)
	sections := s.sectionRepo.WithTx(tx)
	lines := s.lineRepo.WithTx(tx)

	shrinking := existing != nil && (gridRows < existing.GridRows || gridCols < existing.GridCols)
	if shrinking {
		orphans, err := sections.ListOutOfBounds(ctx, existing.ID, gridRows, gridCols)
		if err != nil {
			return nil, fmt.Errorf("list out-of-bounds sections: %w", err)
		}
		for _, orphan := range orphans {
			// The cached counter is not trusted here; the lines are.
			held, err := lines.SumQuantityBySection(ctx, orphan.ID)
			if err != nil {
				return nil, fmt.Errorf("sum inventory lines: %w", err)
			}
			if held > 0 {
				return nil, fmt.Errorf("%w: section %q at (%d,%d) holds %d units",
					models.ErrOrphanedSections, orphan.Name, orphan.RowIndex, orphan.ColIndex, held)
			}
		}
		if len(orphans) > 0 {
			if err := sections.DeleteOutOfBounds(ctx, existing.ID, gridRows, gridCols); err != nil {
				return nil, fmt.Errorf("delete out-of-bounds sections: %w", err)
			}
		}
	}

	if err := layouts.Upsert(ctx, layout); err != nil {
		return nil, fmt.Errorf("upsert layout: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit layout: %w", err)
	}

	if cacheErr := s.cacheService.InvalidateLayoutCache(ctx, layout.ID); cacheErr != nil {
		fmt.Printf("Failed to invalidate cache for layout %s: %v\n", layout.ID.String(), cacheErr)
	}

	return layout, nil
}

func (s *layoutService) GetByID(ctx context.Context, id uuid.UUID) (*models.Layout, error) {
	layout, err := s.layoutRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrLayoutNotFound
		}
		return nil, fmt.Errorf("load layout: %w", err)
	}
	return layout, nil
}

func (s *layoutService) GetByWarehouse(ctx context.Context, warehouseID uuid.UUID) (*models.Layout, error) {
	layout, err := s.layoutRepo.GetByWarehouse(ctx, warehouseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrLayoutNotFound
		}
		return nil, fmt.Errorf("load layout: %w", err)
	}
	return layout, nil
}

// AttachImage persists the opaque floor-plan image reference. The engine never
// interprets the reference; the asset store owns the object.
func (s *layoutService) AttachImage(ctx context.Context, layoutID uuid.UUID, imageRef string) error {
	if _, err := s.GetByID(ctx, layoutID); err != nil {
		return err
	}
	if err := s.layoutRepo.UpdateImageRef(ctx, layoutID, imageRef); err != nil {
		return fmt.Errorf("update image reference: %w", err)
	}
	return nil
}
