package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gridstock/internal/caching"
	"gridstock/internal/grid"
	"gridstock/internal/models"
	"gridstock/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const sectionCacheTTL = 2 * time.Minute

type SectionService interface {
	Upsert(ctx context.Context, layoutID uuid.UUID, row, col int, config models.SectionConfig) (*models.Section, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Section, error)
	RecomputeUsage(ctx context.Context, sectionID uuid.UUID) (int, error)
}

type sectionService struct {
	layoutRepo   repositories.LayoutRepository
	sectionRepo  repositories.SectionRepository
	lineRepo     repositories.InventoryLineRepository
	cacheService caching.CacheService
}

func NewSectionService(layoutRepo repositories.LayoutRepository, sectionRepo repositories.SectionRepository, lineRepo repositories.InventoryLineRepository, cacheService caching.CacheService) SectionService {
	return &sectionService{
		layoutRepo:   layoutRepo,
		sectionRepo:  sectionRepo,
		lineRepo:     lineRepo,
		cacheService: cacheService,
	}
}

// Upsert configures the grid cell at (row, col), creating the section lazily
// on first touch. The cell address is identity and is never changed here.
func (s *sectionService) Upsert(ctx context.Context, layoutID uuid.UUID, row, col int, config models.SectionConfig) (*models.Section, error) {
	layout, err := s.layoutRepo.GetByID(ctx, layoutID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrLayoutNotFound
		}
		return nil, fmt.Errorf("load layout: %w", err)
	}

	if err := grid.CheckAddress(layout, row, col); err != nil {
		return nil, err
	}

	if config.Capacity < 0 {
		return nil, fmt.Errorf("%w: capacity cannot be negative", models.ErrInvalidQuantity)
	}
	if config.Name == "" {
		config.Name = grid.DefaultSectionName(row, col)
	}
	if config.SectionType == "" {
		config.SectionType = models.SectionTypeStorage
	}
	if !models.ValidSectionType(config.SectionType) {
		return nil, fmt.Errorf("unknown section type %q", config.SectionType)
	}

	section := &models.Section{
		ID:          uuid.New(),
		LayoutID:    layoutID,
		RowIndex:    row,
		ColIndex:    col,
		Name:        config.Name,
		SectionType: config.SectionType,
		Capacity:    config.Capacity,
		IsBlocked:   config.IsBlocked,
	}

	saved, err := s.sectionRepo.Upsert(ctx, section)
	if err != nil {
		return nil, fmt.Errorf("upsert section: %w", err)
	}

	s.invalidate(ctx, saved.ID, saved.LayoutID)

	return saved, nil
}

// GetByID returns the section with its inventory lines, cache-aside.
func (s *sectionService) GetByID(ctx context.Context, id uuid.UUID) (*models.Section, error) {
	if cached, err := s.cacheService.GetSection(ctx, id); cached != nil {
		return cached, nil
	} else if err != nil {
		// cache errors must never fail the read
		fmt.Printf("Cache error for section %s: %v\n", id.String(), err)
	}

	section, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrSectionNotFound
		}
		return nil, fmt.Errorf("load section: %w", err)
	}

	lines, err := s.lineRepo.ListBySection(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load inventory lines: %w", err)
	}
	section.Lines = lines

	if cacheErr := s.cacheService.SetSection(ctx, section, sectionCacheTTL); cacheErr != nil {
		fmt.Printf("Failed to cache section %s: %v\n", id.String(), cacheErr)
	}

	return section, nil
}

// RecomputeUsage derives current_usage from the inventory lines and persists
// it. This is the single writer of the cached counter; every mutation that
// touches a section's lines goes through here.
func (s *sectionService) RecomputeUsage(ctx context.Context, sectionID uuid.UUID) (int, error) {
	section, err := s.sectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, models.ErrSectionNotFound
		}
		return 0, fmt.Errorf("load section: %w", err)
	}

	usage, err := s.lineRepo.SumQuantityBySection(ctx, sectionID)
	if err != nil {
		return 0, fmt.Errorf("sum inventory lines: %w", err)
	}

	if err := s.sectionRepo.SetCurrentUsage(ctx, sectionID, usage); err != nil {
		return 0, fmt.Errorf("persist usage: %w", err)
	}

	s.invalidate(ctx, sectionID, section.LayoutID)

	return usage, nil
}

func (s *sectionService) invalidate(ctx context.Context, sectionID, layoutID uuid.UUID) {
	if cacheErr := s.cacheService.DeleteSection(ctx, sectionID); cacheErr != nil {
		fmt.Printf("Failed to invalidate cache for section %s: %v\n", sectionID.String(), cacheErr)
	}
	if cacheErr := s.cacheService.DeleteLayoutSummary(ctx, layoutID); cacheErr != nil {
		fmt.Printf("Failed to invalidate summary cache for layout %s: %v\n", layoutID.String(), cacheErr)
	}
}
