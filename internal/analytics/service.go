package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gridstock/internal/caching"
	"gridstock/internal/models"
	"gridstock/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const summaryCacheTTL = 5 * time.Minute

// AnalyticsService computes the read-only projections the dashboards consume.
// It never mutates the ledger.
type AnalyticsService struct {
	layoutRepo   repositories.LayoutRepository
	sectionRepo  repositories.SectionRepository
	lineRepo     repositories.InventoryLineRepository
	cacheService caching.CacheService
}

func NewAnalyticsService(layoutRepo repositories.LayoutRepository, sectionRepo repositories.SectionRepository, lineRepo repositories.InventoryLineRepository, cacheService caching.CacheService) *AnalyticsService {
	return &AnalyticsService{
		layoutRepo:   layoutRepo,
		sectionRepo:  sectionRepo,
		lineRepo:     lineRepo,
		cacheService: cacheService,
	}
}

// LayoutSummary aggregates section count, capacity and usage for one layout,
// cache-aside with a short TTL.
func (s *AnalyticsService) LayoutSummary(ctx context.Context, layoutID uuid.UUID) (*models.LayoutSummary, error) {
	if cached, err := s.cacheService.GetLayoutSummary(ctx, layoutID); cached != nil {
		return cached, nil
	} else if err != nil {
		fmt.Printf("Cache error for layout summary %s: %v\n", layoutID.String(), err)
	}

	if _, err := s.layoutRepo.GetByID(ctx, layoutID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrLayoutNotFound
		}
		return nil, fmt.Errorf("load layout: %w", err)
	}

	summary, err := s.sectionRepo.Summary(ctx, layoutID)
	if err != nil {
		return nil, fmt.Errorf("aggregate sections: %w", err)
	}

	if cacheErr := s.cacheService.SetLayoutSummary(ctx, summary, summaryCacheTTL); cacheErr != nil {
		fmt.Printf("Failed to cache layout summary %s: %v\n", layoutID.String(), cacheErr)
	}

	return summary, nil
}

// SectionsWithInventory returns the layout's sections in grid order, each
// carrying its inventory lines.
func (s *AnalyticsService) SectionsWithInventory(ctx context.Context, layoutID uuid.UUID) ([]*models.Section, error) {
	if _, err := s.layoutRepo.GetByID(ctx, layoutID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrLayoutNotFound
		}
		return nil, fmt.Errorf("load layout: %w", err)
	}

	sections, err := s.sectionRepo.ListByLayout(ctx, layoutID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}

	for _, section := range sections {
		lines, err := s.lineRepo.ListBySection(ctx, section.ID)
		if err != nil {
			return nil, fmt.Errorf("list inventory lines: %w", err)
		}
		section.Lines = lines
	}

	return sections, nil
}

// RefreshLayoutSummary drops and rebuilds the cached summary for a layout.
// Used by the background refresh job.
func (s *AnalyticsService) RefreshLayoutSummary(ctx context.Context, layoutID uuid.UUID) error {
	if err := s.cacheService.DeleteLayoutSummary(ctx, layoutID); err != nil {
		fmt.Printf("Failed to invalidate summary cache for layout %s: %v\n", layoutID.String(), err)
	}
	_, err := s.LayoutSummary(ctx, layoutID)
	return err
}
