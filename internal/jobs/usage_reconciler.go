package jobs

import (
	"context"
	"log"

	"gridstock/internal/repositories"

	"github.com/google/uuid"
)

// UsageReconcilerService re-derives every section's cached usage counter from
// its inventory lines and repairs drift.
type UsageReconcilerService struct {
	layoutRepo  repositories.LayoutRepository
	sectionRepo repositories.SectionRepository
	lineRepo    repositories.InventoryLineRepository
}

type UsageDrift struct {
	LayoutID    uuid.UUID
	SectionID   uuid.UUID
	SectionName string
	Recorded    int
	Actual      int
}

func NewUsageReconcilerService(layoutRepo repositories.LayoutRepository, sectionRepo repositories.SectionRepository, lineRepo repositories.InventoryLineRepository) *UsageReconcilerService {
	return &UsageReconcilerService{
		layoutRepo:  layoutRepo,
		sectionRepo: sectionRepo,
		lineRepo:    lineRepo,
	}
}

// ReconcileLayout recomputes usage for every section of one layout and
// returns the drifts it repaired.
func (u *UsageReconcilerService) ReconcileLayout(ctx context.Context, layoutID uuid.UUID) ([]UsageDrift, error) {
	sections, err := u.sectionRepo.ListByLayout(ctx, layoutID)
	if err != nil {
		log.Printf("Failed to list sections for layout %s: %v", layoutID.String(), err)
		return nil, err
	}

	var drifts []UsageDrift
	for _, section := range sections {
		actual, err := u.lineRepo.SumQuantityBySection(ctx, section.ID)
		if err != nil {
			log.Printf("Failed to sum lines for section %s: %v", section.ID.String(), err)
			continue
		}
		if actual == section.CurrentUsage {
			continue
		}

		if err := u.sectionRepo.SetCurrentUsage(ctx, section.ID, actual); err != nil {
			log.Printf("Failed to repair usage for section %s: %v", section.ID.String(), err)
			continue
		}

		drifts = append(drifts, UsageDrift{
			LayoutID:    layoutID,
			SectionID:   section.ID,
			SectionName: section.Name,
			Recorded:    section.CurrentUsage,
			Actual:      actual,
		})
	}

	return drifts, nil
}

func (u *UsageReconcilerService) LogDrifts(drifts []UsageDrift) {
	if len(drifts) == 0 {
		log.Println("No usage drift detected")
		return
	}

	log.Printf("Repaired usage drift on %d sections:", len(drifts))
	for _, d := range drifts {
		log.Printf("- Section '%s' (%s) recorded %d, actual %d",
			d.SectionName,
			d.SectionID.String(),
			d.Recorded,
			d.Actual)
	}
}

// ScheduledReconciliation walks all layouts and repairs usage drift
func (u *UsageReconcilerService) ScheduledReconciliation(ctx context.Context) error {
	log.Println("Starting scheduled usage reconciliation")

	layouts, err := u.layoutRepo.List(ctx, 1000, 0)
	if err != nil {
		log.Printf("Scheduled usage reconciliation failed: %v", err)
		return err
	}

	for _, layout := range layouts {
		drifts, err := u.ReconcileLayout(ctx, layout.ID)
		if err != nil {
			continue
		}
		u.LogDrifts(drifts)
	}

	log.Println("Scheduled usage reconciliation completed successfully")
	return nil
}
