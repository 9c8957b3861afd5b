package jobs

import (
	"context"
	"log"

	"gridstock/internal/repositories"

	"github.com/google/uuid"
)

// CapacityAlertService flags sections running close to capacity.
type CapacityAlertService struct {
	layoutRepo  repositories.LayoutRepository
	sectionRepo repositories.SectionRepository
}

type CapacityAlert struct {
	LayoutID     uuid.UUID
	SectionID    uuid.UUID
	SectionName  string
	Capacity     int
	CurrentUsage int
	UsagePercent float64
}

func NewCapacityAlertService(layoutRepo repositories.LayoutRepository, sectionRepo repositories.SectionRepository) *CapacityAlertService {
	return &CapacityAlertService{
		layoutRepo:  layoutRepo,
		sectionRepo: sectionRepo,
	}
}

// CheckOverThreshold returns the sections of one layout whose fill percentage
// meets or exceeds the threshold. Sections without a capacity are skipped.
func (a *CapacityAlertService) CheckOverThreshold(ctx context.Context, layoutID uuid.UUID, thresholdPercent float64) ([]CapacityAlert, error) {
	if thresholdPercent <= 0 {
		thresholdPercent = 90 // Default threshold
	}

	sections, err := a.sectionRepo.ListByLayout(ctx, layoutID)
	if err != nil {
		log.Printf("Failed to list sections for layout %s: %v", layoutID.String(), err)
		return nil, err
	}

	var alerts []CapacityAlert
	for _, section := range sections {
		if section.Capacity <= 0 {
			continue
		}
		percent := section.UsagePercent()
		if percent >= thresholdPercent {
			alerts = append(alerts, CapacityAlert{
				LayoutID:     layoutID,
				SectionID:    section.ID,
				SectionName:  section.Name,
				Capacity:     section.Capacity,
				CurrentUsage: section.CurrentUsage,
				UsagePercent: percent,
			})
		}
	}

	return alerts, nil
}

func (a *CapacityAlertService) LogCapacityAlerts(alerts []CapacityAlert) {
	if len(alerts) == 0 {
		log.Println("No capacity alerts to log")
		return
	}

	log.Printf("Capacity alerts for layout %s:", alerts[0].LayoutID.String())
	for _, alert := range alerts {
		log.Printf("- Section '%s' at %.1f%% (%d of %d units)",
			alert.SectionName,
			alert.UsagePercent,
			alert.CurrentUsage,
			alert.Capacity)
	}
}

// ScheduledCapacityCheck walks all layouts and logs near-full sections
func (a *CapacityAlertService) ScheduledCapacityCheck(ctx context.Context) error {
	log.Println("Starting scheduled capacity check")

	layouts, err := a.layoutRepo.List(ctx, 1000, 0)
	if err != nil {
		log.Printf("Scheduled capacity check failed: %v", err)
		return err
	}

	for _, layout := range layouts {
		alerts, err := a.CheckOverThreshold(ctx, layout.ID, 90)
		if err != nil {
			continue
		}
		a.LogCapacityAlerts(alerts)
	}

	log.Println("Scheduled capacity check completed successfully")
	return nil
}
