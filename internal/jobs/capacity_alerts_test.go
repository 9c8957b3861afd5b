package jobs

import (
	"context"
	"testing"

	"gridstock/internal/models"
	"gridstock/internal/repositories"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
)

func sectionRows(sections ...*models.Section) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "layout_id", "row_index", "col_index", "name", "section_type", "capacity", "is_blocked", "current_usage", "created_at", "updated_at"})
	for _, s := range sections {
		rows.AddRow(s.ID, s.LayoutID, s.RowIndex, s.ColIndex, s.Name, s.SectionType, s.Capacity, s.IsBlocked, s.CurrentUsage, s.CreatedAt, s.UpdatedAt)
	}
	return rows
}

func TestCheckOverThreshold(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	layoutID := uuid.New()
	svc := NewCapacityAlertService(repositories.NewLayoutRepo(mock), repositories.NewSectionRepo(mock))

	full := &models.Section{ID: uuid.New(), LayoutID: layoutID, Name: "Hot aisle", SectionType: models.SectionTypeStorage, Capacity: 100, CurrentUsage: 95}
	roomy := &models.Section{ID: uuid.New(), LayoutID: layoutID, Name: "Cold aisle", SectionType: models.SectionTypeStorage, Capacity: 100, CurrentUsage: 20}
	uncapped := &models.Section{ID: uuid.New(), LayoutID: layoutID, Name: "Staging", SectionType: models.SectionTypeOther, Capacity: 0, CurrentUsage: 50}

	mock.ExpectQuery(`SELECT .* FROM sections WHERE layout_id = \$1`).
		WithArgs(layoutID).
		WillReturnRows(sectionRows(full, roomy, uncapped))

	alerts, err := svc.CheckOverThreshold(context.Background(), layoutID, 90)
	assert.NoError(t, err)
	assert.Len(t, alerts, 1)
	assert.Equal(t, "Hot aisle", alerts[0].SectionName)
	assert.Equal(t, 95.0, alerts[0].UsagePercent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckOverThreshold_DefaultThreshold(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	layoutID := uuid.New()
	svc := NewCapacityAlertService(repositories.NewLayoutRepo(mock), repositories.NewSectionRepo(mock))

	borderline := &models.Section{ID: uuid.New(), LayoutID: layoutID, Name: "Bay 9", SectionType: models.SectionTypeStorage, Capacity: 10, CurrentUsage: 9}

	mock.ExpectQuery(`SELECT .* FROM sections WHERE layout_id = \$1`).
		WithArgs(layoutID).
		WillReturnRows(sectionRows(borderline))

	alerts, err := svc.CheckOverThreshold(context.Background(), layoutID, 0)
	assert.NoError(t, err)
	assert.Len(t, alerts, 1)
}
