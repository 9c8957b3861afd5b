package repositories

import (
	"context"

	"gridstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SectionRepository interface {
	Upsert(ctx context.Context, section *models.Section) (*models.Section, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Section, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Section, error)
	GetByAddress(ctx context.Context, layoutID uuid.UUID, row, col int) (*models.Section, error)
	ListByLayout(ctx context.Context, layoutID uuid.UUID) ([]*models.Section, error)
	ListOutOfBounds(ctx context.Context, layoutID uuid.UUID, rows, cols int) ([]*models.Section, error)
	DeleteOutOfBounds(ctx context.Context, layoutID uuid.UUID, rows, cols int) error
	SetCurrentUsage(ctx context.Context, id uuid.UUID, usage int) error
	Summary(ctx context.Context, layoutID uuid.UUID) (*models.LayoutSummary, error)
	WithTx(tx pgx.Tx) SectionRepository
}

type sectionRepo struct {
	db Querier
}

func NewSectionRepo(db Querier) SectionRepository {
	return &sectionRepo{db: db}
}

func (r *sectionRepo) WithTx(tx pgx.Tx) SectionRepository {
	return &sectionRepo{db: tx}
}

const sectionColumns = `id, layout_id, row_index, col_index, name, section_type, capacity, is_blocked, current_usage, created_at, updated_at`

func scanSection(row pgx.Row) (*models.Section, error) {
	section := &models.Section{}
	err := row.Scan(&section.ID, &section.LayoutID, &section.RowIndex, &section.ColIndex, &section.Name, &section.SectionType, &section.Capacity, &section.IsBlocked, &section.CurrentUsage, &section.CreatedAt, &section.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return section, nil
}

// Upsert creates the section at its (layout, row, col) address or updates the
// configuration in place. The address itself is never changed by an upsert.
func (r *sectionRepo) Upsert(ctx context.Context, section *models.Section) (*models.Section, error) {
	query := `
		INSERT INTO sections (id, layout_id, row_index, col_index, name, section_type, capacity, is_blocked, current_usage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, NOW(), NOW())
		ON CONFLICT (layout_id, row_index, col_index) DO UPDATE SET name = EXCLUDED.name, section_type = EXCLUDED.section_type, capacity = EXCLUDED.capacity, is_blocked = EXCLUDED.is_blocked, updated_at = NOW()
		RETURNING ` + sectionColumns + `
	`
	return scanSection(r.db.QueryRow(ctx, query, section.ID, section.LayoutID, section.RowIndex, section.ColIndex, section.Name, section.SectionType, section.Capacity, section.IsBlocked))
}

func (r *sectionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Section, error) {
	query := `
		SELECT ` + sectionColumns + `
		FROM sections
		WHERE id = $1
	`
	return scanSection(r.db.QueryRow(ctx, query, id))
}

// GetByIDForUpdate locks the section row for the duration of the enclosing
// transaction. Move and transfer operations rely on this to serialize
// concurrent writers touching the same section.
func (r *sectionRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Section, error) {
	query := `
		SELECT ` + sectionColumns + `
		FROM sections
		WHERE id = $1
		FOR UPDATE
	`
	return scanSection(r.db.QueryRow(ctx, query, id))
}

func (r *sectionRepo) GetByAddress(ctx context.Context, layoutID uuid.UUID, row, col int) (*models.Section, error) {
	query := `
		SELECT ` + sectionColumns + `
		FROM sections
		WHERE layout_id = $1 AND row_index = $2 AND col_index = $3
	`
	return scanSection(r.db.QueryRow(ctx, query, layoutID, row, col))
}

func (r *sectionRepo) ListByLayout(ctx context.Context, layoutID uuid.UUID) ([]*models.Section, error) {
	query := `
		SELECT ` + sectionColumns + `
		FROM sections
		WHERE layout_id = $1
		ORDER BY row_index, col_index
	`
	rows, err := r.db.Query(ctx, query, layoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []*models.Section
	for rows.Next() {
		section := &models.Section{}
		if err := rows.Scan(&section.ID, &section.LayoutID, &section.RowIndex, &section.ColIndex, &section.Name, &section.SectionType, &section.Capacity, &section.IsBlocked, &section.CurrentUsage, &section.CreatedAt, &section.UpdatedAt); err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	return sections, rows.Err()
}

// ListOutOfBounds returns sections whose address no longer fits a grid of
// rows x cols. Used to decide whether a shrink is allowed.
func (r *sectionRepo) ListOutOfBounds(ctx context.Context, layoutID uuid.UUID, rows, cols int) ([]*models.Section, error) {
	query := `
		SELECT ` + sectionColumns + `
		FROM sections
		WHERE layout_id = $1 AND (row_index >= $2 OR col_index >= $3)
		ORDER BY row_index, col_index
	`
	result, err := r.db.Query(ctx, query, layoutID, rows, cols)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	var sections []*models.Section
	for result.Next() {
		section := &models.Section{}
		if err := result.Scan(&section.ID, &section.LayoutID, &section.RowIndex, &section.ColIndex, &section.Name, &section.SectionType, &section.Capacity, &section.IsBlocked, &section.CurrentUsage, &section.CreatedAt, &section.UpdatedAt); err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	return sections, result.Err()
}

func (r *sectionRepo) DeleteOutOfBounds(ctx context.Context, layoutID uuid.UUID, rows, cols int) error {
	query := `DELETE FROM sections WHERE layout_id = $1 AND (row_index >= $2 OR col_index >= $3)`
	_, err := r.db.Exec(ctx, query, layoutID, rows, cols)
	return err
}

// SetCurrentUsage persists the recomputed usage counter. Only the section
// service's recompute path calls this; nothing else writes current_usage.
func (r *sectionRepo) SetCurrentUsage(ctx context.Context, id uuid.UUID, usage int) error {
	query := `
		UPDATE sections
		SET current_usage = $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, usage, id)
	return err
}

func (r *sectionRepo) Summary(ctx context.Context, layoutID uuid.UUID) (*models.LayoutSummary, error) {
	summary := &models.LayoutSummary{LayoutID: layoutID}
	query := `
		SELECT COUNT(*), COALESCE(SUM(capacity), 0), COALESCE(SUM(current_usage), 0)
		FROM sections
		WHERE layout_id = $1
	`
	err := r.db.QueryRow(ctx, query, layoutID).Scan(&summary.SectionCount, &summary.TotalCapacity, &summary.TotalCurrentUsage)
	if err != nil {
		return nil, err
	}
	return summary, nil
}
