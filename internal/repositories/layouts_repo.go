package repositories

import (
	"context"

	"gridstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type LayoutRepository interface {
	Upsert(ctx context.Context, layout *models.Layout) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Layout, error)
	GetByWarehouse(ctx context.Context, warehouseID uuid.UUID) (*models.Layout, error)
	UpdateImageRef(ctx context.Context, id uuid.UUID, imageRef string) error
	List(ctx context.Context, limit, offset int) ([]*models.Layout, error)
	WithTx(tx pgx.Tx) LayoutRepository
}

type layoutRepo struct {
	db Querier
}

func NewLayoutRepo(db Querier) LayoutRepository {
	return &layoutRepo{db: db}
}

func (r *layoutRepo) WithTx(tx pgx.Tx) LayoutRepository {
	return &layoutRepo{db: tx}
}

func (r *layoutRepo) Upsert(ctx context.Context, layout *models.Layout) error {
	query := `
		INSERT INTO layouts (id, warehouse_id, image_ref, grid_rows, grid_cols, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (warehouse_id) DO UPDATE SET image_ref = EXCLUDED.image_ref, grid_rows = EXCLUDED.grid_rows, grid_cols = EXCLUDED.grid_cols, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, layout.ID, layout.WarehouseID, layout.ImageRef, layout.GridRows, layout.GridCols)
	return err
}

func (r *layoutRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Layout, error) {
	layout := &models.Layout{}
	query := `
		SELECT id, warehouse_id, image_ref, grid_rows, grid_cols, created_at, updated_at
		FROM layouts
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&layout.ID, &layout.WarehouseID, &layout.ImageRef, &layout.GridRows, &layout.GridCols, &layout.CreatedAt, &layout.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return layout, nil
}

func (r *layoutRepo) GetByWarehouse(ctx context.Context, warehouseID uuid.UUID) (*models.Layout, error) {
	layout := &models.Layout{}
	query := `
		SELECT id, warehouse_id, image_ref, grid_rows, grid_cols, created_at, updated_at
		FROM layouts
		WHERE warehouse_id = $1
	`
	err := r.db.QueryRow(ctx, query, warehouseID).Scan(&layout.ID, &layout.WarehouseID, &layout.ImageRef, &layout.GridRows, &layout.GridCols, &layout.CreatedAt, &layout.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return layout, nil
}

func (r *layoutRepo) List(ctx context.Context, limit, offset int) ([]*models.Layout, error) {
	query := `
		SELECT id, warehouse_id, image_ref, grid_rows, grid_cols, created_at, updated_at
		FROM layouts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var layouts []*models.Layout
	for rows.Next() {
		layout := &models.Layout{}
		if err := rows.Scan(&layout.ID, &layout.WarehouseID, &layout.ImageRef, &layout.GridRows, &layout.GridCols, &layout.CreatedAt, &layout.UpdatedAt); err != nil {
			return nil, err
		}
		layouts = append(layouts, layout)
	}
	return layouts, rows.Err()
}

func (r *layoutRepo) UpdateImageRef(ctx context.Context, id uuid.UUID, imageRef string) error {
	query := `
		UPDATE layouts
		SET image_ref = $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, imageRef, id)
	return err
}
