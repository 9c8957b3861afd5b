package repositories

import (
	"context"

	"gridstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InventoryLineRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryLine, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryLine, error)
	GetBySectionAndProduct(ctx context.Context, sectionID, productID uuid.UUID) (*models.InventoryLine, error)
	GetBySectionAndProductForUpdate(ctx context.Context, sectionID, productID uuid.UUID) (*models.InventoryLine, error)
	ListBySection(ctx context.Context, sectionID uuid.UUID) ([]*models.InventoryLine, error)
	Insert(ctx context.Context, line *models.InventoryLine) error
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	UpdateQuantityAndNotes(ctx context.Context, id uuid.UUID, quantity int, notes *string) error
	Delete(ctx context.Context, id uuid.UUID) error
	SumQuantityBySection(ctx context.Context, sectionID uuid.UUID) (int, error)
	WithTx(tx pgx.Tx) InventoryLineRepository
}

type inventoryLineRepo struct {
	db Querier
}

func NewInventoryLineRepo(db Querier) InventoryLineRepository {
	return &inventoryLineRepo{db: db}
}

func (r *inventoryLineRepo) WithTx(tx pgx.Tx) InventoryLineRepository {
	return &inventoryLineRepo{db: tx}
}

const lineColumns = `id, section_id, product_id, quantity, notes, last_updated`

func scanLine(row pgx.Row) (*models.InventoryLine, error) {
	line := &models.InventoryLine{}
	err := row.Scan(&line.ID, &line.SectionID, &line.ProductID, &line.Quantity, &line.Notes, &line.LastUpdated)
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (r *inventoryLineRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM inventory_lines
		WHERE id = $1
	`
	return scanLine(r.db.QueryRow(ctx, query, id))
}

func (r *inventoryLineRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM inventory_lines
		WHERE id = $1
		FOR UPDATE
	`
	return scanLine(r.db.QueryRow(ctx, query, id))
}

func (r *inventoryLineRepo) GetBySectionAndProduct(ctx context.Context, sectionID, productID uuid.UUID) (*models.InventoryLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM inventory_lines
		WHERE section_id = $1 AND product_id = $2
	`
	return scanLine(r.db.QueryRow(ctx, query, sectionID, productID))
}

func (r *inventoryLineRepo) GetBySectionAndProductForUpdate(ctx context.Context, sectionID, productID uuid.UUID) (*models.InventoryLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM inventory_lines
		WHERE section_id = $1 AND product_id = $2
		FOR UPDATE
	`
	return scanLine(r.db.QueryRow(ctx, query, sectionID, productID))
}

func (r *inventoryLineRepo) ListBySection(ctx context.Context, sectionID uuid.UUID) ([]*models.InventoryLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM inventory_lines
		WHERE section_id = $1
		ORDER BY last_updated DESC
	`
	rows, err := r.db.Query(ctx, query, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*models.InventoryLine
	for rows.Next() {
		line := &models.InventoryLine{}
		if err := rows.Scan(&line.ID, &line.SectionID, &line.ProductID, &line.Quantity, &line.Notes, &line.LastUpdated); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// Insert merges on the (section_id, product_id) unique key so a colliding
// write adds quantities instead of creating a duplicate line.
func (r *inventoryLineRepo) Insert(ctx context.Context, line *models.InventoryLine) error {
	query := `
		INSERT INTO inventory_lines (id, section_id, product_id, quantity, notes, last_updated)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (section_id, product_id) DO UPDATE SET quantity = inventory_lines.quantity + EXCLUDED.quantity, last_updated = NOW()
	`
	_, err := r.db.Exec(ctx, query, line.ID, line.SectionID, line.ProductID, line.Quantity, line.Notes)
	return err
}

func (r *inventoryLineRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	query := `
		UPDATE inventory_lines
		SET quantity = $1, last_updated = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, quantity, id)
	return err
}

func (r *inventoryLineRepo) UpdateQuantityAndNotes(ctx context.Context, id uuid.UUID, quantity int, notes *string) error {
	query := `
		UPDATE inventory_lines
		SET quantity = $1, notes = $2, last_updated = NOW()
		WHERE id = $3
	`
	_, err := r.db.Exec(ctx, query, quantity, notes, id)
	return err
}

func (r *inventoryLineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM inventory_lines WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// SumQuantityBySection is the authoritative derivation of a section's usage.
func (r *inventoryLineRepo) SumQuantityBySection(ctx context.Context, sectionID uuid.UUID) (int, error) {
	var total int
	query := `SELECT COALESCE(SUM(quantity), 0) FROM inventory_lines WHERE section_id = $1`
	err := r.db.QueryRow(ctx, query, sectionID).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}
