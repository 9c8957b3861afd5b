package repositories

import (
	"context"
	"testing"
	"time"

	"gridstock/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type InventoryLineRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      InventoryLineRepository
	sectionID uuid.UUID
	productID uuid.UUID
	context   context.Context
}

func (suite *InventoryLineRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewInventoryLineRepo(mock)
	suite.sectionID = uuid.New()
	suite.productID = uuid.New()
	suite.context = context.Background()
}

func (suite *InventoryLineRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestInventoryLineRepoTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryLineRepoTestSuite))
}

func (suite *InventoryLineRepoTestSuite) lineRows(lines ...*models.InventoryLine) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "section_id", "product_id", "quantity", "notes", "last_updated"})
	for _, l := range lines {
		rows.AddRow(l.ID, l.SectionID, l.ProductID, l.Quantity, l.Notes, l.LastUpdated)
	}
	return rows
}

func (suite *InventoryLineRepoTestSuite) TestGetByIDForUpdate_Success() {
	line := &models.InventoryLine{
		ID:          uuid.New(),
		SectionID:   suite.sectionID,
		ProductID:   suite.productID,
		Quantity:    25,
		LastUpdated: time.Now(),
	}

	suite.mock.ExpectQuery(`SELECT .* FROM inventory_lines WHERE id = \$1 FOR UPDATE`).
		WithArgs(line.ID).
		WillReturnRows(suite.lineRows(line))

	got, err := suite.repo.GetByIDForUpdate(suite.context, line.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 25, got.Quantity)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InventoryLineRepoTestSuite) TestGetBySectionAndProduct_NotFound() {
	suite.mock.ExpectQuery(`SELECT .* FROM inventory_lines WHERE section_id = \$1 AND product_id = \$2`).
		WithArgs(suite.sectionID, suite.productID).
		WillReturnError(pgx.ErrNoRows)

	line, err := suite.repo.GetBySectionAndProduct(suite.context, suite.sectionID, suite.productID)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.Nil(suite.T(), line)
}

func (suite *InventoryLineRepoTestSuite) TestInsert_MergesOnConflict() {
	line := &models.InventoryLine{
		ID:        uuid.New(),
		SectionID: suite.sectionID,
		ProductID: suite.productID,
		Quantity:  10,
	}

	suite.mock.ExpectExec(`INSERT INTO inventory_lines .* ON CONFLICT \(section_id, product_id\) DO UPDATE SET quantity = inventory_lines\.quantity \+ EXCLUDED\.quantity`).
		WithArgs(line.ID, line.SectionID, line.ProductID, line.Quantity, line.Notes).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Insert(suite.context, line)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InventoryLineRepoTestSuite) TestUpdateQuantity() {
	id := uuid.New()
	suite.mock.ExpectExec(`UPDATE inventory_lines SET quantity = \$1, last_updated = NOW\(\) WHERE id = \$2`).
		WithArgs(15, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateQuantity(suite.context, id, 15)
	assert.NoError(suite.T(), err)
}

func (suite *InventoryLineRepoTestSuite) TestUpdateQuantityAndNotes() {
	id := uuid.New()
	notes := stringPtr("cycle count; relocated")
	suite.mock.ExpectExec(`UPDATE inventory_lines SET quantity = \$1, notes = \$2, last_updated = NOW\(\) WHERE id = \$3`).
		WithArgs(30, notes, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateQuantityAndNotes(suite.context, id, 30, notes)
	assert.NoError(suite.T(), err)
}

func (suite *InventoryLineRepoTestSuite) TestDelete() {
	id := uuid.New()
	suite.mock.ExpectExec(`DELETE FROM inventory_lines WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, id)
	assert.NoError(suite.T(), err)
}

func (suite *InventoryLineRepoTestSuite) TestSumQuantityBySection() {
	suite.mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\) FROM inventory_lines WHERE section_id = \$1`).
		WithArgs(suite.sectionID).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(75))

	total, err := suite.repo.SumQuantityBySection(suite.context, suite.sectionID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 75, total)
}

func stringPtr(s string) *string {
	return &s
}
