package services

import (
	"context"
	"time"

	"gridstock/internal/models"
	"gridstock/internal/repositories"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockLayoutRepository struct {
	mock.Mock
}

func (m *MockLayoutRepository) Upsert(ctx context.Context, layout *models.Layout) error {
	args := m.Called(ctx, layout)
	return args.Error(0)
}

func (m *MockLayoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Layout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Layout), args.Error(1)
}

func (m *MockLayoutRepository) GetByWarehouse(ctx context.Context, warehouseID uuid.UUID) (*models.Layout, error) {
	args := m.Called(ctx, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Layout), args.Error(1)
}

func (m *MockLayoutRepository) UpdateImageRef(ctx context.Context, id uuid.UUID, imageRef string) error {
	args := m.Called(ctx, id, imageRef)
	return args.Error(0)
}

func (m *MockLayoutRepository) List(ctx context.Context, limit, offset int) ([]*models.Layout, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Layout), args.Error(1)
}

func (m *MockLayoutRepository) WithTx(tx pgx.Tx) repositories.LayoutRepository {
	return m
}

type MockSectionRepository struct {
	mock.Mock
}

func (m *MockSectionRepository) Upsert(ctx context.Context, section *models.Section) (*models.Section, error) {
	args := m.Called(ctx, section)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Section), args.Error(1)
}

func (m *MockSectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Section, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Section), args.Error(1)
}

func (m *MockSectionRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Section, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Section), args.Error(1)
}

func (m *MockSectionRepository) GetByAddress(ctx context.Context, layoutID uuid.UUID, row, col int) (*models.Section, error) {
	args := m.Called(ctx, layoutID, row, col)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Section), args.Error(1)
}

func (m *MockSectionRepository) ListByLayout(ctx context.Context, layoutID uuid.UUID) ([]*models.Section, error) {
	args := m.Called(ctx, layoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Section), args.Error(1)
}

func (m *MockSectionRepository) ListOutOfBounds(ctx context.Context, layoutID uuid.UUID, rows, cols int) ([]*models.Section, error) {
	args := m.Called(ctx, layoutID, rows, cols)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Section), args.Error(1)
}

func (m *MockSectionRepository) DeleteOutOfBounds(ctx context.Context, layoutID uuid.UUID, rows, cols int) error {
	args := m.Called(ctx, layoutID, rows, cols)
	return args.Error(0)
}

func (m *MockSectionRepository) SetCurrentUsage(ctx context.Context, id uuid.UUID, usage int) error {
	args := m.Called(ctx, id, usage)
	return args.Error(0)
}

func (m *MockSectionRepository) Summary(ctx context.Context, layoutID uuid.UUID) (*models.LayoutSummary, error) {
	args := m.Called(ctx, layoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LayoutSummary), args.Error(1)
}

func (m *MockSectionRepository) WithTx(tx pgx.Tx) repositories.SectionRepository {
	return m
}

type MockInventoryLineRepository struct {
	mock.Mock
}

func (m *MockInventoryLineRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryLine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryLine), args.Error(1)
}

func (m *MockInventoryLineRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryLine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryLine), args.Error(1)
}

func (m *MockInventoryLineRepository) GetBySectionAndProduct(ctx context.Context, sectionID, productID uuid.UUID) (*models.InventoryLine, error) {
	args := m.Called(ctx, sectionID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryLine), args.Error(1)
}

func (m *MockInventoryLineRepository) GetBySectionAndProductForUpdate(ctx context.Context, sectionID, productID uuid.UUID) (*models.InventoryLine, error) {
	args := m.Called(ctx, sectionID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryLine), args.Error(1)
}

func (m *MockInventoryLineRepository) ListBySection(ctx context.Context, sectionID uuid.UUID) ([]*models.InventoryLine, error) {
	args := m.Called(ctx, sectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryLine), args.Error(1)
}

func (m *MockInventoryLineRepository) Insert(ctx context.Context, line *models.InventoryLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockInventoryLineRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockInventoryLineRepository) UpdateQuantityAndNotes(ctx context.Context, id uuid.UUID, quantity int, notes *string) error {
	args := m.Called(ctx, id, quantity, notes)
	return args.Error(0)
}

func (m *MockInventoryLineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInventoryLineRepository) SumQuantityBySection(ctx context.Context, sectionID uuid.UUID) (int, error) {
	args := m.Called(ctx, sectionID)
	return args.Int(0), args.Error(1)
}

func (m *MockInventoryLineRepository) WithTx(tx pgx.Tx) repositories.InventoryLineRepository {
	return m
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetSection(ctx context.Context, sectionID uuid.UUID) (*models.Section, error) {
	args := m.Called(ctx, sectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Section), args.Error(1)
}

func (m *MockCacheService) SetSection(ctx context.Context, section *models.Section, ttl time.Duration) error {
	args := m.Called(ctx, section, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteSection(ctx context.Context, sectionID uuid.UUID) error {
	args := m.Called(ctx, sectionID)
	return args.Error(0)
}

func (m *MockCacheService) GetLayoutSummary(ctx context.Context, layoutID uuid.UUID) (*models.LayoutSummary, error) {
	args := m.Called(ctx, layoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LayoutSummary), args.Error(1)
}

func (m *MockCacheService) SetLayoutSummary(ctx context.Context, summary *models.LayoutSummary, ttl time.Duration) error {
	args := m.Called(ctx, summary, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteLayoutSummary(ctx context.Context, layoutID uuid.UUID) error {
	args := m.Called(ctx, layoutID)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateLayoutCache(ctx context.Context, layoutID uuid.UUID) error {
	args := m.Called(ctx, layoutID)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
