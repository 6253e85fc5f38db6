package mocks

import (
	"context"
	"time"

	"go-inventory-sales/internal/model"
	"go-inventory-sales/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStore hands out the same mock repositories inside and outside
// transactions. Transaction is recorded and then runs fn unless an error is
// configured.
type MockStore struct {
	mock.Mock
	ProductRepo *MockProductRepository
	SaleRepo    *MockSaleRepository
}

func NewMockStore() *MockStore {
	return &MockStore{ProductRepo: new(MockProductRepository), SaleRepo: new(MockSaleRepository)}
}

func (m *MockStore) Products() repository.ProductRepository { return m.ProductRepo }
func (m *MockStore) Sales() repository.SaleRepository       { return m.SaleRepo }

func (m *MockStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) product(args mock.Arguments) (*model.Product, error) {
	if p := args.Get(0); p != nil {
		return p.(*model.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) products(args mock.Arguments) ([]model.Product, error) {
	if list := args.Get(0); list != nil {
		return list.([]model.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	if args.Error(0) == nil {
		product.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	}
	return args.Error(0)
}

func (m *MockProductRepository) FindAllByOwner(ctx context.Context, ownerID string) ([]model.Product, error) {
	return m.products(m.Called(ctx, ownerID))
}

func (m *MockProductRepository) FindByIDAndOwner(ctx context.Context, id uuid.UUID, ownerID string) (*model.Product, error) {
	return m.product(m.Called(ctx, id, ownerID))
}

func (m *MockProductRepository) FindByName(ctx context.Context, name string) (*model.Product, error) {
	return m.product(m.Called(ctx, name))
}

func (m *MockProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return m.product(m.Called(ctx, id))
}

func (m *MockProductRepository) Update(ctx context.Context, product *model.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) DeleteByIDAndOwner(ctx context.Context, id uuid.UUID, ownerID string) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	return m.Called(ctx, id, qty).Error(0)
}

func (m *MockProductRepository) FindLowStock(ctx context.Context, ownerID string, threshold int) ([]model.Product, error) {
	return m.products(m.Called(ctx, ownerID, threshold))
}

func (m *MockProductRepository) FindExpiring(ctx context.Context, ownerID string, before time.Time) ([]model.Product, error) {
	return m.products(m.Called(ctx, ownerID, before))
}

func (m *MockProductRepository) GetStats(ctx context.Context, ownerID string, lowStockThreshold int) (*repository.ProductStats, error) {
	args := m.Called(ctx, ownerID, lowStockThreshold)
	if stats := args.Get(0); stats != nil {
		return stats.(*repository.ProductStats), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) Create(ctx context.Context, sale *model.Sale) error {
	args := m.Called(ctx, sale)
	if args.Error(0) == nil {
		sale.ID = uuid.MustParse("00000000-0000-0000-0000-0000000000aa")
	}
	return args.Error(0)
}

func (m *MockSaleRepository) FindAllByOwner(ctx context.Context, ownerID string) ([]model.Sale, error) {
	args := m.Called(ctx, ownerID)
	if list := args.Get(0); list != nil {
		return list.([]model.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleRepository) GetSalesMovement(ctx context.Context, ownerID string, startDate, endDate time.Time) ([]repository.SalesMovementData, error) {
	args := m.Called(ctx, ownerID, startDate, endDate)
	if data := args.Get(0); data != nil {
		return data.([]repository.SalesMovementData), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleRepository) GetTotals(ctx context.Context, ownerID string) (*repository.SalesTotals, error) {
	args := m.Called(ctx, ownerID)
	if totals := args.Get(0); totals != nil {
		return totals.(*repository.SalesTotals), args.Error(1)
	}
	return nil, args.Error(1)
}
