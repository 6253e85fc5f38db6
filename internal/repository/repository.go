package repository

import (
	"context"
	"errors"
	"time"

	"go-inventory-sales/internal/model"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAllByOwner(ctx context.Context, ownerID string) ([]model.Product, error)
	FindByIDAndOwner(ctx context.Context, id uuid.UUID, ownerID string) (*model.Product, error)
	// FindByName matches case-insensitively across all owners. When several
	// products share the name the oldest one wins.
	FindByName(ctx context.Context, name string) (*model.Product, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	DeleteByIDAndOwner(ctx context.Context, id uuid.UUID, ownerID string) error
	// DecrementStock subtracts qty only if at least qty is on hand.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
	FindLowStock(ctx context.Context, ownerID string, threshold int) ([]model.Product, error)
	FindExpiring(ctx context.Context, ownerID string, before time.Time) ([]model.Product, error)
	GetStats(ctx context.Context, ownerID string, lowStockThreshold int) (*ProductStats, error)
}

type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	FindAllByOwner(ctx context.Context, ownerID string) ([]model.Sale, error)
	GetSalesMovement(ctx context.Context, ownerID string, startDate, endDate time.Time) ([]SalesMovementData, error)
	GetTotals(ctx context.Context, ownerID string) (*SalesTotals, error)
}

// Store groups the repositories that must change together.
type Store interface {
	Products() ProductRepository
	Sales() SaleRepository
	// Transaction runs fn as one atomic unit. Writes made through the tx Store
	// are committed only when fn returns nil; an error or panic discards all
	// of them.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// ProductStats for the dashboard overview
type ProductStats struct {
	TotalProducts  int64   `json:"totalProducts"`
	TotalUnits     int64   `json:"totalUnits"`
	LowStockCount  int64   `json:"lowStockCount"`
	TotalValuation float64 `json:"totalValuation"` // SUM(quantity * sellingPrice)
}

// SalesTotals aggregates the ledger of one owner
type SalesTotals struct {
	SalesCount     int64   `json:"salesCount"`
	TotalUnitsSold int64   `json:"totalUnitsSold"`
	TotalProfit    float64 `json:"totalProfit"`
}

// SalesMovementData is one day of sales for charts
type SalesMovementData struct {
	Date      string  `json:"date"`
	UnitsSold int64   `json:"unitsSold"`
	Profit    float64 `json:"profit"`
}
