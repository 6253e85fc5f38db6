package service

import (
	"context"
	"time"

	"go-inventory-sales/internal/apperror"
	"go-inventory-sales/internal/model"
	"go-inventory-sales/internal/repository"

	"go.uber.org/zap"
)

// DashboardStats combines the inventory and ledger overview of one user
type DashboardStats struct {
	repository.ProductStats
	repository.SalesTotals
	LowStockThreshold int `json:"lowStockThreshold"`
}

// Alerts lists products that are running out or about to expire
type Alerts struct {
	LowStock []model.Product `json:"lowStock"`
	Expiring []model.Product `json:"expiring"`
}

type DashboardService interface {
	GetDashboardStats(ctx context.Context, userID string) (*DashboardStats, error)
	GetSalesMovement(ctx context.Context, userID string, days int) ([]repository.SalesMovementData, error)
	GetAlerts(ctx context.Context, userID string, expiryWithinDays int) (*Alerts, error)
}

type dashboardService struct {
	store             repository.Store
	lowStockThreshold int
	log               *zap.Logger
	now               func() time.Time
}

func NewDashboardService(store repository.Store, lowStockThreshold int, log *zap.Logger) DashboardService {
	return &dashboardService{store: store, lowStockThreshold: lowStockThreshold, log: log, now: time.Now}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context, userID string) (*DashboardStats, error) {
	productStats, err := s.store.Products().GetStats(ctx, userID, s.lowStockThreshold)
	if err != nil {
		return nil, s.internal("Failed to fetch dashboard stats", err)
	}
	totals, err := s.store.Sales().GetTotals(ctx, userID)
	if err != nil {
		return nil, s.internal("Failed to fetch dashboard stats", err)
	}

	return &DashboardStats{
		ProductStats:      *productStats,
		SalesTotals:       *totals,
		LowStockThreshold: s.lowStockThreshold,
	}, nil
}

func (s *dashboardService) GetSalesMovement(ctx context.Context, userID string, days int) ([]repository.SalesMovementData, error) {
	endDate := s.now()
	startDate := endDate.AddDate(0, 0, -days)

	data, err := s.store.Sales().GetSalesMovement(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, s.internal("Failed to fetch sales movement", err)
	}
	return data, nil
}

func (s *dashboardService) GetAlerts(ctx context.Context, userID string, expiryWithinDays int) (*Alerts, error) {
	lowStock, err := s.store.Products().FindLowStock(ctx, userID, s.lowStockThreshold)
	if err != nil {
		return nil, s.internal("Failed to fetch alerts", err)
	}
	expiring, err := s.store.Products().FindExpiring(ctx, userID, s.now().AddDate(0, 0, expiryWithinDays))
	if err != nil {
		return nil, s.internal("Failed to fetch alerts", err)
	}
	return &Alerts{LowStock: lowStock, Expiring: expiring}, nil
}

func (s *dashboardService) internal(message string, err error) error {
	s.log.Error(message, zap.Error(err))
	return apperror.Internal(message, err)
}
