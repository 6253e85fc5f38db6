package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-inventory-sales/internal/apperror"
	"go-inventory-sales/internal/model"
	"go-inventory-sales/internal/repository"
	"go-inventory-sales/internal/ws"

	"go.uber.org/zap"
)

// SaleState is a step of one sale request.
type SaleState string

const (
	SaleReceived        SaleState = "RECEIVED"
	SaleValidated       SaleState = "VALIDATED"
	SaleProductResolved SaleState = "PRODUCT_RESOLVED"
	SaleStockChecked    SaleState = "STOCK_CHECKED"
	SaleTxOpen          SaleState = "TRANSACTION_OPEN"
	SaleCommitted       SaleState = "COMMITTED"
	SaleAborted         SaleState = "ABORTED"
)

// SaleRequest is the input of RecordSale. Nil prices fall back to the
// product's stored prices; a nil date means now.
type SaleRequest struct {
	ProductName  string
	QuantitySold int
	SellingPrice *float64
	PurchaseCost *float64
	Date         *time.Time
}

type SaleService interface {
	RecordSale(ctx context.Context, req SaleRequest, userID string) (*model.Sale, error)
	ListSales(ctx context.Context, userID string) ([]model.Sale, error)
}

type saleService struct {
	store  repository.Store
	events EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

func NewSaleService(store repository.Store, events EventPublisher, log *zap.Logger) SaleService {
	return &saleService{store: store, events: events, log: log, now: time.Now}
}

// Profit is (sellingPrice - purchaseCost) * quantity, unrounded; losses are negative.
func Profit(sellingPrice, purchaseCost float64, quantity int) float64 {
	return (sellingPrice - purchaseCost) * float64(quantity)
}

// RecordSale resolves the product by name, checks stock and commits the sale
// and the stock decrement as one transaction. The stock check is repeated
// under the row lock, so of two racing sales for the last units only one can
// commit. Sales are never retried here; a retry could double-decrement stock.
func (s *saleService) RecordSale(ctx context.Context, req SaleRequest, userID string) (*model.Sale, error) {
	log := s.log.With(zap.String("user_id", userID), zap.String("product", req.ProductName), zap.Int("quantity", req.QuantitySold))
	trace := func(state SaleState) { log.Debug("sale state", zap.String("state", string(state))) }
	trace(SaleReceived)

	name := strings.TrimSpace(req.ProductName)
	if name == "" || req.QuantitySold <= 0 {
		return nil, apperror.Validation("Product name and quantitySold required", nil)
	}
	trace(SaleValidated)

	// Lookup is by name across all owners, unlike every other endpoint.
	// Kept as is; a cross-owner match is logged below.
	product, err := s.store.Products().FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperror.NotFound(fmt.Sprintf("Product not found: %s", name))
		}
		log.Error("sale product lookup failed", zap.Error(err))
		return nil, apperror.Internal("Failed to record sale", err)
	}
	trace(SaleProductResolved)

	if product.Quantity < req.QuantitySold {
		return nil, insufficientStock(product, req.QuantitySold)
	}
	trace(SaleStockChecked)

	if product.UserID != userID {
		log.Warn("sale recorded against a product owned by another user",
			zap.String("product_id", product.ID.String()),
			zap.String("owner_id", product.UserID))
	}

	saleDate := s.now()
	if req.Date != nil {
		saleDate = *req.Date
	}

	var (
		sale     *model.Sale
		newStock int
	)
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		trace(SaleTxOpen)

		locked, err := tx.Products().FindByIDForUpdate(ctx, product.ID)
		if err != nil {
			return err
		}
		if locked.Quantity < req.QuantitySold {
			return insufficientStock(locked, req.QuantitySold)
		}

		sellingPrice, purchaseCost := locked.SellingPrice, locked.PurchaseCost
		if req.SellingPrice != nil {
			sellingPrice = *req.SellingPrice
		}
		if req.PurchaseCost != nil {
			purchaseCost = *req.PurchaseCost
		}

		sale = &model.Sale{
			ProductID:    locked.ID,
			ProductName:  locked.Name,
			QuantitySold: req.QuantitySold,
			TotalProfit:  Profit(sellingPrice, purchaseCost, req.QuantitySold),
			UserID:       userID,
			Date:         saleDate,
		}
		if err := tx.Sales().Create(ctx, sale); err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		if err := tx.Products().DecrementStock(ctx, locked.ID, req.QuantitySold); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return insufficientStock(locked, req.QuantitySold)
			}
			return fmt.Errorf("decrement stock: %w", err)
		}
		newStock = locked.Quantity - req.QuantitySold
		product = locked
		return nil
	})
	if err != nil {
		trace(SaleAborted)
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperror.NotFound(fmt.Sprintf("Product not found: %s", name))
		}
		log.Error("sale transaction aborted", zap.Error(err))
		return nil, apperror.TransactionFailed(err)
	}
	trace(SaleCommitted)

	log.Info("sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.Float64("total_profit", sale.TotalProfit),
		zap.Int("new_stock", newStock))

	s.events.Publish(ws.Event{
		Type:   eventTypeStockUpdate,
		Action: "sale_recorded",
		Data: map[string]interface{}{
			"sale":      *sale,
			"new_stock": newStock,
		},
		Message:    fmt.Sprintf("Sold %d units of '%s'", sale.QuantitySold, sale.ProductName),
		Recipients: recipients(userID, product.UserID),
	})

	return sale, nil
}

func (s *saleService) ListSales(ctx context.Context, userID string) ([]model.Sale, error) {
	sales, err := s.store.Sales().FindAllByOwner(ctx, userID)
	if err != nil {
		s.log.Error("list sales failed", zap.String("user_id", userID), zap.Error(err))
		return nil, apperror.Internal("Failed to fetch sales", err)
	}
	return sales, nil
}

func insufficientStock(p *model.Product, requested int) *apperror.Error {
	return apperror.InsufficientStock(
		fmt.Sprintf("Not enough stock for %s. Available: %d", p.Name, p.Quantity),
		p.Quantity,
		requested,
	)
}
