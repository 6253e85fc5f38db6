package service

import (
	"context"
	"errors"
	"fmt"

	"go-inventory-sales/internal/apperror"
	"go-inventory-sales/internal/model"
	"go-inventory-sales/internal/repository"
	"go-inventory-sales/internal/ws"
	"go-inventory-sales/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *model.Product, userID string) (*model.Product, error)
	ListProducts(ctx context.Context, userID string) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID, userID string) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch model.ProductPatch, userID string) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, userID string) error
}

type productService struct {
	store  repository.Store
	events EventPublisher
	log    *zap.Logger
}

func NewProductService(store repository.Store, events EventPublisher, log *zap.Logger) ProductService {
	return &productService{store: store, events: events, log: log}
}

func (s *productService) CreateProduct(ctx context.Context, req *model.Product, userID string) (*model.Product, error) {
	// Identity and ownership come from the server, never from the payload
	req.BaseModel = model.BaseModel{}
	req.UserID = userID
	req.Normalize()

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	if err := s.store.Products().Create(ctx, req); err != nil {
		s.log.Error("create product failed", zap.String("user_id", userID), zap.Error(err))
		return nil, apperror.Internal("Failed to create product", err)
	}

	s.publish("product_created", req, fmt.Sprintf("Product '%s' created", req.Name))
	return req, nil
}

func (s *productService) ListProducts(ctx context.Context, userID string) ([]model.Product, error) {
	products, err := s.store.Products().FindAllByOwner(ctx, userID)
	if err != nil {
		s.log.Error("list products failed", zap.String("user_id", userID), zap.Error(err))
		return nil, apperror.Internal("Failed to fetch products", err)
	}
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID, userID string) (*model.Product, error) {
	product, err := s.store.Products().FindByIDAndOwner(ctx, id, userID)
	if err != nil {
		return nil, s.lookupError(err, "Failed to fetch product")
	}
	return product, nil
}

// UpdateProduct locks the row so a concurrent sale cannot be lost between the
// read and the write of the quantity.
func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, patch model.ProductPatch, userID string) (*model.Product, error) {
	var updated *model.Product

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		existing, err := tx.Products().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if existing.UserID != userID {
			return repository.ErrProductNotFound
		}

		patch.Apply(existing)
		if errs := validator.ValidateStruct(existing); len(errs) > 0 {
			return validationError(errs)
		}

		if err := tx.Products().Update(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, s.lookupError(err, "Failed to update product")
	}

	s.publish("product_updated", updated, fmt.Sprintf("Product '%s' updated", updated.Name))
	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID, userID string) error {
	if err := s.store.Products().DeleteByIDAndOwner(ctx, id, userID); err != nil {
		return s.lookupError(err, "Failed to delete product")
	}

	s.events.Publish(ws.Event{
		Type:       eventTypeStockUpdate,
		Action:     "product_deleted",
		Data:       map[string]interface{}{"_id": id},
		Recipients: recipients(userID),
	})
	return nil
}

func (s *productService) lookupError(err error, message string) error {
	if errors.Is(err, repository.ErrProductNotFound) {
		return apperror.NotFound("Product not found")
	}
	s.log.Error(message, zap.Error(err))
	return apperror.Internal(message, err)
}

func (s *productService) publish(action string, p *model.Product, message string) {
	s.events.Publish(ws.Event{
		Type:       eventTypeStockUpdate,
		Action:     action,
		Data:       *p,
		Message:    message,
		Recipients: recipients(p.UserID),
	})
}

func validationError(errs []*validator.FieldError) *apperror.Error {
	first := errs[0]
	msg := fmt.Sprintf("Validation failed: field '%s' failed on tag '%s'", first.Field, first.Tag)
	return apperror.Validation(msg, errs)
}
