package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-inventory-sales/internal/apperror"
	"go-inventory-sales/internal/model"
	"go-inventory-sales/internal/repository/memory"
	"go-inventory-sales/internal/repository/mocks"
	"go-inventory-sales/pkg/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	events := &recordingPublisher{}
	svc := NewProductService(store, events, zaptest.NewLogger(t))

	forged := uuid.New()
	req := &model.Product{
		BaseModel:    model.BaseModel{ID: forged},
		Name:         "  Widget ",
		Quantity:     10,
		UserID:       "someone-else",
		SellingPrice: 5,
		PurchaseCost: 2,
	}
	created, err := svc.CreateProduct(ctx, req, "u1")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.NotEqual(t, forged, created.ID)
	assert.Equal(t, "Widget", created.Name)
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, []string{"product_created"}, events.actions())
	assert.Equal(t, []string{"u1"}, events.events[0].Recipients)

	got, err := svc.GetProduct(ctx, created.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)
}

func TestCreateProduct_Validation(t *testing.T) {
	svc := NewProductService(memory.NewStore(), NopPublisher{}, zaptest.NewLogger(t))

	tests := []struct {
		name    string
		product model.Product
		field   string
		tag     string
	}{
		{"blank name", model.Product{Name: "  ", Quantity: 1}, "name", "notblank"},
		{"negative quantity", model.Product{Name: "Widget", Quantity: -1}, "quantity", "min"},
		{"negative price", model.Product{Name: "Widget", SellingPrice: -0.5}, "sellingPrice", "min"},
		{"negative cost", model.Product{Name: "Widget", PurchaseCost: -3}, "purchaseCost", "min"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.product
			_, err := svc.CreateProduct(context.Background(), &p, "u1")
			assertKind(t, err, apperror.KindValidation)

			var appErr *apperror.Error
			require.True(t, errors.As(err, &appErr))
			details, ok := appErr.Details.([]*validator.FieldError)
			require.True(t, ok)
			require.NotEmpty(t, details)
			assert.Equal(t, tt.field, details[0].Field)
			assert.Equal(t, tt.tag, details[0].Tag)
		})
	}

	products, err := svc.ListProducts(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestListProducts_OwnerScopedByName(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewProductService(store, NopPublisher{}, zaptest.NewLogger(t))
	seed(t, store, model.Product{Name: "Bolt", UserID: "u1"})
	seed(t, store, model.Product{Name: "Anvil", UserID: "u1"})
	seed(t, store, model.Product{Name: "Chisel", UserID: "u2"})

	products, err := svc.ListProducts(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Anvil", products[0].Name)
	assert.Equal(t, "Bolt", products[1].Name)

	products, err = svc.ListProducts(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestGetProduct_OtherOwnerIsNotFound(t *testing.T) {
	store := memory.NewStore()
	svc := NewProductService(store, NopPublisher{}, zaptest.NewLogger(t))
	p := seed(t, store, widget("u1", 3))

	_, err := svc.GetProduct(context.Background(), p.ID, "u2")
	assertKind(t, err, apperror.KindNotFound)

	_, err = svc.GetProduct(context.Background(), uuid.New(), "u1")
	assertKind(t, err, apperror.KindNotFound)
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	events := &recordingPublisher{}
	svc := NewProductService(store, events, zaptest.NewLogger(t))
	p := seed(t, store, widget("u1", 10))

	qty := 25
	category := " Tools "
	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	updated, err := svc.UpdateProduct(ctx, p.ID, model.ProductPatch{Quantity: &qty, Category: &category, ExpiryDate: model.SetTime(expiry)}, "u1")
	require.NoError(t, err)

	assert.Equal(t, 25, updated.Quantity)
	assert.Equal(t, "Tools", updated.Category)
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, 5.0, updated.SellingPrice)
	require.NotNil(t, updated.ExpiryDate)
	assert.True(t, expiry.Equal(*updated.ExpiryDate))
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)
	assert.Equal(t, 25, quantityOf(t, store, p))
	assert.Equal(t, []string{"product_updated"}, events.actions())

	cleared, err := svc.UpdateProduct(ctx, p.ID, model.ProductPatch{ExpiryDate: model.ClearTime()}, "u1")
	require.NoError(t, err)
	assert.Nil(t, cleared.ExpiryDate)
	assert.Equal(t, 25, cleared.Quantity)

	got, err := svc.GetProduct(ctx, p.ID, "u1")
	require.NoError(t, err)
	assert.Nil(t, got.ExpiryDate)
}

func TestUpdateProduct_Failures(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	events := &recordingPublisher{}
	svc := NewProductService(store, events, zaptest.NewLogger(t))
	p := seed(t, store, widget("u1", 10))

	qty := 1
	_, err := svc.UpdateProduct(ctx, p.ID, model.ProductPatch{Quantity: &qty}, "u2")
	assertKind(t, err, apperror.KindNotFound)

	_, err = svc.UpdateProduct(ctx, uuid.New(), model.ProductPatch{Quantity: &qty}, "u1")
	assertKind(t, err, apperror.KindNotFound)

	negative := -5
	_, err = svc.UpdateProduct(ctx, p.ID, model.ProductPatch{Quantity: &negative}, "u1")
	assertKind(t, err, apperror.KindValidation)

	blank := "   "
	_, err = svc.UpdateProduct(ctx, p.ID, model.ProductPatch{Name: &blank}, "u1")
	assertKind(t, err, apperror.KindValidation)

	assert.Equal(t, 10, quantityOf(t, store, p))
	assert.Empty(t, events.actions())
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	events := &recordingPublisher{}
	svc := NewProductService(store, events, zaptest.NewLogger(t))
	p := seed(t, store, widget("u1", 10))

	assertKind(t, svc.DeleteProduct(ctx, p.ID, "u2"), apperror.KindNotFound)
	require.NoError(t, svc.DeleteProduct(ctx, p.ID, "u1"))
	assertKind(t, svc.DeleteProduct(ctx, p.ID, "u1"), apperror.KindNotFound)

	_, err := svc.GetProduct(ctx, p.ID, "u1")
	assertKind(t, err, apperror.KindNotFound)
	assert.Equal(t, []string{"product_deleted"}, events.actions())
}

func TestProductService_StoreErrorsAreInternal(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("connection refused")
	id := uuid.New()

	store := mocks.NewMockStore()
	store.ProductRepo.On("Create", ctx, mock.AnythingOfType("*model.Product")).Return(dbErr).Once()
	store.ProductRepo.On("FindAllByOwner", ctx, "u1").Return(nil, dbErr).Once()
	store.ProductRepo.On("FindByIDAndOwner", ctx, id, "u1").Return(nil, dbErr).Once()
	store.ProductRepo.On("DeleteByIDAndOwner", ctx, id, "u1").Return(dbErr).Once()
	store.On("Transaction", ctx).Return(dbErr).Once()

	svc := NewProductService(store, NopPublisher{}, zaptest.NewLogger(t))

	_, err := svc.CreateProduct(ctx, &model.Product{Name: "Widget"}, "u1")
	assertKind(t, err, apperror.KindInternal)
	_, err = svc.ListProducts(ctx, "u1")
	assertKind(t, err, apperror.KindInternal)
	_, err = svc.GetProduct(ctx, id, "u1")
	assertKind(t, err, apperror.KindInternal)
	_, err = svc.UpdateProduct(ctx, id, model.ProductPatch{}, "u1")
	assertKind(t, err, apperror.KindInternal)
	assertKind(t, svc.DeleteProduct(ctx, id, "u1"), apperror.KindInternal)

	store.AssertExpectations(t)
	store.ProductRepo.AssertExpectations(t)
}
