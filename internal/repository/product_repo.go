package repository

import (
	"context"
	"errors"
	"time"

	"go-inventory-sales/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) FindAllByOwner(ctx context.Context, ownerID string) ([]model.Product, error) {
	products := []model.Product{}
	err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByIDAndOwner(ctx context.Context, id uuid.UUID, ownerID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).First(&product, "id = ? AND user_id = ?", id, ownerID).Error
	return r.found(&product, err)
}

func (r *productRepo) FindByName(ctx context.Context, name string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Order("created_at ASC").
		First(&product).Error
	return r.found(&product, err)
}

// FindByIDForUpdate takes a row lock; call it through a transactional Store
func (r *productRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error
	return r.found(&product, err)
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	res := r.db.WithContext(ctx).
		Model(product).
		Where("user_id = ?", product.UserID).
		Select("name", "quantity", "category", "selling_price", "purchase_cost", "supplier_name", "expiry_date").
		Updates(product)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepo) DeleteByIDAndOwner(ctx context.Context, id uuid.UUID, ownerID string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DecrementStock is a conditional update so stock can never go negative even
// without the row lock
func (r *productRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *productRepo) FindLowStock(ctx context.Context, ownerID string, threshold int) ([]model.Product, error) {
	products := []model.Product{}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND quantity < ?", ownerID, threshold).
		Order("quantity ASC, name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) FindExpiring(ctx context.Context, ownerID string, before time.Time) ([]model.Product, error) {
	products := []model.Product{}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND expiry_date IS NOT NULL AND expiry_date <= ?", ownerID, before).
		Order("expiry_date ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) GetStats(ctx context.Context, ownerID string, lowStockThreshold int) (*ProductStats, error) {
	var stats ProductStats
	db := r.db.WithContext(ctx)

	err := db.Model(&model.Product{}).
		Where("user_id = ?", ownerID).
		Select("COUNT(*) AS total_products, COALESCE(SUM(quantity), 0) AS total_units, COALESCE(SUM(quantity * selling_price), 0) AS total_valuation").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&model.Product{}).
		Where("user_id = ? AND quantity < ?", ownerID, lowStockThreshold).
		Count(&stats.LowStockCount).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *productRepo) found(product *model.Product, err error) (*model.Product, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}
