package repository

import (
	"context"
	"time"

	"go-inventory-sales/internal/model"

	"gorm.io/gorm"
)

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(ctx context.Context, sale *model.Sale) error {
	return r.db.WithContext(ctx).Omit("Product").Create(sale).Error
}

func (r *saleRepo) FindAllByOwner(ctx context.Context, ownerID string) ([]model.Sale, error) {
	sales := []model.Sale{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("sold_at DESC, created_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) GetSalesMovement(ctx context.Context, ownerID string, startDate, endDate time.Time) ([]SalesMovementData, error) {
	results := []SalesMovementData{}

	// Aggregate sales per UTC calendar day, whatever the session time zone
	rows, err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select(`
			TO_CHAR(sold_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') as day,
			COALESCE(SUM(quantity_sold), 0) as units_sold,
			COALESCE(SUM(total_profit), 0) as profit
		`).
		Where("user_id = ? AND sold_at BETWEEN ? AND ?", ownerID, startDate, endDate).
		Group("day").
		Order("day ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data SalesMovementData
		if err := rows.Scan(&data.Date, &data.UnitsSold, &data.Profit); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}

func (r *saleRepo) GetTotals(ctx context.Context, ownerID string) (*SalesTotals, error) {
	var totals SalesTotals
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("user_id = ?", ownerID).
		Select("COUNT(*) AS sales_count, COALESCE(SUM(quantity_sold), 0) AS total_units_sold, COALESCE(SUM(total_profit), 0) AS total_profit").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}
