package memory

import (
	"context"
	"sort"
	"time"

	"go-inventory-sales/internal/model"
	"go-inventory-sales/internal/repository"

	"github.com/google/uuid"
)

type saleRepo struct {
	ex executor
}

func (r *saleRepo) Create(_ context.Context, sale *model.Sale) error {
	return r.ex.exec(func(st *state) error {
		if _, ok := st.products[sale.ProductID]; !ok {
			return repository.ErrProductNotFound
		}
		if sale.ID == uuid.Nil {
			sale.ID = uuid.New()
		}
		now := r.ex.now()
		if sale.Date.IsZero() {
			sale.Date = now
		}
		sale.CreatedAt = now
		stored := *sale
		stored.Product = nil
		st.sales[sale.ID] = stored
		return nil
	})
}

func (r *saleRepo) FindAllByOwner(_ context.Context, ownerID string) ([]model.Sale, error) {
	sales := []model.Sale{}
	err := r.ex.exec(func(st *state) error {
		for _, s := range st.sales {
			if s.UserID == ownerID {
				sales = append(sales, s)
			}
		}
		return nil
	})
	sort.SliceStable(sales, func(i, j int) bool {
		if !sales[i].Date.Equal(sales[j].Date) {
			return sales[i].Date.After(sales[j].Date)
		}
		return sales[i].CreatedAt.After(sales[j].CreatedAt)
	})
	return sales, err
}

func (r *saleRepo) GetSalesMovement(_ context.Context, ownerID string, startDate, endDate time.Time) ([]repository.SalesMovementData, error) {
	byDay := map[string]*repository.SalesMovementData{}
	err := r.ex.exec(func(st *state) error {
		for _, s := range st.sales {
			if s.UserID != ownerID || s.Date.Before(startDate) || s.Date.After(endDate) {
				continue
			}
			day := s.Date.UTC().Format("2006-01-02")
			data, ok := byDay[day]
			if !ok {
				data = &repository.SalesMovementData{Date: day}
				byDay[day] = data
			}
			data.UnitsSold += int64(s.QuantitySold)
			data.Profit += s.TotalProfit
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	results := make([]repository.SalesMovementData, 0, len(byDay))
	for _, data := range byDay {
		results = append(results, *data)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Date < results[j].Date })
	return results, nil
}

func (r *saleRepo) GetTotals(_ context.Context, ownerID string) (*repository.SalesTotals, error) {
	var totals repository.SalesTotals
	err := r.ex.exec(func(st *state) error {
		for _, s := range st.sales {
			if s.UserID != ownerID {
				continue
			}
			totals.SalesCount++
			totals.TotalUnitsSold += int64(s.QuantitySold)
			totals.TotalProfit += s.TotalProfit
		}
		return nil
	})
	return &totals, err
}
