package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"go-inventory-sales/internal/model"
	"go-inventory-sales/internal/repository"

	"github.com/google/uuid"
)

type productRepo struct {
	ex executor
}

func (r *productRepo) Create(_ context.Context, product *model.Product) error {
	return r.ex.exec(func(st *state) error {
		if product.ID == uuid.Nil {
			product.ID = uuid.New()
		}
		now := r.ex.now()
		product.CreatedAt = now
		product.UpdatedAt = now
		st.products[product.ID] = product.Clone()
		return nil
	})
}

func (r *productRepo) FindAllByOwner(_ context.Context, ownerID string) ([]model.Product, error) {
	products := []model.Product{}
	err := r.ex.exec(func(st *state) error {
		products = filterProducts(st, func(p model.Product) bool { return p.UserID == ownerID })
		return nil
	})
	sort.SliceStable(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, err
}

func (r *productRepo) FindByIDAndOwner(_ context.Context, id uuid.UUID, ownerID string) (*model.Product, error) {
	return r.findOne(func(p model.Product) bool { return p.ID == id && p.UserID == ownerID })
}

func (r *productRepo) FindByName(_ context.Context, name string) (*model.Product, error) {
	// Same rule as LOWER(name) = LOWER(?) in SQL
	lowered := strings.ToLower(name)
	return r.findOne(func(p model.Product) bool { return strings.ToLower(p.Name) == lowered })
}

// FindByIDForUpdate needs no extra locking; transactions already hold the store
func (r *productRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*model.Product, error) {
	return r.findOne(func(p model.Product) bool { return p.ID == id })
}

func (r *productRepo) Update(_ context.Context, product *model.Product) error {
	return r.ex.exec(func(st *state) error {
		existing, ok := st.products[product.ID]
		if !ok || existing.UserID != product.UserID {
			return repository.ErrProductNotFound
		}
		product.CreatedAt = existing.CreatedAt
		product.UpdatedAt = r.ex.now()
		st.products[product.ID] = product.Clone()
		return nil
	})
}

func (r *productRepo) DeleteByIDAndOwner(_ context.Context, id uuid.UUID, ownerID string) error {
	return r.ex.exec(func(st *state) error {
		existing, ok := st.products[id]
		if !ok || existing.UserID != ownerID {
			return repository.ErrProductNotFound
		}
		delete(st.products, id)
		return nil
	})
}

func (r *productRepo) DecrementStock(_ context.Context, id uuid.UUID, qty int) error {
	return r.ex.exec(func(st *state) error {
		existing, ok := st.products[id]
		if !ok || existing.Quantity < qty {
			return repository.ErrInsufficientStock
		}
		existing.Quantity -= qty
		existing.UpdatedAt = r.ex.now()
		st.products[id] = existing
		return nil
	})
}

func (r *productRepo) FindLowStock(_ context.Context, ownerID string, threshold int) ([]model.Product, error) {
	products := []model.Product{}
	err := r.ex.exec(func(st *state) error {
		products = filterProducts(st, func(p model.Product) bool {
			return p.UserID == ownerID && p.Quantity < threshold
		})
		return nil
	})
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].Quantity != products[j].Quantity {
			return products[i].Quantity < products[j].Quantity
		}
		return products[i].Name < products[j].Name
	})
	return products, err
}

func (r *productRepo) FindExpiring(_ context.Context, ownerID string, before time.Time) ([]model.Product, error) {
	products := []model.Product{}
	err := r.ex.exec(func(st *state) error {
		products = filterProducts(st, func(p model.Product) bool {
			return p.UserID == ownerID && p.ExpiryDate != nil && !p.ExpiryDate.After(before)
		})
		return nil
	})
	sort.SliceStable(products, func(i, j int) bool { return products[i].ExpiryDate.Before(*products[j].ExpiryDate) })
	return products, err
}

func (r *productRepo) GetStats(_ context.Context, ownerID string, lowStockThreshold int) (*repository.ProductStats, error) {
	var stats repository.ProductStats
	err := r.ex.exec(func(st *state) error {
		for _, p := range st.products {
			if p.UserID != ownerID {
				continue
			}
			stats.TotalProducts++
			stats.TotalUnits += int64(p.Quantity)
			stats.TotalValuation += float64(p.Quantity) * p.SellingPrice
			if p.Quantity < lowStockThreshold {
				stats.LowStockCount++
			}
		}
		return nil
	})
	return &stats, err
}

// findOne returns a copy of the oldest product matching match
func (r *productRepo) findOne(match func(p model.Product) bool) (*model.Product, error) {
	var found *model.Product
	err := r.ex.exec(func(st *state) error {
		for _, p := range filterProducts(st, match) {
			if found == nil || p.CreatedAt.Before(found.CreatedAt) {
				c := p
				found = &c
			}
		}
		if found == nil {
			return repository.ErrProductNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// filterProducts returns clones ordered by creation time
func filterProducts(st *state, match func(p model.Product) bool) []model.Product {
	products := []model.Product{}
	for _, p := range st.products {
		if match(p) {
			products = append(products, p.Clone())
		}
	}
	sort.SliceStable(products, func(i, j int) bool { return products[i].CreatedAt.Before(products[j].CreatedAt) })
	return products
}
