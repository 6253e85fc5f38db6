package repository

import (
	"context"

	"gorm.io/gorm"
)

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by GORM
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Products() ProductRepository {
	return NewProductRepo(s.db)
}

func (s *gormStore) Sales() SaleRepository {
	return NewSaleRepo(s.db)
}

// Transaction uses GORM's transaction block: commit on nil, rollback on error
// or panic. Nested calls become savepoints.
func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
