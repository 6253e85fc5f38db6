// Package memory is an in-process implementation of repository.Store.
//
// Transactions are serialized behind a single mutex and run against a staged
// copy of the data that replaces the live copy only on commit, so readers
// never observe a partially applied transaction.
package memory

import (
	"context"
	"sync"
	"time"

	"go-inventory-sales/internal/model"
	"go-inventory-sales/internal/repository"

	"github.com/google/uuid"
)

type state struct {
	products map[uuid.UUID]model.Product
	sales    map[uuid.UUID]model.Sale
}

func newState() *state {
	return &state{
		products: make(map[uuid.UUID]model.Product),
		sales:    make(map[uuid.UUID]model.Sale),
	}
}

func (st *state) clone() *state {
	c := &state{
		products: make(map[uuid.UUID]model.Product, len(st.products)),
		sales:    make(map[uuid.UUID]model.Sale, len(st.sales)),
	}
	for id, p := range st.products {
		c.products[id] = p.Clone()
	}
	for id, s := range st.sales {
		c.sales[id] = s
	}
	return c
}

// executor runs fn with exclusive access to a state.
type executor interface {
	exec(fn func(st *state) error) error
	now() time.Time
}

type Store struct {
	mu    sync.Mutex
	live  *state
	clock func() time.Time
}

var _ repository.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{live: newState(), clock: time.Now}
}

// WithClock overrides the time source used for generated timestamps.
func (s *Store) WithClock(clock func() time.Time) *Store {
	s.clock = clock
	return s
}

func (s *Store) exec(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.live)
}

func (s *Store) now() time.Time {
	return s.clock()
}

func (s *Store) Products() repository.ProductRepository {
	return &productRepo{ex: s}
}

func (s *Store) Sales() repository.SaleRepository {
	return &saleRepo{ex: s}
}

func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txStore{staged: s.live.clone(), clock: s.clock}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.live = tx.staged
	return nil
}

// txStore is the view handed to a transaction body. The Store mutex is already
// held, so it accesses the staged state directly.
type txStore struct {
	staged *state
	clock  func() time.Time
}

func (t *txStore) exec(fn func(st *state) error) error {
	return fn(t.staged)
}

func (t *txStore) now() time.Time {
	return t.clock()
}

func (t *txStore) Products() repository.ProductRepository {
	return &productRepo{ex: t}
}

func (t *txStore) Sales() repository.SaleRepository {
	return &saleRepo{ex: t}
}

// Transaction inside a transaction joins the outer one.
func (t *txStore) Transaction(_ context.Context, fn func(tx repository.Store) error) error {
	return fn(t)
}
