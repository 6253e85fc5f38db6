package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go-inventory-sales/internal/apperror"
	"go-inventory-sales/internal/model"
	"go-inventory-sales/internal/repository"
	"go-inventory-sales/internal/repository/memory"
	"go-inventory-sales/internal/ws"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (p *recordingPublisher) Publish(e ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

// faultyStore fails every stock decrement made inside a transaction, after
// the sale row has already been written.
type faultyStore struct {
	*memory.Store
}

func (s *faultyStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.Transaction(ctx, func(tx repository.Store) error {
		return fn(&faultyTx{Store: tx})
	})
}

type faultyTx struct {
	repository.Store
}

func (t *faultyTx) Products() repository.ProductRepository {
	return &faultyProducts{ProductRepository: t.Store.Products()}
}

type faultyProducts struct {
	repository.ProductRepository
}

func (p *faultyProducts) DecrementStock(context.Context, uuid.UUID, int) error {
	return errors.New("simulated write fault")
}

func seed(t *testing.T, store repository.Store, p model.Product) *model.Product {
	t.Helper()
	require.NoError(t, store.Products().Create(context.Background(), &p))
	return &p
}

func quantityOf(t *testing.T, store repository.Store, p *model.Product) int {
	t.Helper()
	got, err := store.Products().FindByIDAndOwner(context.Background(), p.ID, p.UserID)
	require.NoError(t, err)
	return got.Quantity
}

func assertKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperror.KindOf(err), "error: %v", err)
}
