package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeConn struct {
	messages chan []byte
	fail     bool
	closed   atomic.Bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{messages: make(chan []byte, 8)}
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	if c.fail {
		return errors.New("broken pipe")
	}
	c.messages <- data
	return nil
}

func (c *fakeConn) Close() error {
	c.closed.Store(true)
	return nil
}

func receive(t *testing.T, c *fakeConn) Event {
	t.Helper()
	select {
	case data := <-c.messages:
		var e Event
		require.NoError(t, json.Unmarshal(data, &e))
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHub_DeliversToRecipientsOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(zaptest.NewLogger(t))
	go hub.Run(ctx)

	alice, bob := newFakeConn(), newFakeConn()
	hub.Join(&Client{UserID: "alice", Conn: alice})
	hub.Join(&Client{UserID: "bob", Conn: bob})

	hub.Publish(Event{Type: "stock_update", Action: "sale_recorded", Recipients: []string{"alice"}})
	hub.Publish(Event{Type: "stock_update", Action: "product_deleted", Recipients: []string{"bob"}})

	assert.Equal(t, "sale_recorded", receive(t, alice).Action)
	assert.Equal(t, "product_deleted", receive(t, bob).Action)
	assert.Empty(t, alice.messages)
}

func TestHub_DropsBrokenConnections(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(zaptest.NewLogger(t))
	go hub.Run(ctx)

	broken := newFakeConn()
	broken.fail = true
	healthy := newFakeConn()
	hub.Join(&Client{UserID: "alice", Conn: broken})
	hub.Join(&Client{UserID: "alice", Conn: healthy})

	hub.Publish(Event{Action: "sale_recorded", Recipients: []string{"alice"}})
	receive(t, healthy)
	assert.Eventually(t, broken.closed.Load, time.Second, 10*time.Millisecond)
}

func TestHub_StopClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zaptest.NewLogger(t))
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	conn := newFakeConn()
	client := &Client{UserID: "alice", Conn: conn}
	hub.Join(client)
	cancel()
	<-stopped

	assert.True(t, conn.closed.Load())
	// Join and Leave must not block once the hub is gone
	hub.Join(client)
	hub.Leave(client)
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	for i := 0; i < cap(hub.broadcast)+10; i++ {
		hub.Publish(Event{Action: "sale_recorded"})
	}
	assert.Len(t, hub.broadcast, cap(hub.broadcast))
}
