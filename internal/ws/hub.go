package ws

import (
	"context"
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Conn is the part of *websocket.Conn the hub writes to
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one authenticated websocket connection
type Client struct {
	UserID string
	Conn   Conn
}

// Event is pushed to the clients of every user listed in Recipients
type Event struct {
	Type       string      `json:"type"`
	Action     string      `json:"action"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message,omitempty"`
	Recipients []string    `json:"-"`
}

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	done       chan struct{}
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Join registers c; it is a no-op once the hub has stopped
func (h *Hub) Join(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

func (h *Hub) Leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues an event without blocking the caller. Events are dropped
// when the queue is full.
func (h *Hub) Publish(event Event) {
	select {
	case h.broadcast <- event:
	default:
		h.log.Warn("ws broadcast queue full, dropping event", zap.String("action", event.Action))
	}
}

// Run serves the hub until ctx is done, then closes every connection
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for c := range h.clients {
			c.Conn.Close()
			delete(h.clients, c)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c] = true
			h.log.Debug("ws client connected", zap.String("user_id", c.UserID))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.Conn.Close()
			}

		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) deliver(event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Error("ws event marshal failed", zap.String("action", event.Action), zap.Error(err))
		return
	}

	recipients := make(map[string]bool, len(event.Recipients))
	for _, id := range event.Recipients {
		recipients[id] = true
	}

	for c := range h.clients {
		if !recipients[c.UserID] {
			continue
		}
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.Conn.Close()
			delete(h.clients, c)
		}
	}
}
