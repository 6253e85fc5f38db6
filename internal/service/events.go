package service

import "go-inventory-sales/internal/ws"

// EventPublisher receives domain events after they have been committed
type EventPublisher interface {
	Publish(event ws.Event)
}

// NopPublisher discards every event
type NopPublisher struct{}

func (NopPublisher) Publish(ws.Event) {}

const eventTypeStockUpdate = "stock_update"

func recipients(ids ...string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
