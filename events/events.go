package events

import (
	"context"
	"sync"
	"time"

	"order-desk/billing"
)

const (
	OrderCreated   = "order.created"
	OrderUpdated   = "order.updated"
	OrderPaid      = "order.paid"
	OrderDelivered = "order.delivered"
	OrderDeleted   = "order.deleted"
)

// Publisher delivers order events to whoever is listening. Publishing happens
// after the database commit and never rolls a mutation back.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

// OrderEvent is the body of every order.* message.
type OrderEvent struct {
	OrderID     uint          `json:"orderId"`
	Version     uint          `json:"version"`
	Total       billing.Money `json:"total"`
	Recip       billing.Money `json:"recip"`
	Remained    billing.Money `json:"remained"`
	IsDelivered bool          `json:"isDelivered"`
	At          time.Time     `json:"at"`
}

type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error { return nil }

// Message is a published event captured by Recorder.
type Message struct {
	RoutingKey string
	Payload    any
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Publish(_ context.Context, routingKey string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{RoutingKey: routingKey, Payload: payload})
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

func (r *Recorder) RoutingKeys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.messages))
	for _, m := range r.messages {
		keys = append(keys, m.RoutingKey)
	}
	return keys
}
