package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"katalog/internal/models"
)

// Type names a product lifecycle event. It doubles as the AMQP routing key.
type Type string

const (
	ProductCreated Type = "product.created"
	ProductUpdated Type = "product.updated"
	ProductDeleted Type = "product.deleted"
)

// BindingKey matches every product event type.
const BindingKey = "product.#"

// Event is emitted after a product write has been committed by the store.
type Event struct {
	Type       Type            `json:"type"`
	ProductID  uint            `json:"product_id"`
	Product    *models.Product `json:"product"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewEvent snapshots product into an event of type t.
func NewEvent(t Type, product *models.Product) Event {
	snapshot := *product
	return Event{
		Type:       t,
		ProductID:  product.ID,
		Product:    &snapshot,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers product events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Sender is the transport an AMQPPublisher writes to; *rabbitmq.Client
// satisfies it.
type Sender interface {
	Publish(routingKey string, body []byte) error
}

// AMQPPublisher encodes events as JSON and sends them with the event type as
// routing key.
type AMQPPublisher struct {
	sender Sender
	mu     sync.Mutex
}

// NewAMQPPublisher creates a publisher on top of sender.
func NewAMQPPublisher(sender Sender) *AMQPPublisher {
	return &AMQPPublisher{sender: sender}
}

func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.sender.Publish(string(event.Type), body); err != nil {
		return fmt.Errorf("failed to publish %s event for product %d: %w", event.Type, event.ProductID, err)
	}
	return nil
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// Decode parses a delivered event body.
func Decode(body []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return Event{}, fmt.Errorf("failed to decode product event: %w", err)
	}
	return event, nil
}
