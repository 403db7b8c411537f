package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact recorded by an aggregate and delivered through the
// outbox. EventID doubles as the idempotency key of every consumer.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
}

// BaseDomainEvent is embedded by concrete events. Its fields travel in the
// outbox payload next to the event's own fields.
type BaseDomainEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	OccurredOn time.Time `json:"timestamp"`
	Aggregate  uuid.UUID `json:"aggregate_id"`
	Kind       string    `json:"aggregate_type"`
}

// NewBaseDomainEvent stamps a new event for the aggregate aggID of kind
func NewBaseDomainEvent(eventType, kind string, aggID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredOn: time.Now().UTC(),
		Aggregate:  aggID,
		Kind:       kind,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e *BaseDomainEvent) EventType() string      { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.OccurredOn }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.Aggregate }
func (e *BaseDomainEvent) AggregateType() string  { return e.Kind }

// EventHandler consumes delivered events
type EventHandler interface {
	// Handle applies one event. An error leaves the outbox entry due for
	// another attempt.
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the types to subscribe to; empty means all
	EventTypes() []string
}

// EventPublisher hands events to their handlers
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus dispatches published events to subscribed handlers
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
}
