package event

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// OutboxPublisher writes domain events to the outbox table inside the
// caller's transaction, so they commit or roll back with the state change.
type OutboxPublisher struct {
	serializer *EventSerializer
}

// NewOutboxPublisher creates a new outbox publisher
func NewOutboxPublisher(serializer *EventSerializer) *OutboxPublisher {
	return &OutboxPublisher{serializer: serializer}
}

// PublishWithTx appends events to the outbox using tx
func (p *OutboxPublisher) PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		if !p.serializer.IsRegistered(event.EventType()) {
			return fmt.Errorf("outbox: event type %s is not registered", event.EventType())
		}
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return fmt.Errorf("outbox: serialize %s: %w", event.EventType(), err)
		}
		entries = append(entries, shared.NewOutboxEntry(event, payload))
	}
	return NewGormOutboxRepository(tx).Save(ctx, entries...)
}

// Bind returns an EventPublisher that writes through tx
func (p *OutboxPublisher) Bind(tx *gorm.DB) shared.EventPublisher {
	return txPublisher{publisher: p, tx: tx}
}

type txPublisher struct {
	publisher *OutboxPublisher
	tx        *gorm.DB
}

func (t txPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return t.publisher.PublishWithTx(ctx, t.tx, events...)
}
