package event

import (
	"encoding/json"
	"fmt"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// EventSerializer converts outbox payloads to and from JSON. Only event
// types with a registered constructor can be published or replayed.
type EventSerializer struct {
	factories map[string]func() shared.DomainEvent
}

// NewDefaultSerializer knows every event the storefront emits. The set is
// fixed after construction, so no locking is needed.
func NewDefaultSerializer() *EventSerializer {
	return &EventSerializer{factories: map[string]func() shared.DomainEvent{
		order.EventTypeOrderPlaced:        func() shared.DomainEvent { return &order.OrderPlacedEvent{} },
		order.EventTypeOrderStatusChanged: func() shared.DomainEvent { return &order.OrderStatusChangedEvent{} },
		order.EventTypeOrderCancelled:     func() shared.DomainEvent { return &order.OrderCancelledEvent{} },
		identity.EventTypeUserRegistered:  func() shared.DomainEvent { return &identity.UserRegisteredEvent{} },
	}}
}

func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

// Deserialize decodes data into a fresh instance of eventType
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	factory, ok := s.factories[eventType]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}
	event := factory()
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", eventType, err)
	}
	return event, nil
}

func (s *EventSerializer) IsRegistered(eventType string) bool {
	_, ok := s.factories[eventType]
	return ok
}
