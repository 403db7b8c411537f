package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

const AggregateTypeOrder = "Order"

const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeOrderCancelled     = "OrderCancelled"
)

// OrderPlacedEvent carries the full by-value view of a freshly placed order
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	Snapshot Snapshot `json:"snapshot"`
}

// NewOrderPlacedEvent creates an OrderPlacedEvent for snap
func NewOrderPlacedEvent(snap Snapshot) *OrderPlacedEvent {
	e := &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, snap.OrderID),
	}
	snap.LastEventID = e.ID
	e.Snapshot = snap
	return e
}

// OrderStatusChangedEvent is raised on every non-cancel transition. Version
// is the order version the transition produced.
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	OldStatus   Status    `json:"old_status"`
	NewStatus   Status    `json:"new_status"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// NewOrderStatusChangedEvent creates an OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, old Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		OldStatus:       old,
		NewStatus:       o.Status,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
}

// OrderCancelledEvent is raised when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	OldStatus   Status    `json:"old_status"`
	Reason      string    `json:"reason"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// NewOrderCancelledEvent creates an OrderCancelledEvent
func NewOrderCancelledEvent(o *Order, old Status) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		OldStatus:       old,
		Reason:          o.CancelReason,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
}
