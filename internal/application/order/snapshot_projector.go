package order

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// SnapshotProjector keeps the document snapshots in step with the
// relational orders. It consumes outbox deliveries; returned errors leave
// the entry for retry.
type SnapshotProjector struct {
	snapshots order.SnapshotRepository
	logger    *zap.Logger
}

// NewSnapshotProjector creates a new SnapshotProjector
func NewSnapshotProjector(snapshots order.SnapshotRepository, logger *zap.Logger) *SnapshotProjector {
	return &SnapshotProjector{snapshots: snapshots, logger: logger}
}

// EventTypes returns the order events the projector applies
func (p *SnapshotProjector) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderStatusChanged,
		order.EventTypeOrderCancelled,
	}
}

// Handle applies one order event to its snapshot
func (p *SnapshotProjector) Handle(ctx context.Context, event shared.DomainEvent) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "project_snapshot",
		attribute.String(telemetry.AttrEventType, event.EventType()),
		attribute.String(telemetry.AttrOrderID, event.AggregateID().String()))
	defer telemetry.End(span, &err)

	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		if err := p.snapshots.Upsert(ctx, e.Snapshot); err != nil {
			return fmt.Errorf("failed to write order snapshot: %w", err)
		}
		logger.WithLogger(ctx, p.logger).Info("Order snapshot written",
			zap.String("order_id", e.Snapshot.OrderID.String()),
			zap.String("order_number", e.Snapshot.OrderNumber))
		return nil
	case *order.OrderStatusChangedEvent:
		return p.apply(ctx, order.StatusChange{
			OrderID:   e.OrderID,
			Status:    e.NewStatus,
			UpdatedAt: e.UpdatedAt,
			Version:   e.Version,
			EventID:   e.EventID(),
		})
	case *order.OrderCancelledEvent:
		return p.apply(ctx, order.StatusChange{
			OrderID:      e.OrderID,
			Status:       order.StatusCancelled,
			CancelReason: e.Reason,
			UpdatedAt:    e.UpdatedAt,
			Version:      e.Version,
			EventID:      e.EventID(),
		})
	default:
		logger.WithLogger(ctx, p.logger).Warn("unexpected event type for snapshot projector",
			zap.String("event_type", event.EventType()))
		return nil
	}
}

func (p *SnapshotProjector) apply(ctx context.Context, change order.StatusChange) error {
	applied, err := p.snapshots.ApplyStatus(ctx, change)
	if err != nil {
		return fmt.Errorf("failed to apply order status to snapshot: %w", err)
	}
	log := logger.WithLogger(ctx, p.logger).With(
		zap.String("order_id", change.OrderID.String()),
		zap.String("status", change.Status.String()))
	if !applied {
		log.Debug("Snapshot already at this or a later version", zap.Int("version", change.Version))
		return nil
	}
	log.Info("Order snapshot status updated")
	return nil
}

var _ shared.EventHandler = (*SnapshotProjector)(nil)
