package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// QueryService serves order reads and the status lifecycle. Lists of
// registered orders come from the relational store; detail and the admin
// lists come from the document snapshots.
type QueryService struct {
	orderRepo order.Repository
	snapshots order.SnapshotRepository
	scope     TransactionScope
	metrics   Metrics
	logger    *zap.Logger
}

// NewQueryService creates a new QueryService
func NewQueryService(orderRepo order.Repository, snapshots order.SnapshotRepository, scope TransactionScope, metrics Metrics, logger *zap.Logger) *QueryService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &QueryService{
		orderRepo: orderRepo,
		snapshots: snapshots,
		scope:     scope,
		metrics:   metrics,
		logger:    logger,
	}
}

// ListForUser lists relational orders. Admins see every order, other users
// only their own.
func (s *QueryService) ListForUser(ctx context.Context, actor identity.Actor, q ListOrdersQuery) (*shared.Paginated[OrderResponse], error) {
	if !actor.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}

	filter := shared.NewFilter(q.Page, q.PageSize, q.Order, "")
	if !actor.IsAdmin() {
		filter.Filters["user_id"] = actor.UserID
	}
	if q.Status != "" {
		status, err := order.ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Filters["status"] = status
	}

	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	page := shared.MapPaginated(shared.NewPaginated(orders, total, filter), func(o order.Order) OrderResponse {
		return ToOrderResponse(&o)
	})
	return &page, nil
}

// ListAnonymous lists snapshots of orders placed with a session token
func (s *QueryService) ListAnonymous(ctx context.Context, actor identity.Actor, q ListSnapshotsQuery) (*shared.Paginated[SnapshotResponse], error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	filter := shared.NewFilter(q.Page, q.PageSize, "", "")
	snaps, total, err := s.snapshots.ListAnonymous(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list anonymous orders: %w", err)
	}
	page := shared.NewPaginated(snaps, total, filter)
	return &page, nil
}

// ListCancelled lists snapshots of cancelled orders
func (s *QueryService) ListCancelled(ctx context.Context, actor identity.Actor, q ListSnapshotsQuery) (*shared.Paginated[SnapshotResponse], error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	filter := shared.NewFilter(q.Page, q.PageSize, "-updated_at", "")
	snaps, total, err := s.snapshots.ListCancelled(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list cancelled orders: %w", err)
	}
	page := shared.NewPaginated(snaps, total, filter)
	return &page, nil
}

// GetDetail returns the snapshot of an order the caller placed, or of any
// order for admins
func (s *QueryService) GetDetail(ctx context.Context, actor identity.Actor, owner shared.Owner, id uuid.UUID) (*SnapshotResponse, error) {
	snap, err := s.snapshots.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !snap.OwnedBy(owner) {
		logger.WithLogger(ctx, s.logger).Warn("Order detail access denied",
			zap.String("order_id", id.String()))
		return nil, shared.ErrForbidden
	}
	return snap, nil
}

// UpdateStatus moves an order through its lifecycle. Moving to CANCELLED
// records the default reason.
func (s *QueryService) UpdateStatus(ctx context.Context, actor identity.Actor, owner shared.Owner, id uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	next, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, "update_status", actor, owner, id, func(o *order.Order) error {
		return o.ChangeStatus(next)
	})
}

// Cancel cancels a pending or confirmed order
func (s *QueryService) Cancel(ctx context.Context, actor identity.Actor, owner shared.Owner, id uuid.UUID, reason string) (*OrderResponse, error) {
	return s.transition(ctx, "cancel", actor, owner, id, func(o *order.Order) error {
		return o.Cancel(reason)
	})
}

// transition locks the order, authorizes the caller, applies fn and writes
// the change together with its outbox entries
func (s *QueryService) transition(ctx context.Context, method string, actor identity.Actor, owner shared.Owner, id uuid.UUID, fn func(o *order.Order) error) (_ *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", method,
		attribute.String(telemetry.AttrOrderID, id.String()))
	defer telemetry.End(span, &err)

	var (
		result *order.Order
		from   order.Status
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.Orders().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && !o.OwnedBy(owner) {
			return shared.ErrForbidden
		}
		from = o.Status
		if err := fn(o); err != nil {
			return err
		}
		if err := repos.Orders().SaveWithLock(ctx, o); err != nil {
			return err
		}
		if err := repos.Events().Publish(ctx, o.GetDomainEvents()...); err != nil {
			return fmt.Errorf("failed to append order status event: %w", err)
		}
		o.ClearDomainEvents()
		result = o
		return nil
	})
	if err != nil {
		if _, ok := shared.AsDomainError(err); ok {
			logger.WithLogger(ctx, s.logger).Warn("Order status change rejected",
				zap.String("order_id", id.String()),
				zap.Error(err))
		}
		return nil, err
	}

	s.metrics.OrderStatusChanged(result.Status.String())
	span.SetAttributes(attribute.String(telemetry.AttrOrderStatus, result.Status.String()))
	logger.WithLogger(ctx, s.logger).Info("Order status changed",
		zap.String("order_id", result.ID.String()),
		zap.String("order_number", result.OrderNumber),
		zap.String("from", from.String()),
		zap.String("to", result.Status.String()))

	resp := ToOrderResponse(result)
	return &resp, nil
}

func requireAdmin(actor identity.Actor) error {
	if !actor.IsAuthenticated() {
		return shared.ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return shared.ErrForbidden
	}
	return nil
}
