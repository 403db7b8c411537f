package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// NumberSource hands out candidate order numbers
type NumberSource interface {
	Next() string
}

// Metrics records order workflow counters
type Metrics interface {
	OrderPlaced()
	OrderNumberCollision()
	OrderStatusChanged(status string)
}

type noopMetrics struct{}

func (noopMetrics) OrderPlaced()              {}
func (noopMetrics) OrderNumberCollision()     {}
func (noopMetrics) OrderStatusChanged(string) {}

// PlacementService turns an owner's cart into an order. The order, its
// items, the OrderPlaced outbox entry and the cart removal commit in one
// transaction; the document snapshot is written later from the outbox.
type PlacementService struct {
	scope   TransactionScope
	numbers NumberSource
	metrics Metrics
	logger  *zap.Logger
}

// NewPlacementService creates a new PlacementService. A nil metrics
// recorder disables counting.
func NewPlacementService(scope TransactionScope, numbers NumberSource, metrics Metrics, logger *zap.Logger) *PlacementService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &PlacementService{scope: scope, numbers: numbers, metrics: metrics, logger: logger}
}

// PlaceOrder places the owner's cart at current catalog prices
func (s *PlacementService) PlaceOrder(ctx context.Context, owner shared.Owner) (_ *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "place",
		attribute.String(telemetry.AttrOwnerKind, ownerKind(owner)))
	defer telemetry.End(span, &err)

	if err := owner.Validate(); err != nil {
		return nil, err
	}

	var placed *order.Order
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		c, err := repos.Carts().FindByOwnerForUpdate(ctx, owner)
		if err != nil {
			return err
		}
		if c.IsEmpty() {
			return cart.ErrCartEmpty
		}

		items, err := s.orderItems(ctx, repos.Products(), c)
		if err != nil {
			return err
		}

		address, err := repos.Addresses().FindByOwner(ctx, owner)
		if err != nil {
			return err
		}

		var buyer order.SnapshotUser
		if owner.IsUser() {
			user, err := repos.Users().FindByID(ctx, owner.UserID)
			if err != nil {
				return err
			}
			buyer = snapshotUser(user)
		}

		o, err := order.New(s.numbers.Next(), owner, address.ID, items)
		if err != nil {
			return err
		}
		if err := s.insert(ctx, repos.Orders(), o); err != nil {
			return err
		}

		snap := order.NewSnapshot(o, buyer, snapshotAddress(address))
		if err := repos.Events().Publish(ctx, order.NewOrderPlacedEvent(snap)); err != nil {
			return fmt.Errorf("failed to append order placed event: %w", err)
		}
		if err := repos.Carts().Delete(ctx, c.ID); err != nil {
			return fmt.Errorf("failed to delete cart: %w", err)
		}
		placed = o
		return nil
	})
	if err != nil {
		if _, ok := shared.AsDomainError(err); ok {
			logger.WithLogger(ctx, s.logger).Warn("Order placement rejected",
				zap.String("owner_kind", ownerKind(owner)),
				zap.Error(err))
		}
		return nil, err
	}

	s.metrics.OrderPlaced()
	span.SetAttributes(
		attribute.String(telemetry.AttrOrderID, placed.ID.String()),
		attribute.String(telemetry.AttrOrderNumber, placed.OrderNumber))
	logger.WithLogger(ctx, s.logger).Info("Order placed",
		zap.String("order_id", placed.ID.String()),
		zap.String("order_number", placed.OrderNumber),
		zap.String("total_amount", placed.TotalAmount.String()),
		zap.Int("items", len(placed.Items)))

	resp := ToOrderResponse(placed)
	return &resp, nil
}

// orderItems copies every cart line at the live product price
func (s *PlacementService) orderItems(ctx context.Context, products catalog.ProductRepository, c *cart.Cart) ([]order.Item, error) {
	found, err := products.FindByIDs(ctx, c.ProductIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	items := make([]order.Item, 0, len(c.Items))
	for _, line := range c.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, catalog.ErrProductNotFound
		}
		if !product.Purchasable() {
			return nil, catalog.ErrProductUnavailable
		}
		item, err := order.NewItem(product, line.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// insert writes the order, drawing a fresh number after each collision
func (s *PlacementService) insert(ctx context.Context, orders order.Repository, o *order.Order) error {
	for attempt := 1; attempt <= order.MaxNumberAttempts; attempt++ {
		err := orders.Create(ctx, o)
		if err == nil {
			return nil
		}
		if !errors.Is(err, order.ErrOrderNumberTaken) {
			return fmt.Errorf("failed to create order: %w", err)
		}
		s.metrics.OrderNumberCollision()
		logger.WithLogger(ctx, s.logger).Warn("Order number collision",
			zap.String("order_number", o.OrderNumber),
			zap.Int("attempt", attempt))
		o.Renumber(s.numbers.Next())
	}
	return order.ErrOrderNumberExhausted
}

func ownerKind(owner shared.Owner) string {
	if owner.IsUser() {
		return "user"
	}
	return "session"
}
