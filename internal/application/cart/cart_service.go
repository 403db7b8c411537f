package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CartService handles cart operations. Every mutation runs in one
// transaction holding the row lock of the owner's cart, so concurrent
// requests of the same owner are applied one after another.
type CartService struct {
	scope    TransactionScope
	cartRepo cart.Repository
	logger   *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(scope TransactionScope, cartRepo cart.Repository, logger *zap.Logger) *CartService {
	return &CartService{scope: scope, cartRepo: cartRepo, logger: logger}
}

// AddItem adds quantity units of a product, creating the cart on first use
func (s *CartService) AddItem(ctx context.Context, owner shared.Owner, req AddItemRequest) (_ *CartResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "add_item",
		attribute.String(telemetry.AttrOwnerKind, ownerKind(owner)),
		attribute.String(telemetry.AttrProductID, req.ProductID.String()),
		attribute.Int(telemetry.AttrQuantity, req.Quantity))
	defer telemetry.End(span, &err)

	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, cart.ErrInvalidQuantity
	}

	var result *cart.Cart
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.Products().FindByID(ctx, req.ProductID)
		if err != nil {
			return err
		}

		c, err := repos.Carts().FindByOwnerForUpdate(ctx, owner)
		if errors.Is(err, cart.ErrCartNotFound) {
			c, err = cart.New(owner)
		}
		if err != nil {
			return err
		}

		if _, err := c.AddItem(product, req.Quantity); err != nil {
			return err
		}
		if err := repos.Carts().Save(ctx, c); err != nil {
			return err
		}
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Cart item added",
		zap.String("cart_id", result.ID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.Int("quantity", req.Quantity))
	resp := ToCartResponse(result)
	return &resp, nil
}

// UpdateItemQuantity sets the quantity of a line, repricing it at the
// current catalog price. A non-positive quantity leaves the line as it was.
func (s *CartService) UpdateItemQuantity(ctx context.Context, owner shared.Owner, itemID uuid.UUID, quantity int) (*CartResponse, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		logger.WithLogger(ctx, s.logger).Warn("Rejected cart quantity", zap.Int("quantity", quantity))
		return nil, cart.ErrInvalidQuantity
	}

	return s.mutate(ctx, owner, func(repos TransactionalRepositories, c *cart.Cart) error {
		item, err := c.Item(itemID)
		if err != nil {
			return err
		}
		product, err := repos.Products().FindByID(ctx, item.ProductID)
		if err != nil {
			return err
		}
		_, err = c.UpdateItemQuantity(itemID, quantity, product.Price)
		return err
	})
}

// RemoveItem deletes a line from the cart
func (s *CartService) RemoveItem(ctx context.Context, owner shared.Owner, itemID uuid.UUID) (*CartResponse, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, owner, func(_ TransactionalRepositories, c *cart.Cart) error {
		return c.RemoveItem(itemID)
	})
}

// Clear deletes the cart together with its items. The owner has no cart
// afterwards; the returned view is the empty cart that was removed.
func (s *CartService) Clear(ctx context.Context, owner shared.Owner) (*CartResponse, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	var removed *cart.Cart
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		c, err := repos.Carts().FindByOwnerForUpdate(ctx, owner)
		if err != nil {
			return err
		}
		if err := repos.Carts().Delete(ctx, c.ID); err != nil {
			return err
		}
		c.Clear()
		removed = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToCartResponse(removed)
	return &resp, nil
}

// View returns the owner's cart
func (s *CartService) View(ctx context.Context, owner shared.Owner) (*CartResponse, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	c, err := s.cartRepo.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	resp := ToCartResponse(c)
	return &resp, nil
}

// mutate locks the owner's cart, applies fn and saves the result
func (s *CartService) mutate(ctx context.Context, owner shared.Owner, fn func(repos TransactionalRepositories, c *cart.Cart) error) (*CartResponse, error) {
	var result *cart.Cart
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		c, err := repos.Carts().FindByOwnerForUpdate(ctx, owner)
		if err != nil {
			return err
		}
		if err := fn(repos, c); err != nil {
			return err
		}
		if err := repos.Carts().Save(ctx, c); err != nil {
			return err
		}
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToCartResponse(result)
	return &resp, nil
}

func ownerKind(owner shared.Owner) string {
	if owner.IsUser() {
		return "user"
	}
	return "session"
}
