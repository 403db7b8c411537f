package order

import (
	"context"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// TransactionScope provides transactional access to the repositories order
// workflows touch. Everything written inside fn, outbox entries included,
// commits or rolls back together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories bound to one transaction.
//
// Events returns a publisher that appends to the outbox in the same
// transaction; nothing is delivered until the transaction commits.
type TransactionalRepositories interface {
	Carts() cart.Repository
	Products() catalog.ProductRepository
	Addresses() identity.AddressRepository
	Users() identity.UserRepository
	Orders() order.Repository
	Events() shared.EventPublisher
}
