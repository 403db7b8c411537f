package cart

import (
	"context"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
)

// TransactionScope runs cart mutations in one database transaction. The cart
// row lock taken inside fn is held until fn returns.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories a cart mutation needs,
// all bound to the same transaction.
type TransactionalRepositories interface {
	Carts() cart.Repository
	Products() catalog.ProductRepository
}
