package identity

import (
	"context"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// TransactionScope runs account writes and their outbox events atomically
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are bound to the surrounding transaction
type TransactionalRepositories interface {
	Users() identity.UserRepository
	Events() shared.EventPublisher
}
