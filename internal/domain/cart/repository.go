package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Repository defines the interface for cart persistence
type Repository interface {
	// FindByOwner loads the cart of owner with its items
	FindByOwner(ctx context.Context, owner shared.Owner) (*Cart, error)

	// FindByOwnerForUpdate loads and row-locks the cart of owner. It must run
	// inside a transaction; concurrent callers for the same owner queue up.
	FindByOwnerForUpdate(ctx context.Context, owner shared.Owner) (*Cart, error)

	// Save upserts the cart and replaces its item set
	Save(ctx context.Context, cart *Cart) error

	// Delete removes the cart and all its items
	Delete(ctx context.Context, id uuid.UUID) error
}
