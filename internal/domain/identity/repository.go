package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID, returning shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail reports whether the email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// FindAll lists users. Search matches email, username and names.
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AddressRepository defines the interface for address persistence
type AddressRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Address, error)

	// FindByOwner returns the single address of owner
	FindByOwner(ctx context.Context, owner shared.Owner) (*Address, error)

	Save(ctx context.Context, address *Address) error
}
