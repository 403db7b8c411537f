package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Repository defines the interface for relational order persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate loads and row-locks the order inside a transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll lists orders with items preloaded.
	// Supported filters: "user_id" (uuid.UUID), "status" (Status)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create inserts a new order with its items. It returns
	// ErrOrderNumberTaken when the order number collides.
	Create(ctx context.Context, order *Order) error

	// SaveWithLock persists status changes, failing with
	// shared.ErrConcurrencyConflict when the stored version moved on.
	SaveWithLock(ctx context.Context, order *Order) error
}

// SnapshotRepository defines the interface for the document view of orders
type SnapshotRepository interface {
	FindByID(ctx context.Context, orderID uuid.UUID) (*Snapshot, error)

	// Upsert writes the full snapshot keyed by order id
	Upsert(ctx context.Context, snap Snapshot) error

	// ApplyStatus sets the status fields when the snapshot holds an older
	// version than the change. Replays and stale changes are no-ops. It
	// reports whether the document was modified.
	ApplyStatus(ctx context.Context, change StatusChange) (bool, error)

	// ListAnonymous lists snapshots with a session token, newest first
	ListAnonymous(ctx context.Context, filter shared.Filter) ([]Snapshot, int64, error)

	// ListCancelled lists cancelled snapshots, most recently updated first
	ListCancelled(ctx context.Context, filter shared.Filter) ([]Snapshot, int64, error)
}
