package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which event IDs a consumer already applied
type IdempotencyStore interface {
	// MarkProcessed records the key for ttl. It returns false when the key
	// was already recorded.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, key string) (bool, error)
	// Forget removes a key so a failed application can be retried
	Forget(ctx context.Context, key string) error
	Close() error
}
