package event

import (
	"context"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultIdempotencyTTL is how long an applied event id is remembered
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotentHandler skips events whose id was already applied by the
// wrapped handler. A failed application releases the key again so the
// outbox retry can reach the handler.
type IdempotentHandler struct {
	handler shared.EventHandler
	store   shared.IdempotencyStore
	scope   string
	ttl     time.Duration
	logger  *zap.Logger
}

// NewIdempotentHandler wraps handler. scope namespaces keys so two handlers
// consuming the same event keep separate records.
func NewIdempotentHandler(handler shared.EventHandler, store shared.IdempotencyStore, scope string, ttl time.Duration, logger *zap.Logger) *IdempotentHandler {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotentHandler{
		handler: handler,
		store:   store,
		scope:   scope,
		ttl:     ttl,
		logger:  logger,
	}
}

// EventTypes returns the event types of the wrapped handler
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle applies the event at most once per TTL window
func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	key := h.scope + ":" + event.EventID().String()

	fresh, err := h.store.MarkProcessed(ctx, key, h.ttl)
	if err != nil {
		// The wrapped handler is idempotent on its own, so a store outage
		// only costs a redundant write.
		h.logger.Warn("idempotency check failed, processing anyway",
			zap.String("key", key),
			zap.Error(err),
		)
	} else if !fresh {
		h.logger.Debug("duplicate event skipped",
			zap.String("key", key),
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	if err := h.handler.Handle(ctx, event); err != nil {
		if ferr := h.store.Forget(ctx, key); ferr != nil {
			h.logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(ferr))
		}
		return err
	}
	return nil
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
