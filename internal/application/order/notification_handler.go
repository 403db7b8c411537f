package order

import (
	"context"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/notification"
	"go.uber.org/zap"
)

// Notifier delivers transactional emails
type Notifier interface {
	Send(ctx context.Context, msg notification.Message) error
}

// NotificationRecorder counts delivery outcomes
type NotificationRecorder interface {
	NotificationSent(outcome string)
}

type noopNotificationRecorder struct{}

func (noopNotificationRecorder) NotificationSent(string) {}

// Notification outcomes
const (
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
	NotificationSkipped = "skipped"
)

// NotificationHandler emails buyers about their orders and greets new
// accounts. Delivery failures are returned so the outbox retries them.
type NotificationHandler struct {
	notifier Notifier
	metrics  NotificationRecorder
	logger   *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifier Notifier, metrics NotificationRecorder, logger *zap.Logger) *NotificationHandler {
	if metrics == nil {
		metrics = noopNotificationRecorder{}
	}
	return &NotificationHandler{notifier: notifier, metrics: metrics, logger: logger}
}

// EventTypes returns the events that trigger an email
func (h *NotificationHandler) EventTypes() []string {
	return []string{order.EventTypeOrderPlaced, identity.EventTypeUserRegistered}
}

// Handle sends the email matching event
func (h *NotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		// anonymous buyers leave no address to write to
		if e.Snapshot.User.IsAnonymous || e.Snapshot.User.Email == "" {
			h.metrics.NotificationSent(NotificationSkipped)
			return nil
		}
		return h.send(ctx, notification.OrderConfirmation(e.Snapshot),
			zap.String("order_number", e.Snapshot.OrderNumber))
	case *identity.UserRegisteredEvent:
		return h.send(ctx, notification.Welcome(e.Username, e.Email),
			zap.String("user_id", e.UserID.String()))
	default:
		return nil
	}
}

func (h *NotificationHandler) send(ctx context.Context, msg notification.Message, fields ...zap.Field) error {
	log := logger.WithLogger(ctx, h.logger).With(fields...)
	if err := h.notifier.Send(ctx, msg); err != nil {
		h.metrics.NotificationSent(NotificationFailed)
		log.Warn("Failed to send email", zap.String("subject", msg.Subject), zap.Error(err))
		return err
	}
	h.metrics.NotificationSent(NotificationSent)
	log.Info("Email sent", zap.String("subject", msg.Subject))
	return nil
}

var _ shared.EventHandler = (*NotificationHandler)(nil)
