// Package notification delivers transactional emails.
package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrRejected is returned when the provider refuses a message
var ErrRejected = errors.New("notification rejected by provider")

// Message is a single transactional email
type Message struct {
	ToName    string
	ToEmail   string
	Subject   string
	PlainText string
	HTML      string
}

// sender is the part of the sendgrid client the notifier uses
type sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridNotifier sends messages through the SendGrid v3 API
type SendGridNotifier struct {
	client sender
	from   *mail.Email
	logger *zap.Logger
}

// NewSendGridNotifier creates a notifier for the configured account
func NewSendGridNotifier(cfg config.NotificationConfig, logger *zap.Logger) *SendGridNotifier {
	return newSendGridNotifier(sendgrid.NewSendClient(cfg.SendGridAPIKey), cfg, logger)
}

func newSendGridNotifier(client sender, cfg config.NotificationConfig, logger *zap.Logger) *SendGridNotifier {
	return &SendGridNotifier{
		client: client,
		from:   mail.NewEmail(cfg.FromName, cfg.FromEmail),
		logger: logger,
	}
}

// Send delivers msg. Any non-2xx answer is reported as ErrRejected.
func (n *SendGridNotifier) Send(ctx context.Context, msg Message) error {
	email := mail.NewSingleEmail(n.from, msg.Subject, mail.NewEmail(msg.ToName, msg.ToEmail), msg.PlainText, msg.HTML)
	resp, err := n.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.Warn("sendgrid rejected message",
			zap.Int("status", resp.StatusCode),
			zap.String("body", resp.Body),
			zap.String("subject", msg.Subject))
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
	n.logger.Debug("email sent", zap.String("subject", msg.Subject), zap.Int("status", resp.StatusCode))
	return nil
}

// LogNotifier only logs messages. It stands in when no provider is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs the message envelope
func (n *LogNotifier) Send(_ context.Context, msg Message) error {
	n.logger.Info("email delivery disabled, message logged",
		zap.String("to", msg.ToEmail),
		zap.String("subject", msg.Subject))
	return nil
}

// Notifier delivers messages
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the SendGrid notifier when an API key is configured
func New(cfg config.NotificationConfig, logger *zap.Logger) Notifier {
	if cfg.Enabled() {
		return NewSendGridNotifier(cfg, logger)
	}
	return NewLogNotifier(logger)
}

var (
	_ Notifier = (*SendGridNotifier)(nil)
	_ Notifier = (*LogNotifier)(nil)
)
