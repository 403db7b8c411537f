package shared

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// OutboxStatus represents the delivery state of an outbox entry
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "PENDING"
	OutboxStatusProcessing OutboxStatus = "PROCESSING"
	OutboxStatusSent       OutboxStatus = "SENT"
	OutboxStatusFailed     OutboxStatus = "FAILED"
	OutboxStatusDead       OutboxStatus = "DEAD"
)

const (
	DefaultMaxRetries  = 5
	DefaultBaseBackoff = time.Second
)

var (
	errOutboxNotClaimable = errors.New("outbox: only pending or failed entries can be claimed")
	errOutboxNotDead      = errors.New("outbox: only dead entries can be requeued")
)

// OutboxEntry is an event row written in the transaction that raised it.
// It moves PENDING -> PROCESSING -> SENT, or through FAILED back to
// PROCESSING until MaxRetries failures leave it DEAD.
type OutboxEntry struct {
	ID            uuid.UUID
	EventID       uuid.UUID
	EventType     string
	AggregateID   uuid.UUID
	AggregateType string
	Payload       []byte
	Status        OutboxStatus
	RetryCount    int
	MaxRetries    int
	LastError     string
	NextRetryAt   *time.Time
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewOutboxEntry(event DomainEvent, payload []byte) *OutboxEntry {
	e := &OutboxEntry{
		ID:            uuid.New(),
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		Payload:       payload,
		MaxRetries:    DefaultMaxRetries,
	}
	e.moveTo(OutboxStatusPending)
	e.CreatedAt = e.UpdatedAt
	return e
}

func (e *OutboxEntry) moveTo(status OutboxStatus) time.Time {
	now := time.Now()
	e.Status = status
	e.UpdatedAt = now
	return now
}

// CanRetry reports whether a failed entry still has attempts left
func (e *OutboxEntry) CanRetry() bool {
	return e.Status == OutboxStatusFailed && e.RetryCount < e.MaxRetries
}

func (e *OutboxEntry) IsDead() bool { return e.Status == OutboxStatusDead }

// MarkProcessing claims the entry for delivery
func (e *OutboxEntry) MarkProcessing() error {
	switch e.Status {
	case OutboxStatusPending, OutboxStatusFailed:
		e.moveTo(OutboxStatusProcessing)
		return nil
	}
	return errOutboxNotClaimable
}

func (e *OutboxEntry) MarkSent() {
	now := e.moveTo(OutboxStatusSent)
	e.ProcessedAt = &now
}

// MarkFailed counts an attempt and schedules the next one after Backoff.
// The attempt that reaches MaxRetries dead-letters the entry instead.
func (e *OutboxEntry) MarkFailed(errMsg string) {
	e.RetryCount++
	e.LastError = errMsg
	if e.RetryCount >= e.MaxRetries {
		e.moveTo(OutboxStatusDead)
		e.NextRetryAt = nil
		return
	}
	next := e.moveTo(OutboxStatusFailed).Add(e.Backoff())
	e.NextRetryAt = &next
}

// Backoff doubles from DefaultBaseBackoff with every recorded failure
func (e *OutboxEntry) Backoff() time.Duration {
	if e.RetryCount < 1 {
		return 0
	}
	return DefaultBaseBackoff * time.Duration(1<<(e.RetryCount-1))
}

// Requeue gives a dead entry a fresh set of attempts
func (e *OutboxEntry) Requeue() error {
	if !e.IsDead() {
		return errOutboxNotDead
	}
	e.RetryCount = 0
	e.LastError = ""
	e.NextRetryAt = nil
	e.moveTo(OutboxStatusPending)
	return nil
}

// OutboxRepository stores outbox entries. Writers use Save inside the
// business transaction; the processor and the admin service use the rest.
type OutboxRepository interface {
	Save(ctx context.Context, entries ...*OutboxEntry) error
	// FindPending returns up to limit PENDING entries, oldest first
	FindPending(ctx context.Context, limit int) ([]*OutboxEntry, error)
	// FindRetryable returns FAILED entries due before the given time
	FindRetryable(ctx context.Context, before time.Time, limit int) ([]*OutboxEntry, error)
	FindDead(ctx context.Context, page, pageSize int) ([]*OutboxEntry, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*OutboxEntry, error)
	// ClaimBatch atomically moves up to limit due entries to PROCESSING
	ClaimBatch(ctx context.Context, now time.Time, limit int) ([]*OutboxEntry, error)
	Update(ctx context.Context, entry *OutboxEntry) error
	// DeleteSentBefore purges delivered entries, returning how many went
	DeleteSentBefore(ctx context.Context, before time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[OutboxStatus]int64, error)
}
