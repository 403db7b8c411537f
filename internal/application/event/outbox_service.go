// Package event exposes operator views over the transactional outbox.
package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ErrEntryNotFound is returned for an unknown outbox entry
var ErrEntryNotFound = shared.ErrNotFound.WithMessage("Outbox entry not found")

// ErrEntryNotDead is returned when requeueing an entry that is still live
var ErrEntryNotDead = shared.ErrInvalidState.WithMessage("Only dead entries can be requeued")

// OutboxService lets admins inspect and requeue dead-lettered deliveries,
// such as snapshot projections that exhausted their retries.
type OutboxService struct {
	repo   shared.OutboxRepository
	logger *zap.Logger
}

// NewOutboxService creates a new outbox service
func NewOutboxService(repo shared.OutboxRepository, logger *zap.Logger) *OutboxService {
	return &OutboxService{repo: repo, logger: logger}
}

// OutboxEntryResponse is the operator view of an outbox entry
type OutboxEntryResponse struct {
	ID            uuid.UUID  `json:"id"`
	EventID       uuid.UUID  `json:"event_id"`
	EventType     string     `json:"event_type"`
	AggregateID   uuid.UUID  `json:"aggregate_id"`
	AggregateType string     `json:"aggregate_type"`
	Status        string     `json:"status"`
	RetryCount    int        `json:"retry_count"`
	MaxRetries    int        `json:"max_retries"`
	LastError     string     `json:"last_error,omitempty"`
	NextRetryAt   *time.Time `json:"next_retry_at,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// DeadLetterQuery holds the list parameters of dead entries
type DeadLetterQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// OutboxStats counts entries per status
type OutboxStats struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Sent       int64 `json:"sent"`
	Failed     int64 `json:"failed"`
	Dead       int64 `json:"dead"`
	Total      int64 `json:"total"`
}

// ListDead returns dead-lettered entries, most recently failed first
func (s *OutboxService) ListDead(ctx context.Context, actor identity.Actor, q DeadLetterQuery) (*shared.Paginated[OutboxEntryResponse], error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	filter := shared.NewFilter(q.Page, q.PageSize, "-updated_at", "")
	entries, total, err := s.repo.FindDead(ctx, filter.Page, filter.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list dead outbox entries: %w", err)
	}
	page := shared.MapPaginated(shared.NewPaginated(entries, total, filter), toEntryResponse)
	return &page, nil
}

// Get returns a single entry
func (s *OutboxService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*OutboxEntryResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	entry, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toEntryResponse(entry)
	return &resp, nil
}

// Requeue puts a dead entry back into the delivery queue
func (s *OutboxService) Requeue(ctx context.Context, actor identity.Actor, id uuid.UUID) (*OutboxEntryResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	entry, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.Requeue(); err != nil {
		return nil, ErrEntryNotDead
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to requeue outbox entry: %w", err)
	}

	logger.WithLogger(ctx, s.logger).Info("Dead outbox entry requeued",
		zap.String("id", id.String()),
		zap.String("event_type", entry.EventType))
	resp := toEntryResponse(entry)
	return &resp, nil
}

// RequeueAll requeues every dead entry and reports how many were moved
func (s *OutboxService) RequeueAll(ctx context.Context, actor identity.Actor) (int64, error) {
	if err := requireAdmin(actor); err != nil {
		return 0, err
	}

	const batch = 100
	var count int64
	for {
		// requeued entries leave the dead set, so the first page is always fresh
		entries, _, err := s.repo.FindDead(ctx, 1, batch)
		if err != nil {
			return count, fmt.Errorf("failed to list dead outbox entries: %w", err)
		}
		moved := 0
		for _, entry := range entries {
			if err := entry.Requeue(); err != nil {
				continue
			}
			if err := s.repo.Update(ctx, entry); err != nil {
				logger.WithLogger(ctx, s.logger).Error("Failed to requeue outbox entry",
					zap.String("id", entry.ID.String()), zap.Error(err))
				continue
			}
			moved++
		}
		count += int64(moved)
		if len(entries) < batch || moved == 0 {
			break
		}
	}

	logger.WithLogger(ctx, s.logger).Info("Dead outbox entries requeued", zap.Int64("count", count))
	return count, nil
}

// Stats returns the number of entries per status
func (s *OutboxService) Stats(ctx context.Context, actor identity.Actor) (*OutboxStats, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count outbox entries: %w", err)
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	return &OutboxStats{
		Pending:    counts[shared.OutboxStatusPending],
		Processing: counts[shared.OutboxStatusProcessing],
		Sent:       counts[shared.OutboxStatusSent],
		Failed:     counts[shared.OutboxStatusFailed],
		Dead:       counts[shared.OutboxStatusDead],
		Total:      total,
	}, nil
}

func (s *OutboxService) find(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to load outbox entry: %w", err)
	}
	return entry, nil
}

func requireAdmin(actor identity.Actor) error {
	if !actor.IsAuthenticated() {
		return shared.ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return shared.ErrForbidden
	}
	return nil
}

func toEntryResponse(entry *shared.OutboxEntry) OutboxEntryResponse {
	return OutboxEntryResponse{
		ID:            entry.ID,
		EventID:       entry.EventID,
		EventType:     entry.EventType,
		AggregateID:   entry.AggregateID,
		AggregateType: entry.AggregateType,
		Status:        string(entry.Status),
		RetryCount:    entry.RetryCount,
		MaxRetries:    entry.MaxRetries,
		LastError:     entry.LastError,
		NextRetryAt:   entry.NextRetryAt,
		ProcessedAt:   entry.ProcessedAt,
		CreatedAt:     entry.CreatedAt,
		UpdatedAt:     entry.UpdatedAt,
	}
}
