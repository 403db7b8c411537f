package event

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memOutboxRepository keeps entries in memory for the service tests
type memOutboxRepository struct {
	entries map[uuid.UUID]*shared.OutboxEntry
}

func newMemOutboxRepository() *memOutboxRepository {
	return &memOutboxRepository{entries: make(map[uuid.UUID]*shared.OutboxEntry)}
}

func (r *memOutboxRepository) add(status shared.OutboxStatus) *shared.OutboxEntry {
	now := time.Now()
	e := &shared.OutboxEntry{
		ID:            uuid.New(),
		EventID:       uuid.New(),
		EventType:     "OrderPlaced",
		AggregateID:   uuid.New(),
		AggregateType: "Order",
		Status:        status,
		MaxRetries:    shared.DefaultMaxRetries,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if status == shared.OutboxStatusDead {
		e.RetryCount = shared.DefaultMaxRetries
		e.LastError = gofakeit.Sentence(3)
	}
	r.entries[e.ID] = e
	return e
}

func (r *memOutboxRepository) Save(_ context.Context, entries ...*shared.OutboxEntry) error {
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return nil
}

func (r *memOutboxRepository) FindPending(context.Context, int) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (r *memOutboxRepository) FindRetryable(context.Context, time.Time, int) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (r *memOutboxRepository) FindDead(_ context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	var dead []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusDead {
			dead = append(dead, e)
		}
	}
	sort.Slice(dead, func(i, j int) bool { return dead[i].ID.String() < dead[j].ID.String() })
	total := int64(len(dead))
	start := (page - 1) * pageSize
	if start >= len(dead) {
		return nil, total, nil
	}
	end := min(start+pageSize, len(dead))
	return dead[start:end], total, nil
}

func (r *memOutboxRepository) FindByID(_ context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	if e, ok := r.entries[id]; ok {
		return e, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memOutboxRepository) ClaimBatch(context.Context, time.Time, int) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (r *memOutboxRepository) Update(_ context.Context, entry *shared.OutboxEntry) error {
	r.entries[entry.ID] = entry
	return nil
}

func (r *memOutboxRepository) DeleteSentBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (r *memOutboxRepository) CountByStatus(context.Context) (map[shared.OutboxStatus]int64, error) {
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts, nil
}

var admin = identity.Actor{UserID: uuid.New(), Role: identity.RoleAdmin}

func TestOutboxService_ListDead(t *testing.T) {
	repo := newMemOutboxRepository()
	for i := 0; i < 5; i++ {
		repo.add(shared.OutboxStatusDead)
	}
	repo.add(shared.OutboxStatusPending)
	svc := NewOutboxService(repo, zap.NewNop())

	page, err := svc.ListDead(context.Background(), admin, DeadLetterQuery{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Info.TotalItems)
	assert.Equal(t, 3, page.Info.PageCount)
	assert.Len(t, page.Items, 2)
	for _, e := range page.Items {
		assert.Equal(t, "DEAD", e.Status)
		assert.NotEmpty(t, e.LastError)
	}
}

func TestOutboxService_Requeue(t *testing.T) {
	repo := newMemOutboxRepository()
	dead := repo.add(shared.OutboxStatusDead)
	pending := repo.add(shared.OutboxStatusPending)
	svc := NewOutboxService(repo, zap.NewNop())

	resp, err := svc.Requeue(context.Background(), admin, dead.ID)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Zero(t, resp.RetryCount)
	assert.Empty(t, resp.LastError)

	_, err = svc.Requeue(context.Background(), admin, pending.ID)
	assert.ErrorIs(t, err, ErrEntryNotDead)

	_, err = svc.Requeue(context.Background(), admin, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOutboxService_RequeueAll(t *testing.T) {
	repo := newMemOutboxRepository()
	for i := 0; i < 3; i++ {
		repo.add(shared.OutboxStatusDead)
	}
	sent := repo.add(shared.OutboxStatusSent)
	svc := NewOutboxService(repo, zap.NewNop())

	count, err := svc.RequeueAll(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	for id, e := range repo.entries {
		if id == sent.ID {
			assert.Equal(t, shared.OutboxStatusSent, e.Status)
			continue
		}
		assert.Equal(t, shared.OutboxStatusPending, e.Status)
	}
}

func TestOutboxService_Stats(t *testing.T) {
	repo := newMemOutboxRepository()
	for _, s := range []shared.OutboxStatus{
		shared.OutboxStatusPending,
		shared.OutboxStatusPending,
		shared.OutboxStatusProcessing,
		shared.OutboxStatusSent,
		shared.OutboxStatusSent,
		shared.OutboxStatusSent,
		shared.OutboxStatusFailed,
		shared.OutboxStatusDead,
	} {
		repo.add(s)
	}

	stats, err := NewOutboxService(repo, zap.NewNop()).Stats(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, OutboxStats{Pending: 2, Processing: 1, Sent: 3, Failed: 1, Dead: 1, Total: 8}, *stats)
}

func TestOutboxService_AdminOnly(t *testing.T) {
	svc := NewOutboxService(newMemOutboxRepository(), zap.NewNop())
	customer := identity.Actor{UserID: uuid.New(), Role: identity.RoleCustomer}

	_, err := svc.Stats(context.Background(), customer)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	_, err = svc.ListDead(context.Background(), identity.Actor{}, DeadLetterQuery{})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	_, err = svc.RequeueAll(context.Background(), customer)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}
