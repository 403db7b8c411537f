package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/notification"
	"github.com/stretchr/testify/mock"
)

// MockCartRepository is a mock implementation of cart.Repository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByOwner(ctx context.Context, owner shared.Owner) (*cart.Cart, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByOwnerForUpdate(ctx context.Context, owner shared.Owner) (*cart.Cart, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) ExistsByCategory(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	args := m.Called(ctx, categoryID)
	return args.Bool(0), args.Error(1)
}

// MockAddressRepository is a mock implementation of identity.AddressRepository
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Address), args.Error(1)
}

func (m *MockAddressRepository) FindByOwner(ctx context.Context, owner shared.Owner) (*identity.Address, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Address), args.Error(1)
}

func (m *MockAddressRepository) Save(ctx context.Context, a *identity.Address) error {
	return m.Called(ctx, a).Error(0)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

// MockSnapshotRepository is a mock implementation of order.SnapshotRepository
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Snapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) Upsert(ctx context.Context, snap order.Snapshot) error {
	return m.Called(ctx, snap).Error(0)
}

func (m *MockSnapshotRepository) ApplyStatus(ctx context.Context, change order.StatusChange) (bool, error) {
	args := m.Called(ctx, change)
	return args.Bool(0), args.Error(1)
}

func (m *MockSnapshotRepository) ListAnonymous(ctx context.Context, filter shared.Filter) ([]order.Snapshot, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]order.Snapshot), args.Get(1).(int64), args.Error(2)
}

func (m *MockSnapshotRepository) ListCancelled(ctx context.Context, filter shared.Filter) ([]order.Snapshot, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]order.Snapshot), args.Get(1).(int64), args.Error(2)
}

// recordingPublisher collects published events
type recordingPublisher struct {
	events []shared.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, events...)
	return nil
}

// fakeScope runs fn directly against the mocks. Events published inside a
// failed fn are dropped, as a rollback would.
type fakeScope struct {
	carts     *MockCartRepository
	products  *MockProductRepository
	addresses *MockAddressRepository
	users     *MockUserRepository
	orders    *MockOrderRepository
	outbox    *recordingPublisher

	pending  *recordingPublisher
	executed int
}

func newFakeScope() *fakeScope {
	return &fakeScope{
		carts:     new(MockCartRepository),
		products:  new(MockProductRepository),
		addresses: new(MockAddressRepository),
		users:     new(MockUserRepository),
		orders:    new(MockOrderRepository),
		outbox:    &recordingPublisher{},
	}
}

func (s *fakeScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.executed++
	s.pending = &recordingPublisher{err: s.outbox.err}
	if err := fn(s); err != nil {
		return err
	}
	s.outbox.events = append(s.outbox.events, s.pending.events...)
	return nil
}

func (s *fakeScope) Carts() cart.Repository                  { return s.carts }
func (s *fakeScope) Products() catalog.ProductRepository     { return s.products }
func (s *fakeScope) Addresses() identity.AddressRepository   { return s.addresses }
func (s *fakeScope) Users() identity.UserRepository          { return s.users }
func (s *fakeScope) Orders() order.Repository                { return s.orders }
func (s *fakeScope) Events() shared.EventPublisher           { return s.pending }

// sequenceNumbers returns the given numbers in order
type sequenceNumbers struct {
	numbers []string
	next    int
}

func (s *sequenceNumbers) Next() string {
	n := s.numbers[s.next%len(s.numbers)]
	s.next++
	return n
}

type countingMetrics struct {
	placed     int
	collisions int
	statuses   []string
}

func (m *countingMetrics) OrderPlaced()                     { m.placed++ }
func (m *countingMetrics) OrderNumberCollision()            { m.collisions++ }
func (m *countingMetrics) OrderStatusChanged(status string) { m.statuses = append(m.statuses, status) }

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, msg notification.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type outcomeRecorder struct {
	outcomes []string
}

func (r *outcomeRecorder) NotificationSent(outcome string) { r.outcomes = append(r.outcomes, outcome) }
