package order

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type placementFixture struct {
	scope   *fakeScope
	metrics *countingMetrics
	numbers *sequenceNumbers
	logs    *observer.ObservedLogs
	svc     *PlacementService
}

func newPlacementFixture(numbers ...string) *placementFixture {
	if len(numbers) == 0 {
		numbers = []string{"ORD-20260101120000-1234"}
	}
	core, logs := observer.New(zapcore.InfoLevel)
	f := &placementFixture{
		scope:   newFakeScope(),
		metrics: &countingMetrics{},
		numbers: &sequenceNumbers{numbers: numbers},
		logs:    logs,
	}
	f.svc = NewPlacementService(f.scope, f.numbers, f.metrics, zap.New(core))
	return f
}

func product(t *testing.T, title string, price int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(title, gofakeit.Sentence(4), decimal.NewFromInt(price), 10, nil)
	require.NoError(t, err)
	return p
}

func cartWith(t *testing.T, owner shared.Owner, lines map[*catalog.Product]int) *cart.Cart {
	t.Helper()
	c, err := cart.New(owner)
	require.NoError(t, err)
	for p, qty := range lines {
		_, err := c.AddItem(p, qty)
		require.NoError(t, err)
	}
	return c
}

func address(t *testing.T, owner shared.Owner) *identity.Address {
	t.Helper()
	a, err := identity.NewAddress(owner, identity.AddressFields{
		Name:           "Jane Doe",
		Title:          "Home",
		Country:        "Netherlands",
		City:           "Utrecht",
		District:       "Centrum",
		Phone:          "31612345678",
		IdentityNumber: "12345678901",
		ZipCode:        "35111",
		Address:        "1 Canal Street, second floor",
	})
	require.NoError(t, err)
	return a
}

func TestPlacementService_PlaceOrder(t *testing.T) {
	f := newPlacementFixture()
	owner := shared.SessionOwner("session-abc")
	p, q := product(t, "Coffee beans", 50), product(t, "Ceramic mug", 30)
	c := cartWith(t, owner, map[*catalog.Product]int{p: 2, q: 1})
	addr := address(t, owner)

	f.scope.carts.On("FindByOwnerForUpdate", mock.Anything, owner).Return(c, nil)
	f.scope.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*p, *q}, nil)
	f.scope.addresses.On("FindByOwner", mock.Anything, owner).Return(addr, nil)
	f.scope.orders.On("Create", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
	f.scope.carts.On("Delete", mock.Anything, c.ID).Return(nil)

	resp, err := f.svc.PlaceOrder(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, "130", resp.TotalAmount.String())
	assert.Equal(t, 3, resp.TotalItems)
	assert.Equal(t, order.StatusPending, resp.Status)
	assert.Regexp(t, order.NumberPattern, resp.OrderNumber)
	assert.Equal(t, "session-abc", resp.SessionToken)
	assert.Equal(t, addr.ID, resp.AddressID)

	require.Len(t, f.scope.outbox.events, 1)
	placed, ok := f.scope.outbox.events[0].(*order.OrderPlacedEvent)
	require.True(t, ok)
	assert.Equal(t, resp.ID, placed.Snapshot.OrderID)
	assert.True(t, placed.Snapshot.TotalAmount.Equal(resp.TotalAmount))
	assert.True(t, placed.Snapshot.User.IsAnonymous)
	assert.Equal(t, "Utrecht", placed.Snapshot.Address.City)
	assert.Len(t, placed.Snapshot.Items, 2)

	assert.Equal(t, 1, f.metrics.placed)
	assert.Equal(t, 1, f.logs.FilterMessage("Order placed").Len())
	f.scope.users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	f.scope.carts.AssertExpectations(t)
}

func TestPlacementService_UsesLivePrices(t *testing.T) {
	f := newPlacementFixture()
	user := uuid.New()
	owner := shared.UserOwner(user)
	p := product(t, "Coffee beans", 50)
	c := cartWith(t, owner, map[*catalog.Product]int{p: 2})
	live := *p
	live.Price = decimal.RequireFromString("55.25")

	buyer, err := identity.NewUser("jane_doe", "Jane", "Doe", "jane@example.com", "secret-pass", plainHasher{})
	require.NoError(t, err)
	buyer.ID = user

	f.scope.carts.On("FindByOwnerForUpdate", mock.Anything, owner).Return(c, nil)
	f.scope.products.On("FindByIDs", mock.Anything, []uuid.UUID{p.ID}).Return([]catalog.Product{live}, nil)
	f.scope.addresses.On("FindByOwner", mock.Anything, owner).Return(address(t, owner), nil)
	f.scope.users.On("FindByID", mock.Anything, user).Return(buyer, nil)
	f.scope.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.scope.carts.On("Delete", mock.Anything, c.ID).Return(nil)

	resp, err := f.svc.PlaceOrder(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, "110.5", resp.TotalAmount.String())
	assert.Equal(t, "55.25", resp.Items[0].UnitPrice.String())

	placed := f.scope.outbox.events[0].(*order.OrderPlacedEvent)
	assert.Equal(t, "jane@example.com", placed.Snapshot.User.Email)
	assert.False(t, placed.Snapshot.User.IsAnonymous)
}

func TestPlacementService_NumberCollisions(t *testing.T) {
	owner := shared.SessionOwner("session-abc")

	t.Run("retries with a fresh number", func(t *testing.T) {
		f := newPlacementFixture("ORD-20260101120000-1111", "ORD-20260101120000-2222")
		p := product(t, "Coffee beans", 50)
		c := cartWith(t, owner, map[*catalog.Product]int{p: 1})

		f.scope.carts.On("FindByOwnerForUpdate", mock.Anything, owner).Return(c, nil)
		f.scope.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*p}, nil)
		f.scope.addresses.On("FindByOwner", mock.Anything, owner).Return(address(t, owner), nil)
		f.scope.orders.On("Create", mock.Anything, mock.Anything).Return(order.ErrOrderNumberTaken).Once()
		f.scope.orders.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		f.scope.carts.On("Delete", mock.Anything, c.ID).Return(nil)

		resp, err := f.svc.PlaceOrder(context.Background(), owner)
		require.NoError(t, err)
		assert.Equal(t, "ORD-20260101120000-2222", resp.OrderNumber)
		assert.Equal(t, 1, f.metrics.collisions)
		assert.Equal(t, 1, f.logs.FilterMessage("Order number collision").Len())
	})

	t.Run("gives up after the attempt budget", func(t *testing.T) {
		f := newPlacementFixture()
		p := product(t, "Coffee beans", 50)
		c := cartWith(t, owner, map[*catalog.Product]int{p: 1})

		f.scope.carts.On("FindByOwnerForUpdate", mock.Anything, owner).Return(c, nil)
		f.scope.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*p}, nil)
		f.scope.addresses.On("FindByOwner", mock.Anything, owner).Return(address(t, owner), nil)
		f.scope.orders.On("Create", mock.Anything, mock.Anything).Return(order.ErrOrderNumberTaken)

		_, err := f.svc.PlaceOrder(context.Background(), owner)
		assert.ErrorIs(t, err, order.ErrOrderNumberExhausted)
		f.scope.orders.AssertNumberOfCalls(t, "Create", order.MaxNumberAttempts)
		assert.Equal(t, order.MaxNumberAttempts, f.metrics.collisions)
		assert.Empty(t, f.scope.outbox.events)
		f.scope.carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		assert.Zero(t, f.metrics.placed)
	})
}

func TestPlacementService_Rejections(t *testing.T) {
	owner := shared.SessionOwner("session-abc")

	tests := []struct {
		name    string
		owner   shared.Owner
		setup   func(t *testing.T, s *fakeScope)
		wantErr error
	}{
		{
			name:    "no owner",
			owner:   shared.Owner{},
			setup:   func(*testing.T, *fakeScope) {},
			wantErr: shared.ErrOwnerRequired,
		},
		{
			name:  "missing cart",
			owner: owner,
			setup: func(_ *testing.T, s *fakeScope) {
				s.carts.On("FindByOwnerForUpdate", mock.Anything, owner).Return(nil, cart.ErrCartNotFound)
			},
			wantErr: cart.ErrCartNotFound,
		},
		{
			name:  "empty cart",
			owner: owner,
			setup: func(t *testing.T, s *fakeScope) {
				s.carts.On("FindByOwnerForUpdate", mock.Anything, owner).Return(cartWith(t, owner, nil), nil)
			},
			wantErr: cart.ErrCartEmpty,
		},
		{
			name:  "vanished product",
			owner: owner,
			setup: func(t *testing.T, s *fakeScope) {
				p := product(t, "Coffee beans", 50)
				s.carts.On("FindByOwnerForUpdate", mock.Anything, owner).Return(cartWith(t, owner, map[*catalog.Product]int{p: 1}), nil)
				s.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)
			},
			wantErr: catalog.ErrProductNotFound,
		},
		{
			name:  "missing address",
			owner: owner,
			setup: func(t *testing.T, s *fakeScope) {
				p := product(t, "Coffee beans", 50)
				s.carts.On("FindByOwnerForUpdate", mock.Anything, owner).Return(cartWith(t, owner, map[*catalog.Product]int{p: 1}), nil)
				s.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*p}, nil)
				s.addresses.On("FindByOwner", mock.Anything, owner).Return(nil, identity.ErrAddressNotFound)
			},
			wantErr: identity.ErrAddressNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPlacementFixture()
			tt.setup(t, f.scope)

			_, err := f.svc.PlaceOrder(context.Background(), tt.owner)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.scope.outbox.events)
			f.scope.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			f.scope.carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		})
	}
}

func TestPlacementService_OutboxFailureRollsBack(t *testing.T) {
	f := newPlacementFixture()
	owner := shared.SessionOwner("session-abc")
	p := product(t, "Coffee beans", 50)
	c := cartWith(t, owner, map[*catalog.Product]int{p: 1})
	f.scope.outbox.err = errors.New("outbox table locked")

	f.scope.carts.On("FindByOwnerForUpdate", mock.Anything, owner).Return(c, nil)
	f.scope.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*p}, nil)
	f.scope.addresses.On("FindByOwner", mock.Anything, owner).Return(address(t, owner), nil)
	f.scope.orders.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.PlaceOrder(context.Background(), owner)
	require.Error(t, err)
	_, isDomain := shared.AsDomainError(err)
	assert.False(t, isDomain)
	f.scope.carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	assert.Zero(t, f.metrics.placed)
}

// plainHasher stores passwords with a visible prefix
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) Verify(hash, password string) bool    { return hash == "hashed:"+password }
