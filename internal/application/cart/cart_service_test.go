package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

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

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) ExistsByCategory(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	args := m.Called(ctx, categoryID)
	return args.Bool(0), args.Error(1)
}

// memCartRepository keeps carts by owner and copies on every read and write
// so that failed transactions leave no trace
type memCartRepository struct {
	carts   map[shared.Owner]cart.Cart
	locks   int
	saveErr error
}

func newMemCartRepository() *memCartRepository {
	return &memCartRepository{carts: map[shared.Owner]cart.Cart{}}
}

func clone(c cart.Cart) *cart.Cart {
	c.Items = append([]cart.Item(nil), c.Items...)
	return &c
}

func (r *memCartRepository) FindByOwner(_ context.Context, owner shared.Owner) (*cart.Cart, error) {
	c, ok := r.carts[owner]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	return clone(c), nil
}

func (r *memCartRepository) FindByOwnerForUpdate(ctx context.Context, owner shared.Owner) (*cart.Cart, error) {
	r.locks++
	return r.FindByOwner(ctx, owner)
}

func (r *memCartRepository) Save(_ context.Context, c *cart.Cart) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.carts[c.Owner] = *clone(*c)
	return nil
}

func (r *memCartRepository) Delete(_ context.Context, id uuid.UUID) error {
	for owner, c := range r.carts {
		if c.ID == id {
			delete(r.carts, owner)
			return nil
		}
	}
	return cart.ErrCartNotFound
}

type fakeScope struct {
	carts    *memCartRepository
	products *MockProductRepository
}

func (s *fakeScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *fakeScope) Carts() cart.Repository                { return s.carts }
func (s *fakeScope) Products() catalog.ProductRepository { return s.products }

func newProduct(t *testing.T, price string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(gofakeit.ProductName(), "", decimal.RequireFromString(price), 100, nil)
	require.NoError(t, err)
	return p
}

func newCartService() (*CartService, *memCartRepository, *MockProductRepository) {
	carts := newMemCartRepository()
	products := new(MockProductRepository)
	return NewCartService(&fakeScope{carts: carts, products: products}, carts, zap.NewNop()), carts, products
}

func sumOfSubtotals(resp *CartResponse) decimal.Decimal {
	total := decimal.Zero
	for _, item := range resp.Items {
		total = total.Add(item.Subtotal)
	}
	return total
}

func TestCartService_TotalsTrackItems(t *testing.T) {
	svc, carts, products := newCartService()
	owner := shared.SessionOwner("session-abc")
	p, q := newProduct(t, "50"), newProduct(t, "30")
	products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	products.On("FindByID", mock.Anything, q.ID).Return(q, nil)
	ctx := context.Background()

	resp, err := svc.AddItem(ctx, owner, AddItemRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "100", resp.TotalPrice.String())

	resp, err = svc.AddItem(ctx, owner, AddItemRequest{ProductID: q.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, "130", resp.TotalPrice.String())
	assert.True(t, sumOfSubtotals(resp).Equal(resp.TotalPrice))

	// merging repeats the product line
	resp, err = svc.AddItem(ctx, owner, AddItemRequest{ProductID: q.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "190", resp.TotalPrice.String())

	qLine := resp.Items[1].ID
	resp, err = svc.UpdateItemQuantity(ctx, owner, qLine, 1)
	require.NoError(t, err)
	assert.Equal(t, "130", resp.TotalPrice.String())
	assert.True(t, sumOfSubtotals(resp).Equal(resp.TotalPrice))

	resp, err = svc.RemoveItem(ctx, owner, resp.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "30", resp.TotalPrice.String())

	resp, err = svc.Clear(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.True(t, resp.TotalPrice.IsZero())
	assert.Equal(t, 6, carts.locks)
}

func TestCartService_ClearDeletesCart(t *testing.T) {
	svc, carts, products := newCartService()
	owner := shared.SessionOwner("session-clear")
	p := newProduct(t, "20")
	products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, owner, AddItemRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = svc.Clear(ctx, owner)
	require.NoError(t, err)

	_, stored := carts.carts[owner]
	assert.False(t, stored, "cart row must be gone")

	_, err = svc.View(ctx, owner)
	assert.ErrorIs(t, err, cart.ErrCartNotFound)

	_, err = svc.Clear(ctx, owner)
	assert.ErrorIs(t, err, cart.ErrCartNotFound)
}

func TestCartService_UpdateItemQuantity(t *testing.T) {
	owner := shared.UserOwner(uuid.New())

	t.Run("zero quantity leaves the line", func(t *testing.T) {
		svc, carts, products := newCartService()
		p := newProduct(t, "12.50")
		products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		added, err := svc.AddItem(context.Background(), owner, AddItemRequest{ProductID: p.ID, Quantity: 3})
		require.NoError(t, err)

		_, err = svc.UpdateItemQuantity(context.Background(), owner, added.Items[0].ID, 0)
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

		stored, err := carts.FindByOwner(context.Background(), owner)
		require.NoError(t, err)
		assert.Equal(t, 3, stored.Items[0].Quantity)
		assert.Equal(t, "37.5", stored.TotalPrice.String())
	})

	t.Run("reprices at the current price", func(t *testing.T) {
		svc, _, products := newCartService()
		p := newProduct(t, "10")
		products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		added, err := svc.AddItem(context.Background(), owner, AddItemRequest{ProductID: p.ID, Quantity: 1})
		require.NoError(t, err)

		p.Price = decimal.NewFromInt(12)
		resp, err := svc.UpdateItemQuantity(context.Background(), owner, added.Items[0].ID, 2)
		require.NoError(t, err)
		assert.Equal(t, "24", resp.TotalPrice.String())
	})

	t.Run("missing cart", func(t *testing.T) {
		svc, _, _ := newCartService()
		_, err := svc.UpdateItemQuantity(context.Background(), owner, uuid.New(), 2)
		assert.ErrorIs(t, err, cart.ErrCartNotFound)
	})

	t.Run("missing item", func(t *testing.T) {
		svc, _, products := newCartService()
		p := newProduct(t, "10")
		products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		_, err := svc.AddItem(context.Background(), owner, AddItemRequest{ProductID: p.ID, Quantity: 1})
		require.NoError(t, err)

		_, err = svc.UpdateItemQuantity(context.Background(), owner, uuid.New(), 2)
		assert.ErrorIs(t, err, cart.ErrCartItemNotFound)
	})
}

func TestCartService_AddItem_Errors(t *testing.T) {
	owner := shared.SessionOwner("session-xyz")

	tests := []struct {
		name    string
		owner   shared.Owner
		qty     int
		product func(t *testing.T, products *MockProductRepository) uuid.UUID
		wantErr error
	}{
		{
			name:    "no owner",
			owner:   shared.Owner{},
			qty:     1,
			product: func(*testing.T, *MockProductRepository) uuid.UUID { return uuid.New() },
			wantErr: shared.ErrOwnerRequired,
		},
		{
			name:  "unknown product",
			owner: owner,
			qty:   1,
			product: func(_ *testing.T, products *MockProductRepository) uuid.UUID {
				id := uuid.New()
				products.On("FindByID", mock.Anything, id).Return(nil, catalog.ErrProductNotFound)
				return id
			},
			wantErr: catalog.ErrProductNotFound,
		},
		{
			name:  "inactive product",
			owner: owner,
			qty:   1,
			product: func(t *testing.T, products *MockProductRepository) uuid.UUID {
				p := newProduct(t, "5")
				p.IsActive = false
				products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
				return p.ID
			},
			wantErr: catalog.ErrProductUnavailable,
		},
		{
			name:    "zero quantity",
			owner:   owner,
			qty:     0,
			product: func(*testing.T, *MockProductRepository) uuid.UUID { return uuid.New() },
			wantErr: cart.ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, carts, products := newCartService()
			id := tt.product(t, products)

			_, err := svc.AddItem(context.Background(), tt.owner, AddItemRequest{ProductID: id, Quantity: tt.qty})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, carts.carts)
		})
	}
}

func TestCartService_SaveFailureKeepsCart(t *testing.T) {
	svc, carts, products := newCartService()
	owner := shared.SessionOwner("session-keep")
	p := newProduct(t, "9.99")
	products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	_, err := svc.AddItem(context.Background(), owner, AddItemRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	carts.saveErr = errors.New("connection reset")
	_, err = svc.AddItem(context.Background(), owner, AddItemRequest{ProductID: p.ID, Quantity: 5})
	require.Error(t, err)

	view, err := svc.View(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 1, view.TotalQuantity)
}

func TestCartService_View(t *testing.T) {
	svc, _, _ := newCartService()
	_, err := svc.View(context.Background(), shared.SessionOwner("nobody"))
	assert.ErrorIs(t, err, cart.ErrCartNotFound)

	_, err = svc.View(context.Background(), shared.Owner{})
	assert.ErrorIs(t, err, shared.ErrOwnerRequired)
}
