package persistence

import (
	"context"

	appcart "github.com/storefront/backend/internal/application/cart"
	appidentity "github.com/storefront/backend/internal/application/identity"
	apporder "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/event"
	"gorm.io/gorm"
)

// GormCartTransactionScope implements the cart TransactionScope using GORM transactions.
type GormCartTransactionScope struct {
	db *gorm.DB
}

// NewGormCartTransactionScope creates a new GormCartTransactionScope.
func NewGormCartTransactionScope(db *gorm.DB) *GormCartTransactionScope {
	return &GormCartTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormCartTransactionScope) Execute(ctx context.Context, fn func(repos appcart.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormOrderTransactionScope implements the order TransactionScope. Events
// published through the scope land in the outbox table of the same transaction.
type GormOrderTransactionScope struct {
	db     *gorm.DB
	outbox *event.OutboxPublisher
}

// NewGormOrderTransactionScope creates a new GormOrderTransactionScope.
func NewGormOrderTransactionScope(db *gorm.DB, outbox *event.OutboxPublisher) *GormOrderTransactionScope {
	return &GormOrderTransactionScope{db: db, outbox: outbox}
}

// Execute runs fn within a database transaction.
func (s *GormOrderTransactionScope) Execute(ctx context.Context, fn func(repos apporder.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx, outbox: s.outbox})
	})
}

// GormIdentityTransactionScope implements the identity TransactionScope.
type GormIdentityTransactionScope struct {
	db     *gorm.DB
	outbox *event.OutboxPublisher
}

// NewGormIdentityTransactionScope creates a new GormIdentityTransactionScope.
func NewGormIdentityTransactionScope(db *gorm.DB, outbox *event.OutboxPublisher) *GormIdentityTransactionScope {
	return &GormIdentityTransactionScope{db: db, outbox: outbox}
}

// Execute runs fn within a database transaction.
func (s *GormIdentityTransactionScope) Execute(ctx context.Context, fn func(repos appidentity.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx, outbox: s.outbox})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx     *gorm.DB
	outbox *event.OutboxPublisher
}

func (r *gormTransactionalRepositories) Carts() cart.Repository {
	return NewGormCartRepository(r.tx)
}

func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) Addresses() identity.AddressRepository {
	return NewGormAddressRepository(r.tx)
}

func (r *gormTransactionalRepositories) Users() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

func (r *gormTransactionalRepositories) Orders() order.Repository {
	return NewGormOrderRepository(r.tx)
}

// Events returns the outbox publisher bound to the current transaction
func (r *gormTransactionalRepositories) Events() shared.EventPublisher {
	return r.outbox.Bind(r.tx)
}

var (
	_ appcart.TransactionScope              = (*GormCartTransactionScope)(nil)
	_ apporder.TransactionScope             = (*GormOrderTransactionScope)(nil)
	_ appidentity.TransactionScope          = (*GormIdentityTransactionScope)(nil)
	_ appcart.TransactionalRepositories     = (*gormTransactionalRepositories)(nil)
	_ apporder.TransactionalRepositories    = (*gormTransactionalRepositories)(nil)
	_ appidentity.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
