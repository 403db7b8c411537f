package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	appcart "github.com/storefront/backend/internal/application/cart"
	appidentity "github.com/storefront/backend/internal/application/identity"
	apporder "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormOrderTransactionScope(t *testing.T) {
	t.Run("outbox entries commit with the order", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		scope := NewGormOrderTransactionScope(db, event.NewOutboxPublisher(event.NewDefaultSerializer()))
		o := newTestOrder(t, shared.UserOwner(uuid.New()))
		require.NoError(t, o.Cancel(""))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "orders" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "outbox_events"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := scope.Execute(context.Background(), func(repos apporder.TransactionalRepositories) error {
			if err := repos.Orders().SaveWithLock(context.Background(), o); err != nil {
				return err
			}
			return repos.Events().Publish(context.Background(), o.GetDomainEvents()...)
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a failed step rolls back the outbox too", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		scope := NewGormOrderTransactionScope(db, event.NewOutboxPublisher(event.NewDefaultSerializer()))

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "carts" .*FOR UPDATE`).WillReturnRows(sqlmock.NewRows(cartColumns))
		mock.ExpectRollback()

		err := scope.Execute(context.Background(), func(repos apporder.TransactionalRepositories) error {
			_, err := repos.Carts().FindByOwnerForUpdate(context.Background(), shared.SessionOwner("anon"))
			return err
		})
		assert.ErrorIs(t, err, cart.ErrCartNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCartTransactionScope(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	var got appcart.TransactionalRepositories
	err := NewGormCartTransactionScope(db).Execute(context.Background(), func(repos appcart.TransactionalRepositories) error {
		got = repos
		return nil
	})
	require.NoError(t, err)
	assert.NotNil(t, got.Carts())
	assert.NotNil(t, got.Products())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormIdentityTransactionScope(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	scope := NewGormIdentityTransactionScope(db, event.NewOutboxPublisher(event.NewDefaultSerializer()))
	user, err := identity.NewUser("new_shopper", "Grace", "Hopper", "grace@example.com", "password123", auth.NewBcryptHasher(4))
	require.NoError(t, err)
	require.Len(t, user.GetDomainEvents(), 1)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "users"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "outbox_events"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = scope.Execute(context.Background(), func(repos appidentity.TransactionalRepositories) error {
		if err := repos.Users().Save(context.Background(), user); err != nil {
			return err
		}
		return repos.Events().Publish(context.Background(), user.GetDomainEvents()...)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
