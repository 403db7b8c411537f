package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var addressColumns = []string{"id", "user_id", "session_token", "name", "title", "country", "city", "district", "phone", "identity_number", "zip_code", "address", "created_at", "updated_at"}

func TestGormAddressRepository_FindByOwner(t *testing.T) {
	t.Run("anonymous owner queries by session token", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		id := uuid.New()
		now := time.Now()
		mock.ExpectQuery(`SELECT \* FROM "addresses" WHERE session_token = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("tok-123", 1).
			WillReturnRows(sqlmock.NewRows(addressColumns).
				AddRow(id, nil, "tok-123", "Home", "Main", "Turkey", "Istanbul", "Kadikoy", "05551234567", "12345678901", "34710", "Street 1, Building 2", now, now))

		addr, err := NewGormAddressRepository(db).FindByOwner(context.Background(), shared.SessionOwner("tok-123"))
		require.NoError(t, err)
		assert.Equal(t, id, addr.ID)
		assert.True(t, addr.Owner.IsAnonymous())
		assert.Equal(t, "34710", addr.ZipCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("user owner queries by user id", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		userID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "addresses" WHERE user_id = \$1`).
			WithArgs(userID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := NewGormAddressRepository(db).FindByOwner(context.Background(), shared.UserOwner(userID))
		assert.ErrorIs(t, err, identity.ErrAddressNotFound)
	})

	t.Run("invalid owner is rejected before querying", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		_, err := NewGormAddressRepository(db).FindByOwner(context.Background(), shared.Owner{})
		assert.ErrorIs(t, err, shared.ErrOwnerRequired)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAddressRepository_SaveSecondAddress(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	addr := &identity.Address{BaseEntity: shared.NewBaseEntity(), Owner: shared.UserOwner(uuid.New())}

	mock.ExpectExec(`UPDATE "addresses" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "addresses"`).WillReturnError(uniqueViolation())

	err := NewGormAddressRepository(db).Save(context.Background(), addr)
	assert.ErrorIs(t, err, identity.ErrAddressExists)
}
