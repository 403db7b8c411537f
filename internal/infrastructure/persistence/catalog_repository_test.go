package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var productColumns = []string{"id", "title", "description", "price", "stock", "is_active", "category_id", "version", "created_at", "updated_at"}

func TestGormProductRepository_FindByID(t *testing.T) {
	t.Run("maps price and category", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		id, categoryID := uuid.New(), uuid.New()
		now := time.Now()
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnRows(sqlmock.NewRows(productColumns).
				AddRow(id, "Coffee beans", "", "49.90", 7, true, categoryID, 2, now, now))

		p, err := NewGormProductRepository(db).FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("49.90").Equal(p.Price))
		assert.Equal(t, 7, p.Stock)
		require.NotNil(t, p.CategoryID)
		assert.Equal(t, categoryID, *p.CategoryID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is ErrProductNotFound", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "products"`).WillReturnError(gorm.ErrRecordNotFound)

		_, err := NewGormProductRepository(db).FindByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})
}

func TestGormProductRepository_FindByIDs(t *testing.T) {
	t.Run("empty input skips the query", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		products, err := NewGormProductRepository(db).FindByIDs(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, products)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("loads every requested id", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		a, b := uuid.New(), uuid.New()
		now := time.Now()
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id IN \(\$1,\$2\)`).
			WithArgs(a, b).
			WillReturnRows(sqlmock.NewRows(productColumns).
				AddRow(a, gofakeit.ProductName(), "", "10.00", 1, true, nil, 1, now, now).
				AddRow(b, gofakeit.ProductName(), "", "20.00", 1, true, nil, 1, now, now))

		products, err := NewGormProductRepository(db).FindByIDs(context.Background(), []uuid.UUID{a, b})
		require.NoError(t, err)
		assert.Len(t, products, 2)
		assert.Nil(t, products[0].CategoryID)
	})
}

func TestGormProductRepository_FindAllFilters(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	categoryID := uuid.New()
	filter := shared.DefaultFilter()
	filter.ParseOrder("price")
	filter.Filters["category_id"] = categoryID

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE category_id = \$1 ORDER BY price ASC LIMIT \$2`).
		WithArgs(categoryID, 10).
		WillReturnRows(sqlmock.NewRows(productColumns))

	products, err := NewGormProductRepository(db).FindAll(context.Background(), filter)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_ExistsByCategory(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	categoryID := uuid.New()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE category_id = \$1`).
		WithArgs(categoryID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := NewGormProductRepository(db).ExistsByCategory(context.Background(), categoryID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormCategoryRepository(t *testing.T) {
	t.Run("count applies search", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		filter := shared.DefaultFilter()
		filter.Search = "Tea"
		mock.ExpectQuery(`SELECT count\(\*\) FROM "categories" WHERE LOWER\(name\) LIKE \$1`).
			WithArgs("%tea%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		n, err := NewGormCategoryRepository(db).Count(context.Background(), filter)
		require.NoError(t, err)
		assert.EqualValues(t, 4, n)
	})

	t.Run("delete of a missing category", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		mock.ExpectExec(`DELETE FROM "categories"`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewGormCategoryRepository(db).Delete(context.Background(), uuid.New())
		assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
	})

	t.Run("duplicate name is ErrAlreadyExists", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		c, err := catalog.NewCategory("Coffee", "")
		require.NoError(t, err)
		mock.ExpectExec(`UPDATE "categories" SET`).WillReturnError(uniqueViolation())

		err = NewGormCategoryRepository(db).Save(context.Background(), c)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}
