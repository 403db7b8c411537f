package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	categoryID := uuid.New()

	t.Run("creates active product", func(t *testing.T) {
		p, err := NewProduct("  Espresso Beans ", "1kg bag", decimal.NewFromInt(50), 10, &categoryID)
		require.NoError(t, err)
		assert.Equal(t, "Espresso Beans", p.Title)
		assert.True(t, p.Price.Equal(decimal.NewFromInt(50)))
		assert.True(t, p.IsActive)
		assert.True(t, p.Purchasable())
		assert.Equal(t, &categoryID, p.CategoryID)
		assert.Equal(t, 1, p.GetVersion())
	})

	tests := []struct {
		name  string
		title string
		price decimal.Decimal
		stock int
	}{
		{"title too short", "X", decimal.NewFromInt(1), 0},
		{"zero price", "Mug", decimal.Zero, 0},
		{"negative price", "Mug", decimal.NewFromInt(-5), 0},
		{"negative stock", "Mug", decimal.NewFromInt(5), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(tt.title, "", tt.price, tt.stock, nil)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
		})
	}
}

func TestProduct_Update(t *testing.T) {
	p, err := NewProduct("Mug", "", decimal.NewFromInt(5), 3, nil)
	require.NoError(t, err)

	require.NoError(t, p.Update("Big Mug", "ceramic", decimal.RequireFromString("7.50"), 4, nil, false))
	assert.Equal(t, "Big Mug", p.Title)
	assert.Equal(t, "7.5", p.Price.String())
	assert.False(t, p.Purchasable())
	assert.Equal(t, 2, p.GetVersion())

	err = p.Update("Big Mug", "", decimal.Zero, 4, nil, true)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Equal(t, "7.5", p.Price.String())
}

func TestCategory(t *testing.T) {
	c, err := NewCategory(" Coffee ", "beans and grounds")
	require.NoError(t, err)
	assert.Equal(t, "Coffee", c.Name)
	assert.True(t, c.IsActive)

	require.NoError(t, c.Update("Tea", "", false))
	assert.Equal(t, "Tea", c.Name)
	assert.False(t, c.IsActive)

	_, err = NewCategory("", "")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
