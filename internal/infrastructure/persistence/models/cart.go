package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
)

// CartModel is the persistence model for the Cart aggregate
type CartModel struct {
	AggregateModel
	OwnerColumns
	TotalPrice decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Items      []CartItemModel `gorm:"foreignKey:CartID"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel is the persistence model for a cart line
type CartItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	CartID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Title     string          `gorm:"type:varchar(200);not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Quantity  int             `gorm:"not null"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain Cart. The stored
// total is kept as-is; callers recalculate after applying live prices.
func (m *CartModel) ToDomain() *cart.Cart {
	c := &cart.Cart{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Owner:             m.OwnerColumns.Owner(),
		Items:             make([]cart.Item, len(m.Items)),
		TotalPrice:        m.TotalPrice,
	}
	for i, item := range m.Items {
		c.Items[i] = cart.Item{
			ID:        item.ID,
			CartID:    item.CartID,
			ProductID: item.ProductID,
			Title:     item.Title,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		}
	}
	return c
}

// CartModelFromDomain builds the persistence model for c, items included
func CartModelFromDomain(c *cart.Cart) *CartModel {
	m := &CartModel{
		OwnerColumns: OwnerColumnsFrom(c.Owner),
		TotalPrice:   c.TotalPrice,
		Items:        make([]CartItemModel, len(c.Items)),
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	for i, item := range c.Items {
		m.Items[i] = CartItemModel{
			ID:        item.ID,
			CartID:    c.ID,
			ProductID: item.ProductID,
			Title:     item.Title,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		}
	}
	return m
}
