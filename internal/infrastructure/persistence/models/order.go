package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
)

// OrderModel is the persistence model for the Order aggregate
type OrderModel struct {
	AggregateModel
	OwnerColumns
	OrderNumber  string           `gorm:"type:varchar(32);not null;uniqueIndex:idx_orders_number"`
	AddressID    uuid.UUID        `gorm:"type:uuid;not null"`
	TotalAmount  decimal.Decimal  `gorm:"type:numeric(14,2);not null"`
	Status       order.Status     `gorm:"type:varchar(20);not null"`
	CancelReason *string          `gorm:"type:text"`
	Items        []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the persistence model for an order line
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	Title       string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text;not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Quantity    int             `gorm:"not null"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		Owner:             m.OwnerColumns.Owner(),
		AddressID:         m.AddressID,
		Items:             make([]order.Item, len(m.Items)),
		TotalAmount:       m.TotalAmount,
		Status:            m.Status,
	}
	if m.CancelReason != nil {
		o.CancelReason = *m.CancelReason
	}
	for i, item := range m.Items {
		o.Items[i] = order.Item{
			ID:          item.ID,
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			Title:       item.Title,
			Description: item.Description,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		}
	}
	return o
}

// OrderModelFromDomain builds the persistence model for o, items included
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{
		OwnerColumns: OwnerColumnsFrom(o.Owner),
		OrderNumber:  o.OrderNumber,
		AddressID:    o.AddressID,
		TotalAmount:  o.TotalAmount,
		Status:       o.Status,
		Items:        make([]OrderItemModel, len(o.Items)),
	}
	if o.CancelReason != "" {
		reason := o.CancelReason
		m.CancelReason = &reason
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	for i, item := range o.Items {
		m.Items[i] = OrderItemModel{
			ID:          item.ID,
			OrderID:     o.ID,
			ProductID:   item.ProductID,
			Title:       item.Title,
			Description: item.Description,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		}
	}
	return m
}
