package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
)

// ListOrdersQuery holds the list parameters of relational orders
type ListOrdersQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Order    string `form:"order"`
	Status   string `form:"status"`
}

// ListSnapshotsQuery holds the list parameters of order snapshots
type ListSnapshotsQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UpdateStatusRequest moves an order to a new status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ItemResponse is one line of a relational order
type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse is the view of a relational order
type OrderResponse struct {
	ID           uuid.UUID       `json:"id"`
	OrderNumber  string          `json:"order_number"`
	UserID       *uuid.UUID      `json:"user_id,omitempty"`
	SessionToken string          `json:"session_token,omitempty"`
	AddressID    uuid.UUID       `json:"address_id"`
	Items        []ItemResponse  `json:"items"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	TotalItems   int             `json:"total_items"`
	Status       order.Status    `json:"status"`
	CancelReason string          `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToOrderResponse maps an order to its view
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]ItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = ItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Title:       it.Title,
			Description: it.Description,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal,
		}
	}
	return OrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		UserID:       o.Owner.UserIDPtr(),
		SessionToken: o.Owner.SessionToken,
		AddressID:    o.AddressID,
		Items:        items,
		TotalAmount:  o.TotalAmount,
		TotalItems:   o.TotalQuantity(),
		Status:       o.Status,
		CancelReason: o.CancelReason,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// SnapshotResponse is the document view of an order. It is served as
// stored, without joining live data.
type SnapshotResponse = order.Snapshot

func snapshotAddress(a *identity.Address) order.SnapshotAddress {
	return order.SnapshotAddress{
		AddressID: a.ID,
		Name:      a.Name,
		Title:     a.Title,
		Country:   a.Country,
		City:      a.City,
		District:  a.District,
		Phone:     a.Phone,
		Address:   a.Address,
		ZipCode:   a.ZipCode,
	}
}

func snapshotUser(u *identity.User) order.SnapshotUser {
	id := u.ID
	return order.SnapshotUser{UserID: &id, Username: u.Username, Email: u.Email}
}
