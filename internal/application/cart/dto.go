package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
)

// AddItemRequest puts a product into the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// ItemResponse is one cart line
type ItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse is the view of a cart
type CartResponse struct {
	ID            uuid.UUID       `json:"id"`
	UserID        *uuid.UUID      `json:"user_id,omitempty"`
	SessionToken  string          `json:"session_token,omitempty"`
	Items         []ItemResponse  `json:"items"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	TotalQuantity int             `json:"total_quantity"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToCartResponse maps a cart to its view
func ToCartResponse(c *cart.Cart) CartResponse {
	items := make([]ItemResponse, len(c.Items))
	for i, item := range c.Items {
		items[i] = ItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Title:     item.Title,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		}
	}
	return CartResponse{
		ID:            c.ID,
		UserID:        c.Owner.UserIDPtr(),
		SessionToken:  c.Owner.SessionToken,
		Items:         items,
		TotalPrice:    c.TotalPrice,
		TotalQuantity: c.TotalQuantity(),
		UpdatedAt:     c.UpdatedAt,
	}
}
