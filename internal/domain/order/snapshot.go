package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// SnapshotUser is the buyer as seen at placement time
type SnapshotUser struct {
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	Username    string     `json:"username,omitempty"`
	Email       string     `json:"email,omitempty"`
	IsAnonymous bool       `json:"is_anonymous"`
}

// SnapshotAddress is the delivery address copied into the snapshot
type SnapshotAddress struct {
	AddressID uuid.UUID `json:"address_id"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	District  string    `json:"district"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	ZipCode   string    `json:"zip_code"`
}

// SnapshotItem is an order line copied into the snapshot
type SnapshotItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// Snapshot is the denormalized, self-contained view of an order kept in the
// document store. It is rebuilt from events and never joins other data.
type Snapshot struct {
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	User         SnapshotUser    `json:"user"`
	SessionToken string          `json:"session_token,omitempty"`
	Address      SnapshotAddress `json:"address"`
	Items        []SnapshotItem  `json:"items"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	TotalItems   int             `json:"total_items"`
	Status       Status          `json:"status"`
	CancelReason string          `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
	LastEventID  uuid.UUID       `json:"last_event_id"`
}

// NewSnapshot builds the document view of o
func NewSnapshot(o *Order, user SnapshotUser, address SnapshotAddress) Snapshot {
	items := make([]SnapshotItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = SnapshotItem{
			ProductID:   it.ProductID,
			Title:       it.Title,
			Description: it.Description,
			Price:       it.UnitPrice,
			Quantity:    it.Quantity,
			TotalPrice:  it.Subtotal,
		}
	}
	user.IsAnonymous = o.Owner.IsAnonymous()
	return Snapshot{
		OrderID:      o.ID,
		OrderNumber:  o.OrderNumber,
		User:         user,
		SessionToken: o.Owner.SessionToken,
		Address:      address,
		Items:        items,
		TotalAmount:  o.TotalAmount,
		TotalItems:   o.TotalQuantity(),
		Status:       o.Status,
		CancelReason: o.CancelReason,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Version:      o.Version,
	}
}

// Owner rebuilds the owner reference recorded in the snapshot
func (s *Snapshot) Owner() shared.Owner {
	return shared.OwnerFromColumns(s.User.UserID, nonEmpty(s.SessionToken))
}

// OwnedBy reports whether owner placed the order
func (s *Snapshot) OwnedBy(owner shared.Owner) bool {
	return s.Owner().Matches(owner)
}

// StatusChange is a status update projected onto a snapshot. Version
// orders changes of one order; a snapshot never moves to a lower version.
type StatusChange struct {
	OrderID      uuid.UUID
	Status       Status
	CancelReason string
	UpdatedAt    time.Time
	Version      int
	EventID      uuid.UUID
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
