package order

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// DefaultCancelReason is recorded when a cancellation gives no reason
const DefaultCancelReason = "Cancelled by customer"

var (
	ErrOrderNotFound           = shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	ErrInvalidStatus           = shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	ErrInvalidStatusTransition = shared.NewDomainError("INVALID_STATUS_TRANSITION", "Order status transition is not allowed")
	ErrOrderNumberExhausted    = shared.NewDomainError("ORDER_NUMBER_EXHAUSTED", "Could not allocate a unique order number")
	ErrOrderNumberTaken        = shared.NewDomainError("ORDER_NUMBER_TAKEN", "Order number is already in use")
)

// Item is a purchased line. Price and title are copied from the product at
// placement time and never recalculated.
type Item struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	Title       string
	Description string
	UnitPrice   decimal.Decimal
	Quantity    int
	Subtotal    decimal.Decimal
}

// NewItem copies the live product data into an order line
func NewItem(product *catalog.Product, quantity int) (Item, error) {
	if quantity <= 0 {
		return Item{}, shared.ErrInvalidInput.WithMessage("Order item quantity must be greater than zero")
	}
	return Item{
		ID:          uuid.New(),
		ProductID:   product.ID,
		Title:       product.Title,
		Description: product.Description,
		UnitPrice:   product.Price,
		Quantity:    quantity,
		Subtotal:    product.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// Order is a placed purchase
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber  string
	Owner        shared.Owner
	AddressID    uuid.UUID
	Items        []Item
	TotalAmount  decimal.Decimal
	Status       Status
	CancelReason string
}

// New creates a pending order over items
func New(number string, owner shared.Owner, addressID uuid.UUID, items []Item) (*Order, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, shared.ErrInvalidInput.WithMessage("Order must contain at least one item")
	}
	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       number,
		Owner:             owner,
		AddressID:         addressID,
		Items:             items,
		Status:            StatusPending,
	}
	total := decimal.Zero
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		total = total.Add(o.Items[i].Subtotal)
	}
	o.TotalAmount = total
	return o, nil
}

// Renumber replaces the order number after a uniqueness conflict
func (o *Order) Renumber(number string) {
	o.OrderNumber = number
}

// TotalQuantity returns the number of units in the order
func (o *Order) TotalQuantity() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// OwnedBy reports whether owner placed this order
func (o *Order) OwnedBy(owner shared.Owner) bool {
	return o.Owner.Matches(owner)
}

// ChangeStatus moves the order through the lifecycle. Cancellation must go
// through Cancel so a reason is recorded.
func (o *Order) ChangeStatus(next Status) error {
	if next == StatusCancelled {
		return o.Cancel("")
	}
	if !o.Status.CanTransitionTo(next) {
		return ErrInvalidStatusTransition.WithMessage(
			"Cannot change order status from " + o.Status.String() + " to " + next.String())
	}
	old := o.Status
	o.Status = next
	o.touch()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, old))
	return nil
}

// Cancel moves a pending or confirmed order to CANCELLED
func (o *Order) Cancel(reason string) error {
	if !o.Status.Cancellable() {
		return ErrInvalidStatusTransition.WithMessage(
			"Order in status " + o.Status.String() + " cannot be cancelled")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultCancelReason
	}
	old := o.Status
	o.Status = StatusCancelled
	o.CancelReason = reason
	o.touch()
	o.AddDomainEvent(NewOrderCancelledEvent(o, old))
	return nil
}

func (o *Order) touch() {
	o.Touch()
	o.IncrementVersion()
}
