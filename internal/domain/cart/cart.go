package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

var (
	ErrCartNotFound     = shared.NewDomainError("CART_NOT_FOUND", "Cart not found")
	ErrCartItemNotFound = shared.NewDomainError("CART_ITEM_NOT_FOUND", "Cart item not found")
	ErrCartEmpty        = shared.NewDomainError("CART_EMPTY", "Cart is empty")
	ErrInvalidQuantity  = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
)

// Item is one product line in a cart
type Item struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID uuid.UUID
	Title     string
	UnitPrice decimal.Decimal
	Quantity  int
	Subtotal  decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i *Item) reprice(unitPrice decimal.Decimal, quantity int) {
	i.UnitPrice = unitPrice
	i.Quantity = quantity
	i.Subtotal = unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	i.UpdatedAt = time.Now()
}

// Cart is the shopping cart of a single owner
type Cart struct {
	shared.BaseAggregateRoot
	Owner      shared.Owner
	Items      []Item
	TotalPrice decimal.Decimal
}

// New creates an empty cart for owner
func New(owner shared.Owner) (*Cart, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Owner:             owner,
		Items:             make([]Item, 0),
		TotalPrice:        decimal.Zero,
	}, nil
}

// AddItem puts quantity units of product into the cart. An existing line for
// the same product is merged and repriced at the current catalog price.
func (c *Cart) AddItem(product *catalog.Product, quantity int) (*Item, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !product.Purchasable() {
		return nil, catalog.ErrProductUnavailable
	}

	for i := range c.Items {
		if c.Items[i].ProductID == product.ID {
			c.Items[i].Title = product.Title
			c.Items[i].reprice(product.Price, c.Items[i].Quantity+quantity)
			c.recalculate()
			return &c.Items[i], nil
		}
	}

	now := time.Now()
	item := Item{
		ID:        uuid.New(),
		CartID:    c.ID,
		ProductID: product.ID,
		Title:     product.Title,
		CreatedAt: now,
	}
	item.reprice(product.Price, quantity)
	c.Items = append(c.Items, item)
	c.recalculate()
	return &c.Items[len(c.Items)-1], nil
}

// UpdateItemQuantity sets the quantity of a line and reprices it at
// currentPrice. The line is left untouched on error.
func (c *Cart) UpdateItemQuantity(itemID uuid.UUID, quantity int, currentPrice decimal.Decimal) (*Item, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	item := c.findItem(itemID)
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	item.reprice(currentPrice, quantity)
	c.recalculate()
	return item, nil
}

// RemoveItem deletes a line from the cart
func (c *Cart) RemoveItem(itemID uuid.UUID) error {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.recalculate()
			return nil
		}
	}
	return ErrCartItemNotFound
}

// Clear removes every line from the cart
func (c *Cart) Clear() {
	c.Items = c.Items[:0]
	c.recalculate()
}

// Item returns the line with the given id
func (c *Cart) Item(itemID uuid.UUID) (*Item, error) {
	item := c.findItem(itemID)
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	return item, nil
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ProductIDs returns the product of every line. AddItem merges lines of
// the same product, so the ids do not repeat.
func (c *Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// TotalQuantity returns the number of units in the cart
func (c *Cart) TotalQuantity() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) findItem(itemID uuid.UUID) *Item {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// recalculate re-sums every line. Totals are never adjusted incrementally.
func (c *Cart) recalculate() {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal)
	}
	c.TotalPrice = total
	c.Touch()
}
