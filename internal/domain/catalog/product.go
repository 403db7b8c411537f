package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Catalog errors
var (
	ErrProductNotFound    = shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	ErrProductUnavailable = shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available for sale")
	ErrCategoryNotFound   = shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
	ErrCategoryInUse      = shared.NewDomainError("CATEGORY_IN_USE", "Category still has products")
)

// Product represents a sellable item in the catalog
type Product struct {
	shared.BaseAggregateRoot
	Title       string
	Description string
	Price       decimal.Decimal
	Stock       int
	IsActive    bool
	CategoryID  *uuid.UUID
}

// NewProduct creates a new active product
func NewProduct(title, description string, price decimal.Decimal, stock int, categoryID *uuid.UUID) (*Product, error) {
	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		IsActive:          true,
		CategoryID:        categoryID,
	}
	if err := p.apply(title, description, price, stock); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the mutable attributes of the product
func (p *Product) Update(title, description string, price decimal.Decimal, stock int, categoryID *uuid.UUID, active bool) error {
	if err := p.apply(title, description, price, stock); err != nil {
		return err
	}
	p.CategoryID = categoryID
	p.IsActive = active
	p.Touch()
	p.IncrementVersion()
	return nil
}

func (p *Product) apply(title, description string, price decimal.Decimal, stock int) error {
	title = strings.TrimSpace(title)
	if n := utf8.RuneCountInString(title); n < 2 || n > 200 {
		return shared.ErrInvalidInput.WithMessage("Product title must be between 2 and 200 characters")
	}
	if !price.IsPositive() {
		return shared.ErrInvalidInput.WithMessage("Product price must be greater than zero")
	}
	if stock < 0 {
		return shared.ErrInvalidInput.WithMessage("Product stock cannot be negative")
	}
	p.Title = title
	p.Description = description
	p.Price = price
	p.Stock = stock
	return nil
}

// Purchasable reports whether the product can be put into a cart
func (p *Product) Purchasable() bool {
	return p.IsActive
}
