package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/storefront/backend/internal/domain/shared"
)

// Category groups products
type Category struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	IsActive    bool
}

// NewCategory creates a new active category
func NewCategory(name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		IsActive:          true,
	}, nil
}

// Update changes the category attributes
func (c *Category) Update(name, description string, active bool) error {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return err
	}
	c.Name = name
	c.Description = description
	c.IsActive = active
	c.Touch()
	c.IncrementVersion()
	return nil
}

func validateCategoryName(name string) error {
	if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
		return shared.ErrInvalidInput.WithMessage("Category name must be between 2 and 100 characters")
	}
	return nil
}
