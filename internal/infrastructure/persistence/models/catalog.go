package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CategoryModel is the persistence model for the Category aggregate
type CategoryModel struct {
	AggregateModel
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text;not null"`
	IsActive    bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		IsActive:          m.IsActive,
	}
}

// CategoryModelFromDomain builds the persistence model for c
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

// ProductModel is the persistence model for the Product aggregate
type ProductModel struct {
	AggregateModel
	Title       string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text;not null"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Stock       int             `gorm:"not null"`
	IsActive    bool            `gorm:"not null"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Title:             m.Title,
		Description:       m.Description,
		Price:             m.Price,
		Stock:             m.Stock,
		IsActive:          m.IsActive,
		CategoryID:        m.CategoryID,
	}
}

// ProductModelFromDomain builds the persistence model for p
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		CategoryID:  p.CategoryID,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}
