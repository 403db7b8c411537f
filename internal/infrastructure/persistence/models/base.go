package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel provides common persistence fields for aggregate roots.
// It extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null"`
}

// ToDomainAggregateRoot converts AggregateModel to a domain BaseAggregateRoot
// with no pending events.
func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: m.ToDomain(),
		Version:    m.Version,
	}
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// OwnerColumns holds the mutually exclusive owner pair shared by carts,
// addresses and orders.
type OwnerColumns struct {
	UserID       *uuid.UUID `gorm:"type:uuid;index"`
	SessionToken *string    `gorm:"type:varchar(64);index"`
}

// Owner converts the columns back into a domain owner
func (c OwnerColumns) Owner() shared.Owner {
	return shared.OwnerFromColumns(c.UserID, c.SessionToken)
}

// OwnerColumnsFrom splits owner into its nullable columns
func OwnerColumnsFrom(owner shared.Owner) OwnerColumns {
	return OwnerColumns{
		UserID:       owner.UserIDPtr(),
		SessionToken: owner.SessionTokenPtr(),
	}
}
