package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAddressRepository implements AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// FindByID finds an address by ID
func (r *GormAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Address, error) {
	var model models.AddressModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identity.ErrAddressNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOwner finds the address of owner
func (r *GormAddressRepository) FindByOwner(ctx context.Context, owner shared.Owner) (*identity.Address, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	var model models.AddressModel
	if err := whereOwner(r.db.WithContext(ctx), owner).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identity.ErrAddressNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates an address. A second address for the same owner
// hits the per-owner unique index and surfaces as ErrAddressExists.
func (r *GormAddressRepository) Save(ctx context.Context, address *identity.Address) error {
	model := models.AddressModelFromDomain(address)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isUniqueViolation(err) {
			return identity.ErrAddressExists
		}
		return err
	}
	return nil
}

// whereOwner scopes query to the owner's single non-null column
func whereOwner(query *gorm.DB, owner shared.Owner) *gorm.DB {
	if owner.IsUser() {
		return query.Where("user_id = ?", owner.UserID)
	}
	return query.Where("session_token = ?", owner.SessionToken)
}

// Ensure GormAddressRepository implements AddressRepository
var _ identity.AddressRepository = (*GormAddressRepository)(nil)
