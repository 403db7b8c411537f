package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByOwner loads the cart of owner with its items
func (r *GormCartRepository) FindByOwner(ctx context.Context, owner shared.Owner) (*cart.Cart, error) {
	return r.findByOwner(ctx, owner, false)
}

// FindByOwnerForUpdate loads the cart of owner holding a row lock on the
// cart until the surrounding transaction ends.
func (r *GormCartRepository) FindByOwnerForUpdate(ctx context.Context, owner shared.Owner) (*cart.Cart, error) {
	return r.findByOwner(ctx, owner, true)
}

func (r *GormCartRepository) findByOwner(ctx context.Context, owner shared.Owner, lock bool) (*cart.Cart, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	query := whereOwner(r.db.WithContext(ctx), owner)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model models.CartModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrCartNotFound
		}
		return nil, err
	}

	// Items are read separately so the lock clause stays on the cart row.
	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", model.ID).
		Order("created_at ASC").
		Find(&model.Items).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save upserts the cart row and replaces its item set
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	model := models.CartModelFromDomain(c)
	items := model.Items
	model.Items = nil

	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"total_price", "version", "updated_at"}),
		}).
		Create(model).Error; err != nil {
		// a concurrent first add created the owner's cart
		if isUniqueViolation(err) {
			return shared.ErrConcurrencyConflict
		}
		return err
	}

	if err := db.Where("cart_id = ?", model.ID).Delete(&models.CartItemModel{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.Create(&items).Error
}

// Delete removes the cart and its items
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("cart_id = ?", id).Delete(&models.CartItemModel{}).Error; err != nil {
		return err
	}
	result := db.Delete(&models.CartModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return cart.ErrCartNotFound
	}
	return nil
}

// Ensure GormCartRepository implements cart.Repository
var _ cart.Repository = (*GormCartRepository)(nil)
