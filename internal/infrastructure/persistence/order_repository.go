package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderInsertSavepoint lets a colliding insert be undone without aborting
// the surrounding placement transaction.
const orderInsertSavepoint = "order_insert"

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by ID with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate loads the order and row-locks it
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).Where("order_id = ?", id).Find(&model.Items).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists orders matching the filter with their items
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	var orderModels []models.OrderModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)
	query = applySortAndPage(query, filter, orderSortColumns)

	if err := query.Preload("Items").Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]order.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts the order and its items. It must run inside a transaction:
// the order row is written under a savepoint so an order number collision
// can be rolled back and retried with a fresh number.
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	items := model.Items
	model.Items = nil

	db := r.db.WithContext(ctx)
	if err := db.SavePoint(orderInsertSavepoint).Error; err != nil {
		return err
	}
	if err := db.Omit(clause.Associations).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			if rbErr := db.RollbackTo(orderInsertSavepoint).Error; rbErr != nil {
				return errors.Join(order.ErrOrderNumberTaken, rbErr)
			}
			return order.ErrOrderNumberTaken
		}
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.Create(&items).Error
}

// SaveWithLock persists status changes with optimistic locking. The domain
// has already bumped the version, so the stored row must still carry the
// previous one.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	var reason *string
	if o.CancelReason != "" {
		reason = &o.CancelReason
	}
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", o.ID, o.Version-1).
		Updates(map[string]interface{}{
			"status":        o.Status,
			"cancel_reason": reason,
			"version":       o.Version,
			"updated_at":    o.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithMessage("Order was modified by another request")
	}
	return nil
}

// applyFilter applies the "user_id" and "status" filters
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "user_id":
			query = query.Where("user_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	return query
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
