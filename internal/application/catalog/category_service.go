package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, productRepo: productRepo, logger: logger}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	category, err := catalog.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	logger.WithLogger(ctx, s.logger).Info("Category created", zap.String("category_id", category.ID.String()))
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// List retrieves a page of categories
func (s *CategoryService) List(ctx context.Context, query CategoryListQuery) (*shared.Paginated[CategoryResponse], error) {
	filter := shared.NewFilter(query.Page, query.PageSize, query.Order, query.Search)
	if query.IsActive != nil {
		filter.Filters["is_active"] = *query.IsActive
	}

	categories, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	total, err := s.categoryRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}

	page := shared.MapPaginated(shared.NewPaginated(categories, total, filter), func(c catalog.Category) CategoryResponse {
		return ToCategoryResponse(&c)
	})
	return &page, nil
}

// Update updates an existing category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	active := category.IsActive
	if req.IsActive != nil {
		active = *req.IsActive
	}
	if err := category.Update(req.Name, req.Description, active); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete removes a category that no product references
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}
	inUse, err := s.productRepo.ExistsByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("check category products: %w", err)
	}
	if inUse {
		logger.WithLogger(ctx, s.logger).Warn("Refused to delete category in use", zap.String("category_id", id.String()))
		return catalog.ErrCategoryInUse
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.WithLogger(ctx, s.logger).Info("Category deleted", zap.String("category_id", id.String()))
	return nil
}
