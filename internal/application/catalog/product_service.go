package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CacheRecorder counts cache hits and misses
type CacheRecorder interface {
	CacheLookup(hit bool)
}

type noopCacheRecorder struct{}

func (noopCacheRecorder) CacheLookup(bool) {}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	cache        catalog.ProductCache
	metrics      CacheRecorder
	logger       *zap.Logger
}

// NewProductService creates a new ProductService. A nil recorder disables
// cache metrics.
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	cache catalog.ProductCache,
	metrics CacheRecorder,
	logger *zap.Logger,
) *ProductService {
	if metrics == nil {
		metrics = noopCacheRecorder{}
	}
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		metrics:      metrics,
		logger:       logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	product, err := catalog.NewProduct(req.Title, req.Description, req.Price, req.Stock, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	logger.WithLogger(ctx, s.logger).Info("Product created", zap.String("product_id", product.ID.String()))
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product, preferring the cache
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (_ *ProductResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "get_product",
		attribute.String(telemetry.AttrProductID, id.String()))
	defer telemetry.End(span, &err)

	if cached, ok := s.cache.Get(ctx, id); ok {
		s.metrics.CacheLookup(true)
		resp := ToProductResponse(cached)
		return &resp, nil
	}
	s.metrics.CacheLookup(false)

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, product)
	resp := ToProductResponse(product)
	return &resp, nil
}

// List retrieves a page of products
func (s *ProductService) List(ctx context.Context, query ProductListQuery) (*shared.Paginated[ProductResponse], error) {
	filter := shared.NewFilter(query.Page, query.PageSize, query.Order, query.Search)
	if query.CategoryID != "" {
		categoryID, err := uuid.Parse(query.CategoryID)
		if err != nil {
			return nil, shared.ErrInvalidInput.WithMessage("category_id must be a UUID")
		}
		filter.Filters["category_id"] = categoryID
	}
	if query.IsActive != nil {
		filter.Filters["is_active"] = *query.IsActive
	}

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	page := shared.MapPaginated(shared.NewPaginated(products, total, filter), func(p catalog.Product) ProductResponse {
		return ToProductResponse(&p)
	})
	return &page, nil
}

// Update updates an existing product and drops its cache entry
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	active := product.IsActive
	if req.IsActive != nil {
		active = *req.IsActive
	}
	if err := product.Update(req.Title, req.Description, req.Price, req.Stock, req.CategoryID, active); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, id)

	logger.WithLogger(ctx, s.logger).Info("Product updated", zap.String("product_id", id.String()))
	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, id)
	logger.WithLogger(ctx, s.logger).Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

func (s *ProductService) checkCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	_, err := s.categoryRepo.FindByID(ctx, *id)
	return err
}
