package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CategoryService is the category use-case surface
type CategoryService interface {
	Create(ctx context.Context, req catalogapp.CreateCategoryRequest) (*catalogapp.CategoryResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.CategoryResponse, error)
	List(ctx context.Context, query catalogapp.CategoryListQuery) (*shared.Paginated[catalogapp.CategoryResponse], error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateCategoryRequest) (*catalogapp.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductService is the product use-case surface
type ProductService interface {
	Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
	List(ctx context.Context, query catalogapp.ProductListQuery) (*shared.Paginated[catalogapp.ProductResponse], error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryHandler handles category-related API endpoints
type CategoryHandler struct {
	BaseHandler
	service CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(service CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// Create godoc
// @ID           createCategory
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body catalog.CreateCategoryRequest true "Category"
// @Success      201 {object} APIResponse[catalog.CategoryResponse]
// @Failure      400 {object} ValidationErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Category created", category)
}

// GetByID godoc
// @ID           getCategory
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.CategoryResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /categories/{id} [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	category, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "", category)
}

// List godoc
// @ID           listCategories
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order query string false "Sort order"
// @Param        search query string false "Name search"
// @Param        is_active query bool false "Active filter"
// @Success      200 {object} APIResponse[shared.Paginated[catalog.CategoryResponse]]
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	var q catalogapp.CategoryListQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "", page)
}

// Update godoc
// @ID           updateCategory
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Param        request body catalog.UpdateCategoryRequest true "Changes"
// @Success      200 {object} APIResponse[catalog.CategoryResponse]
// @Failure      400 {object} ValidationErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req catalogapp.UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Category updated", category)
}

// Delete godoc
// @ID           deleteCategory
// @Summary      Delete a category
// @Description  Fails with CATEGORY_IN_USE while products still reference it
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} APIResponse[any]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Category deleted", nil)
}

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	service ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(service ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// Create godoc
// @ID           createProduct
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalog.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[catalog.ProductResponse]
// @Failure      400 {object} ValidationErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Product created", product)
}

// GetByID godoc
// @ID           getProduct
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "", product)
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order query string false "Sort order"
// @Param        search query string false "Title search"
// @Param        category_id query string false "Category filter" format(uuid)
// @Param        is_active query bool false "Active filter"
// @Success      200 {object} APIResponse[shared.Paginated[catalog.ProductResponse]]
// @Failure      400 {object} ValidationErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var q catalogapp.ProductListQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "", page)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalog.UpdateProductRequest true "Changes"
// @Success      200 {object} APIResponse[catalog.ProductResponse]
// @Failure      400 {object} ValidationErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req catalogapp.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Product updated", product)
}

// Delete godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[any]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Product deleted", nil)
}
