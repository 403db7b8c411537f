package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// UserService is the admin account surface
type UserService interface {
	Create(ctx context.Context, input identityapp.CreateUserInput) (*identityapp.UserResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*identityapp.UserResponse, error)
	List(ctx context.Context, input identityapp.ListUsersInput) (*shared.Paginated[identityapp.UserResponse], error)
	Update(ctx context.Context, id uuid.UUID, input identityapp.UpdateUserInput) (*identityapp.UserResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserHandler handles user management endpoints
type UserHandler struct {
	BaseHandler
	service UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create godoc
// @ID           createUser
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body identity.CreateUserInput true "User"
// @Success      201 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ValidationErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req identityapp.CreateUserInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "User created", user)
}

// GetByID godoc
// @ID           getUser
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "", user)
}

// List godoc
// @ID           listUsers
// @Summary      List users
// @Description  Paginated listing with search on email
// @Tags         users
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order query string false "Sort order, e.g. -created_at"
// @Param        search query string false "Email search"
// @Param        role query string false "Role filter" Enums(CUSTOMER, ADMIN)
// @Param        is_active query bool false "Active filter"
// @Success      200 {object} APIResponse[shared.Paginated[identity.UserResponse]]
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var q identityapp.ListUsersInput
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
// @ID           updateUser
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Param        request body identity.UpdateUserInput true "Changes"
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ValidationErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req identityapp.UpdateUserInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "User updated", user)
}

// Delete godoc
// @ID           deleteUser
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[any]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "User deleted", nil)
}
