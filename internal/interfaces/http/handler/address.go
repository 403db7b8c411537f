package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// AddressService is the delivery address surface
type AddressService interface {
	Create(ctx context.Context, owner shared.Owner, input identityapp.AddressInput) (*identityapp.AddressResponse, error)
	GetCurrent(ctx context.Context, owner shared.Owner) (*identityapp.AddressResponse, error)
	GetByID(ctx context.Context, owner shared.Owner, id uuid.UUID) (*identityapp.AddressResponse, error)
	Update(ctx context.Context, owner shared.Owner, input identityapp.AddressInput) (*identityapp.AddressResponse, error)
}

// AddressHandler serves the address of the current owner, signed in or not
type AddressHandler struct {
	BaseHandler
	service AddressService
}

// NewAddressHandler creates a new AddressHandler
func NewAddressHandler(service AddressService) *AddressHandler {
	return &AddressHandler{service: service}
}

// Create godoc
// @ID           createAddress
// @Summary      Create the delivery address
// @Description  Every owner holds at most one address. A second create fails with ALREADY_EXISTS.
// @Tags         addresses
// @Accept       json
// @Produce      json
// @Param        request body identity.AddressInput true "Address"
// @Param        session_token query string false "Anonymous session token"
// @Success      201 {object} APIResponse[identity.AddressResponse]
// @Failure      400 {object} ValidationErrorResponse
// @Router       /addresses [post]
func (h *AddressHandler) Create(c *gin.Context) {
	var req identityapp.AddressInput
	if !bindJSON(c, &req) {
		return
	}

	address, err := h.service.Create(c.Request.Context(), middleware.GetOwner(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Address created", address)
}

// Get godoc
// @ID           getCurrentAddress
// @Summary      Get the delivery address
// @Tags         addresses
// @Produce      json
// @Param        session_token query string false "Anonymous session token"
// @Success      200 {object} APIResponse[identity.AddressResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /addresses [get]
func (h *AddressHandler) Get(c *gin.Context) {
	address, err := h.service.GetCurrent(c.Request.Context(), middleware.GetOwner(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "", address)
}

// GetByID godoc
// @ID           getAddress
// @Summary      Get an address by id
// @Description  Only the owning user or session can read the address
// @Tags         addresses
// @Produce      json
// @Param        id path string true "Address ID" format(uuid)
// @Param        session_token query string false "Anonymous session token"
// @Success      200 {object} APIResponse[identity.AddressResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /addresses/{id} [get]
func (h *AddressHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	address, err := h.service.GetByID(c.Request.Context(), middleware.GetOwner(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "", address)
}

// Update godoc
// @ID           updateAddress
// @Summary      Update the delivery address
// @Description  Empty fields keep their current value
// @Tags         addresses
// @Accept       json
// @Produce      json
// @Param        request body identity.AddressInput true "Changes"
// @Param        session_token query string false "Anonymous session token"
// @Success      200 {object} APIResponse[identity.AddressResponse]
// @Failure      400 {object} ValidationErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /addresses [put]
func (h *AddressHandler) Update(c *gin.Context) {
	var req identityapp.AddressInput
	if !bindJSON(c, &req) {
		return
	}

	address, err := h.service.Update(c.Request.Context(), middleware.GetOwner(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Address updated", address)
}
