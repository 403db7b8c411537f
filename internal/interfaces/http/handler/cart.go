package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CartService is the shopping cart surface
type CartService interface {
	AddItem(ctx context.Context, owner shared.Owner, req cartapp.AddItemRequest) (*cartapp.CartResponse, error)
	UpdateItemQuantity(ctx context.Context, owner shared.Owner, itemID uuid.UUID, quantity int) (*cartapp.CartResponse, error)
	RemoveItem(ctx context.Context, owner shared.Owner, itemID uuid.UUID) (*cartapp.CartResponse, error)
	Clear(ctx context.Context, owner shared.Owner) (*cartapp.CartResponse, error)
	View(ctx context.Context, owner shared.Owner) (*cartapp.CartResponse, error)
}

// CartHandler handles the cart of the current owner
type CartHandler struct {
	BaseHandler
	service CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(service CartService) *CartHandler {
	return &CartHandler{service: service}
}

// AddItem godoc
// @ID           addCartItem
// @Summary      Add a product to the cart
// @Description  Creates the cart on first use. Adding a product already in the cart increases its quantity.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cart.AddItemRequest true "Item"
// @Param        session_token query string false "Anonymous session token"
// @Success      201 {object} APIResponse[cart.CartResponse]
// @Failure      400 {object} ValidationErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /cart [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cartapp.AddItemRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.service.AddItem(c.Request.Context(), middleware.GetOwner(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Item added", view)
}

// UpdateItem godoc
// @ID           updateCartItem
// @Summary      Change the quantity of a cart item
// @Tags         cart
// @Produce      json
// @Param        item_id path string true "Cart item ID" format(uuid)
// @Param        quantity query int true "New quantity, greater than zero"
// @Param        session_token query string false "Anonymous session token"
// @Success      200 {object} APIResponse[cart.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /cart/{item_id} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, ok := h.parseUUIDParam(c, "item_id")
	if !ok {
		return
	}

	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil {
		h.HandleError(c, cart.ErrInvalidQuantity)
		return
	}

	view, err := h.service.UpdateItemQuantity(c.Request.Context(), middleware.GetOwner(c), itemID, quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Item updated", view)
}

// RemoveItem godoc
// @ID           removeCartItem
// @Summary      Remove an item from the cart
// @Tags         cart
// @Produce      json
// @Param        item_id path string true "Cart item ID" format(uuid)
// @Param        session_token query string false "Anonymous session token"
// @Success      200 {object} APIResponse[cart.CartResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /cart/{item_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := h.parseUUIDParam(c, "item_id")
	if !ok {
		return
	}

	view, err := h.service.RemoveItem(c.Request.Context(), middleware.GetOwner(c), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Item removed", view)
}

// Clear godoc
// @ID           clearCart
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Param        session_token query string false "Anonymous session token"
// @Success      200 {object} APIResponse[cart.CartResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	view, err := h.service.Clear(c.Request.Context(), middleware.GetOwner(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Cart cleared", view)
}

// View godoc
// @ID           viewCart
// @Summary      View the cart
// @Tags         cart
// @Produce      json
// @Param        session_token query string false "Anonymous session token"
// @Success      200 {object} APIResponse[cart.CartResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /cart [get]
func (h *CartHandler) View(c *gin.Context) {
	view, err := h.service.View(c.Request.Context(), middleware.GetOwner(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "", view)
}
