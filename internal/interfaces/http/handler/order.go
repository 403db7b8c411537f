package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// PlacementService turns the owner's cart into an order
type PlacementService interface {
	PlaceOrder(ctx context.Context, owner shared.Owner) (*orderapp.OrderResponse, error)
}

// OrderQueryService reads and transitions placed orders
type OrderQueryService interface {
	ListForUser(ctx context.Context, actor identity.Actor, q orderapp.ListOrdersQuery) (*shared.Paginated[orderapp.OrderResponse], error)
	ListAnonymous(ctx context.Context, actor identity.Actor, q orderapp.ListSnapshotsQuery) (*shared.Paginated[orderapp.SnapshotResponse], error)
	ListCancelled(ctx context.Context, actor identity.Actor, q orderapp.ListSnapshotsQuery) (*shared.Paginated[orderapp.SnapshotResponse], error)
	GetDetail(ctx context.Context, actor identity.Actor, owner shared.Owner, id uuid.UUID) (*orderapp.SnapshotResponse, error)
	UpdateStatus(ctx context.Context, actor identity.Actor, owner shared.Owner, id uuid.UUID, req orderapp.UpdateStatusRequest) (*orderapp.OrderResponse, error)
	Cancel(ctx context.Context, actor identity.Actor, owner shared.Owner, id uuid.UUID, reason string) (*orderapp.OrderResponse, error)
}

// OrderHandler handles order placement and order queries
type OrderHandler struct {
	BaseHandler
	placement PlacementService
	queries   OrderQueryService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(placement PlacementService, queries OrderQueryService) *OrderHandler {
	return &OrderHandler{placement: placement, queries: queries}
}

// Place godoc
// @ID           placeOrder
// @Summary      Place an order
// @Description  Converts the cart of the caller into an order using the stored address. The cart is deleted on success.
// @Tags         orders
// @Produce      json
// @Param        session_token query string false "Anonymous session token"
// @Success      201 {object} APIResponse[order.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /order [post]
func (h *OrderHandler) Place(c *gin.Context) {
	placed, err := h.placement.PlaceOrder(c.Request.Context(), middleware.GetOwner(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Order placed", placed)
}

// List godoc
// @ID           listOrders
// @Summary      List orders
// @Description  Admins see every order, customers see their own
// @Tags         orders
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order query string false "Sort order"
// @Param        status query string false "Status filter"
// @Success      200 {object} APIResponse[shared.Paginated[order.OrderResponse]]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /order [get]
func (h *OrderHandler) List(c *gin.Context) {
	var q orderapp.ListOrdersQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.queries.ListForUser(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "", page)
}

// ListAnonymous godoc
// @ID           listAnonymousOrders
// @Summary      List orders placed without an account
// @Tags         orders
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[shared.Paginated[order.Snapshot]]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /order/anonymous [get]
func (h *OrderHandler) ListAnonymous(c *gin.Context) {
	var q orderapp.ListSnapshotsQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.queries.ListAnonymous(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "", page)
}

// ListCancelled godoc
// @ID           listCancelledOrders
// @Summary      List cancelled orders
// @Tags         orders
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[shared.Paginated[order.Snapshot]]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /order/cancelled [get]
func (h *OrderHandler) ListCancelled(c *gin.Context) {
	var q orderapp.ListSnapshotsQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.queries.ListCancelled(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "", page)
}

// Get godoc
// @ID           getOrder
// @Summary      Get an order
// @Description  Reads the order snapshot. Only the owner or an admin may read it.
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        session_token query string false "Anonymous session token"
// @Success      200 {object} APIResponse[order.Snapshot]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /order/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	snapshot, err := h.queries.GetDetail(c.Request.Context(), middleware.GetActor(c), middleware.GetOwner(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "", snapshot)
}

// UpdateStatus godoc
// @ID           updateOrderStatus
// @Summary      Move an order to a new status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body order.UpdateStatusRequest true "Target status"
// @Success      200 {object} APIResponse[order.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /order/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req orderapp.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.queries.UpdateStatus(c.Request.Context(), middleware.GetActor(c), middleware.GetOwner(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Order status updated", updated)
}

// Cancel godoc
// @ID           cancelOrder
// @Summary      Cancel an order
// @Description  Allowed while the order is PENDING or CONFIRMED
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        reason query string false "Cancellation reason"
// @Param        session_token query string false "Anonymous session token"
// @Success      200 {object} APIResponse[order.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /order/{id} [delete]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	cancelled, err := h.queries.Cancel(c.Request.Context(), middleware.GetActor(c), middleware.GetOwner(c), id, c.Query("reason"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Order cancelled", cancelled)
}
