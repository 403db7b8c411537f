package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	eventapp "github.com/storefront/backend/internal/application/event"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// OutboxService is the operator surface over the event outbox
type OutboxService interface {
	ListDead(ctx context.Context, actor identity.Actor, q eventapp.DeadLetterQuery) (*shared.Paginated[eventapp.OutboxEntryResponse], error)
	Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*eventapp.OutboxEntryResponse, error)
	Requeue(ctx context.Context, actor identity.Actor, id uuid.UUID) (*eventapp.OutboxEntryResponse, error)
	RequeueAll(ctx context.Context, actor identity.Actor) (int64, error)
	Stats(ctx context.Context, actor identity.Actor) (*eventapp.OutboxStats, error)
}

// OutboxHandler handles outbox management HTTP requests
type OutboxHandler struct {
	BaseHandler
	service OutboxService
}

// NewOutboxHandler creates a new outbox handler
func NewOutboxHandler(service OutboxService) *OutboxHandler {
	return &OutboxHandler{service: service}
}

// ListDead godoc
// @ID           listOutboxDeadEntries
// @Summary      List dead letter entries
// @Description  Entries that exhausted their retries, most recently failed first
// @Tags         outbox
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[shared.Paginated[event.OutboxEntryResponse]]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/outbox/dead [get]
func (h *OutboxHandler) ListDead(c *gin.Context) {
	var q eventapp.DeadLetterQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.service.ListDead(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "", page)
}

// Get godoc
// @ID           getOutboxEntry
// @Summary      Get an outbox entry
// @Tags         outbox
// @Produce      json
// @Param        id path string true "Entry ID" format(uuid)
// @Success      200 {object} APIResponse[event.OutboxEntryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/outbox/{id} [get]
func (h *OutboxHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.service.Get(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "", entry)
}

// Requeue godoc
// @ID           requeueOutboxEntry
// @Summary      Retry a dead entry
// @Description  Resets the retry counter and puts the entry back in the pending queue
// @Tags         outbox
// @Produce      json
// @Param        id path string true "Entry ID" format(uuid)
// @Success      200 {object} APIResponse[event.OutboxEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/outbox/{id}/retry [post]
func (h *OutboxHandler) Requeue(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.service.Requeue(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Entry requeued", entry)
}

// RequeueAll godoc
// @ID           requeueAllOutboxEntries
// @Summary      Retry every dead entry
// @Tags         outbox
// @Produce      json
// @Success      200 {object} APIResponse[CountData]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/outbox/dead/retry-all [post]
func (h *OutboxHandler) RequeueAll(c *gin.Context) {
	count, err := h.service.RequeueAll(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Entries requeued", CountData{Count: count})
}

// Stats godoc
// @ID           getOutboxStats
// @Summary      Outbox statistics
// @Tags         outbox
// @Produce      json
// @Success      200 {object} APIResponse[event.OutboxStats]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/outbox/stats [get]
func (h *OutboxHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "", stats)
}
