package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	complaintapp "github.com/storefront/backend/internal/application/complaint"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// ComplaintService is the customer complaint surface
type ComplaintService interface {
	Create(ctx context.Context, actor identity.Actor, req complaintapp.CreateComplaintRequest) (*complaintapp.ComplaintResponse, error)
	List(ctx context.Context, actor identity.Actor, q complaintapp.ListComplaintsQuery) (*shared.Paginated[complaintapp.ComplaintResponse], error)
	GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*complaintapp.ComplaintResponse, error)
	UpdateStatus(ctx context.Context, actor identity.Actor, id uuid.UUID, req complaintapp.UpdateStatusRequest) (*complaintapp.ComplaintResponse, error)
}

// ComplaintHandler handles complaint endpoints
type ComplaintHandler struct {
	BaseHandler
	service ComplaintService
}

// NewComplaintHandler creates a new ComplaintHandler
func NewComplaintHandler(service ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{service: service}
}

// Create godoc
// @ID           createComplaint
// @Summary      File a complaint
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Param        request body complaint.CreateComplaintRequest true "Complaint"
// @Success      201 {object} APIResponse[complaint.ComplaintResponse]
// @Failure      400 {object} ValidationErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /complaints [post]
func (h *ComplaintHandler) Create(c *gin.Context) {
	var req complaintapp.CreateComplaintRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.service.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Complaint created", created)
}

// List godoc
// @ID           listComplaints
// @Summary      List complaints
// @Description  Admins list every complaint. Other callers must filter by their own author_id.
// @Tags         complaints
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order query string false "Sort order" default(-created_at)
// @Param        search query string false "Reason search"
// @Param        author_id query string false "Author filter" format(uuid)
// @Param        feature query string false "Feature filter"
// @Param        status query string false "Status filter"
// @Success      200 {object} APIResponse[shared.Paginated[complaint.ComplaintResponse]]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /complaints [get]
func (h *ComplaintHandler) List(c *gin.Context) {
	var q complaintapp.ListComplaintsQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.service.List(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "", page)
}

// GetByID godoc
// @ID           getComplaint
// @Summary      Get a complaint
// @Tags         complaints
// @Produce      json
// @Param        id path string true "Complaint ID" format(uuid)
// @Success      200 {object} APIResponse[complaint.ComplaintResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /complaints/{id} [get]
func (h *ComplaintHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	found, err := h.service.GetByID(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "", found)
}

// UpdateStatus godoc
// @ID           updateComplaintStatus
// @Summary      Change the status of a complaint
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Param        id path string true "Complaint ID" format(uuid)
// @Param        request body complaint.UpdateStatusRequest true "Target status"
// @Success      200 {object} APIResponse[complaint.ComplaintResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /complaints/{id}/status [patch]
func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req complaintapp.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Complaint updated", updated)
}
