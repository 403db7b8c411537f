package complaint

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/complaint"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ComplaintService handles user complaints stored in the document store
type ComplaintService struct {
	repo   complaint.Repository
	logger *zap.Logger
}

// NewComplaintService creates a new ComplaintService
func NewComplaintService(repo complaint.Repository, logger *zap.Logger) *ComplaintService {
	return &ComplaintService{repo: repo, logger: logger}
}

// Create files a complaint for the caller
func (s *ComplaintService) Create(ctx context.Context, actor identity.Actor, req CreateComplaintRequest) (*ComplaintResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}
	feature := complaint.Feature(strings.ToUpper(strings.TrimSpace(req.Feature)))
	c, err := complaint.New(actor.UserID, req.Reason, req.Details, feature)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to store complaint: %w", err)
	}

	logger.WithLogger(ctx, s.logger).Info("Complaint filed",
		zap.String("complaint_id", c.ID.String()),
		zap.String("feature", string(c.Feature)))
	resp := ToComplaintResponse(c)
	return &resp, nil
}

// List returns complaints. Only admins may list other users' complaints.
func (s *ComplaintService) List(ctx context.Context, actor identity.Actor, q ListComplaintsQuery) (*shared.Paginated[ComplaintResponse], error) {
	if !actor.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}

	order := q.Order
	if order == "" {
		order = "-created_at"
	}
	filter := shared.NewFilter(q.Page, q.PageSize, order, q.Search)

	if q.AuthorID != "" {
		author, err := uuid.Parse(q.AuthorID)
		if err != nil {
			return nil, shared.ErrInvalidInput.WithMessage("author_id must be a valid UUID")
		}
		filter.Filters["user_id"] = author
	}
	if !actor.IsAdmin() && filter.Filters["user_id"] != actor.UserID {
		logger.WithLogger(ctx, s.logger).Warn("Complaint list denied", zap.String("author_id", q.AuthorID))
		return nil, shared.ErrForbidden
	}

	if q.Feature != "" {
		feature := complaint.Feature(strings.ToUpper(q.Feature))
		if !feature.IsValid() {
			return nil, complaint.ErrInvalidFeature
		}
		filter.Filters["feature"] = feature
	}
	if q.Status != "" {
		status := complaint.Status(strings.ToUpper(q.Status))
		if !status.IsValid() {
			return nil, complaint.ErrInvalidStatus
		}
		filter.Filters["status"] = status
	}

	items, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	page := shared.MapPaginated(shared.NewPaginated(items, total, filter), func(c complaint.Complaint) ComplaintResponse {
		return ToComplaintResponse(&c)
	})
	return &page, nil
}

// GetByID returns a complaint to its author or an admin
func (s *ComplaintService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ComplaintResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && c.UserID != actor.UserID {
		return nil, shared.ErrForbidden
	}
	resp := ToComplaintResponse(c)
	return &resp, nil
}

// UpdateStatus changes the handling state. Admin only.
func (s *ComplaintService) UpdateStatus(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateStatusRequest) (*ComplaintResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := c.Status
	if err := c.SetStatus(complaint.Status(strings.ToUpper(strings.TrimSpace(req.Status)))); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update complaint: %w", err)
	}

	logger.WithLogger(ctx, s.logger).Info("Complaint status changed",
		zap.String("complaint_id", c.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(c.Status)))
	resp := ToComplaintResponse(c)
	return &resp, nil
}
