package complaint

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/complaint"
)

// CreateComplaintRequest files a new complaint
type CreateComplaintRequest struct {
	Reason  string         `json:"reason" binding:"required,min=3,max=500"`
	Details map[string]any `json:"details"`
	Feature string         `json:"feature" binding:"required"`
}

// UpdateStatusRequest changes the handling state of a complaint
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListComplaintsQuery holds the list parameters
type ListComplaintsQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Order    string `form:"order"`
	Search   string `form:"search"`
	AuthorID string `form:"author_id" binding:"omitempty,uuid"`
	Feature  string `form:"feature"`
	Status   string `form:"status"`
}

// ComplaintResponse is the view of a complaint
type ComplaintResponse struct {
	ID        uuid.UUID         `json:"id"`
	Reason    string            `json:"reason"`
	Details   map[string]any    `json:"details"`
	Feature   complaint.Feature `json:"feature"`
	Status    complaint.Status  `json:"status"`
	UserID    uuid.UUID         `json:"user_id"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ToComplaintResponse maps a complaint to its view
func ToComplaintResponse(c *complaint.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:        c.ID,
		Reason:    c.Reason,
		Details:   c.Details,
		Feature:   c.Feature,
		Status:    c.Status,
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
