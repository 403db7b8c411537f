package complaint

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Feature is the part of the product a complaint is about
type Feature string

const (
	FeatureNewQuestion Feature = "NEW_QUESTION"
	FeatureLiveStream  Feature = "LIVE_STREAM"
	FeatureLiveChat    Feature = "LIVE_CHAT"
	FeatureProfile     Feature = "PROFILE"
	FeaturePayment     Feature = "PAYMENT"
	FeatureOther       Feature = "OTHER"
)

// IsValid reports whether the feature is known
func (f Feature) IsValid() bool {
	switch f {
	case FeatureNewQuestion, FeatureLiveStream, FeatureLiveChat, FeatureProfile, FeaturePayment, FeatureOther:
		return true
	}
	return false
}

// Status is the handling state of a complaint
type Status string

const (
	StatusNew        Status = "NEW"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
	StatusClosed     Status = "CLOSED"
	StatusCanceled   Status = "CANCELED"
)

// IsValid reports whether the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusResolved, StatusClosed, StatusCanceled:
		return true
	}
	return false
}

var (
	ErrComplaintNotFound = shared.NewDomainError("COMPLAINT_NOT_FOUND", "Complaint not found")
	ErrInvalidFeature    = shared.NewDomainError("INVALID_FEATURE", "Unknown complaint feature")
	ErrInvalidStatus     = shared.NewDomainError("INVALID_COMPLAINT_STATUS", "Unknown complaint status")
)

// Complaint is a user-filed report stored in the document store
type Complaint struct {
	ID        uuid.UUID
	Reason    string
	Details   map[string]any
	Feature   Feature
	Status    Status
	UserID    uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New files a complaint on behalf of userID
func New(userID uuid.UUID, reason string, details map[string]any, feature Feature) (*Complaint, error) {
	reason = strings.TrimSpace(reason)
	if n := utf8.RuneCountInString(reason); n < 3 || n > 500 {
		return nil, shared.ErrInvalidInput.WithMessage("Complaint reason must be between 3 and 500 characters")
	}
	if !feature.IsValid() {
		return nil, ErrInvalidFeature
	}
	if details == nil {
		details = map[string]any{}
	}
	now := time.Now().UTC()
	return &Complaint{
		ID:        uuid.New(),
		Reason:    reason,
		Details:   details,
		Feature:   feature,
		Status:    StatusNew,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetStatus changes the handling state
func (c *Complaint) SetStatus(status Status) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// Repository defines the interface for complaint persistence.
// FindAll supports the filters "user_id" (uuid.UUID), "feature" (Feature)
// and "status" (Status); Search is a text search on reason.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Complaint, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Complaint, int64, error)
	Insert(ctx context.Context, c *Complaint) error
	Update(ctx context.Context, c *Complaint) error
}
