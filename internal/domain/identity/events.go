package identity

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

const (
	AggregateTypeUser = "User"

	EventTypeUserRegistered = "UserRegistered"
)

// UserRegisteredEvent is raised when a new account signs up
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// NewUserRegisteredEvent creates a UserRegisteredEvent for u
func NewUserRegisteredEvent(u *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, u.ID),
		UserID:          u.ID,
		Username:        u.Username,
		Email:           u.Email,
	}
}
