package identity

import "github.com/google/uuid"

// Actor is the authenticated caller of an operation. The zero value is an
// anonymous caller.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// IsAdmin reports whether the caller holds the elevated role
func (a Actor) IsAdmin() bool {
	return a.UserID != uuid.Nil && a.Role == RoleAdmin
}

// IsAuthenticated reports whether the caller is a signed-in user
func (a Actor) IsAuthenticated() bool {
	return a.UserID != uuid.Nil
}
