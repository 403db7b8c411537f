package shared

import (
	"github.com/google/uuid"
)

// Owner identifies who a cart, address or order belongs to: either an
// authenticated user or an anonymous session token, never both.
type Owner struct {
	UserID       uuid.UUID
	SessionToken string
}

// UserOwner returns an owner bound to an authenticated user
func UserOwner(userID uuid.UUID) Owner {
	return Owner{UserID: userID}
}

// SessionOwner returns an owner bound to an anonymous session token
func SessionOwner(token string) Owner {
	return Owner{SessionToken: token}
}

// IsUser reports whether the owner is an authenticated user
func (o Owner) IsUser() bool {
	return o.UserID != uuid.Nil
}

// IsAnonymous reports whether the owner is an anonymous session
func (o Owner) IsAnonymous() bool {
	return o.UserID == uuid.Nil && o.SessionToken != ""
}

// Validate checks that exactly one of user id and session token is set
func (o Owner) Validate() error {
	hasUser := o.UserID != uuid.Nil
	hasSession := o.SessionToken != ""
	if hasUser == hasSession {
		return ErrOwnerRequired
	}
	return nil
}

// UserIDPtr returns the user id as a nullable column value
func (o Owner) UserIDPtr() *uuid.UUID {
	if o.UserID == uuid.Nil {
		return nil
	}
	id := o.UserID
	return &id
}

// SessionTokenPtr returns the session token as a nullable column value
func (o Owner) SessionTokenPtr() *string {
	if o.SessionToken == "" {
		return nil
	}
	t := o.SessionToken
	return &t
}

// OwnerFromColumns rebuilds an owner from nullable persisted columns
func OwnerFromColumns(userID *uuid.UUID, sessionToken *string) Owner {
	var o Owner
	if userID != nil {
		o.UserID = *userID
	}
	if sessionToken != nil {
		o.SessionToken = *sessionToken
	}
	return o
}

// Matches reports whether other refers to the same owner
func (o Owner) Matches(other Owner) bool {
	if o.IsUser() || other.IsUser() {
		return o.UserID == other.UserID
	}
	return o.SessionToken != "" && o.SessionToken == other.SessionToken
}
