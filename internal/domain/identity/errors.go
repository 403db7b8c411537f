package identity

import "github.com/storefront/backend/internal/domain/shared"

var (
	ErrUserNotFound       = shared.NewDomainError("USER_NOT_FOUND", "User not found")
	ErrUserInactive       = shared.NewDomainError("USER_INACTIVE", "User account is not active")
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid credentials")
	ErrTokenInvalid       = shared.NewDomainError("TOKEN_INVALID", "Token is invalid or expired")
	ErrEmailTaken         = shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
	ErrPasswordMismatch   = shared.NewDomainError("PASSWORD_MISMATCH", "Passwords do not match")
	ErrAddressNotFound    = shared.NewDomainError("ADDRESS_NOT_FOUND", "Address not found")
	ErrAddressExists      = shared.NewDomainError("ALREADY_EXISTS", "An address already exists for this owner")
)
