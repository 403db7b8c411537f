package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
)

// RegisterInput is the sign-up form
type RegisterInput struct {
	Username  string `json:"username" binding:"required,min=6,max=50"`
	FirstName string `json:"first_name" binding:"required,min=3,max=50"`
	LastName  string `json:"last_name" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email,max=200"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
}

// LoginInput is the sign-in form. Identifier is the account email.
type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// UpdateProfileInput changes the display fields of the caller
type UpdateProfileInput struct {
	Username  string `json:"username" binding:"required,min=6,max=50"`
	FirstName string `json:"first_name" binding:"required,min=3,max=50"`
	LastName  string `json:"last_name" binding:"required,min=3,max=50"`
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	OldPassword    string `json:"old_password" binding:"required"`
	NewPassword    string `json:"new_password" binding:"required,min=8,max=72"`
	RepeatPassword string `json:"repeat_password" binding:"required"`
}

// CreateUserInput is the admin form for new accounts
type CreateUserInput struct {
	RegisterInput
	Role identity.Role `json:"role" binding:"omitempty,oneof=CUSTOMER ADMIN"`
}

// UpdateUserInput is the admin form for existing accounts. Nil fields keep
// their value.
type UpdateUserInput struct {
	Username  *string        `json:"username" binding:"omitempty,min=6,max=50"`
	FirstName *string        `json:"first_name" binding:"omitempty,min=3,max=50"`
	LastName  *string        `json:"last_name" binding:"omitempty,min=3,max=50"`
	Role      *identity.Role `json:"role" binding:"omitempty,oneof=CUSTOMER ADMIN"`
	IsActive  *bool          `json:"is_active"`
}

// ListUsersInput filters the admin user listing
type ListUsersInput struct {
	Page     int           `form:"page"`
	PageSize int           `form:"page_size"`
	Order    string        `form:"order"`
	Search   string        `form:"search"`
	Role     identity.Role `form:"role" binding:"omitempty,oneof=CUSTOMER ADMIN"`
	IsActive *bool         `form:"is_active"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID          uuid.UUID     `json:"id"`
	Username    string        `json:"username"`
	FirstName   string        `json:"first_name"`
	LastName    string        `json:"last_name"`
	Email       string        `json:"email"`
	Role        identity.Role `json:"role"`
	IsActive    bool          `json:"is_active"`
	LastLoginAt *time.Time    `json:"last_login_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ToUserResponse maps a user to its public view
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// AuthResult is returned by sign-up and sign-in
type AuthResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// AddressInput carries address fields. On update, empty fields keep their value.
type AddressInput struct {
	Name           string `json:"name" binding:"omitempty,min=2"`
	Title          string `json:"title" binding:"omitempty,min=2"`
	Country        string `json:"country" binding:"omitempty,min=2"`
	City           string `json:"city" binding:"omitempty,min=2"`
	District       string `json:"district" binding:"omitempty,min=2"`
	Phone          string `json:"phone" binding:"omitempty,len=11"`
	IdentityNumber string `json:"identity_number" binding:"omitempty,len=11"`
	ZipCode        string `json:"zip_code" binding:"omitempty,len=5"`
	Address        string `json:"address" binding:"omitempty,min=10"`
}

func (in AddressInput) fields() identity.AddressFields {
	return identity.AddressFields{
		Name:           in.Name,
		Title:          in.Title,
		Country:        in.Country,
		City:           in.City,
		District:       in.District,
		Phone:          in.Phone,
		IdentityNumber: in.IdentityNumber,
		ZipCode:        in.ZipCode,
		Address:        in.Address,
	}
}

// AddressResponse is the view of a delivery address
type AddressResponse struct {
	ID             uuid.UUID  `json:"id"`
	UserID         *uuid.UUID `json:"user_id,omitempty"`
	SessionToken   string     `json:"session_token,omitempty"`
	Name           string     `json:"name"`
	Title          string     `json:"title"`
	Country        string     `json:"country"`
	City           string     `json:"city"`
	District       string     `json:"district"`
	Phone          string     `json:"phone"`
	IdentityNumber string     `json:"identity_number"`
	ZipCode        string     `json:"zip_code"`
	Address        string     `json:"address"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToAddressResponse maps an address to its view
func ToAddressResponse(a *identity.Address) AddressResponse {
	return AddressResponse{
		ID:             a.ID,
		UserID:         a.Owner.UserIDPtr(),
		SessionToken:   a.Owner.SessionToken,
		Name:           a.Name,
		Title:          a.Title,
		Country:        a.Country,
		City:           a.City,
		District:       a.District,
		Phone:          a.Phone,
		IdentityNumber: a.IdentityNumber,
		ZipCode:        a.ZipCode,
		Address:        a.Address,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
