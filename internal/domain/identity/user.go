package identity

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/storefront/backend/internal/domain/shared"
)

// Role is the authorization level of a user
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// IsValid reports whether the role is known
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
)

// PasswordHasher hashes and verifies user passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// User is a registered account
type User struct {
	shared.BaseAggregateRoot
	Username     string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	LastLoginAt  *time.Time
}

// NewUser creates an active customer account with a hashed password
func NewUser(username, firstName, lastName, email, password string, hasher PasswordHasher) (*User, error) {
	u := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Role:              RoleCustomer,
		IsActive:          true,
	}
	if err := u.UpdateProfile(username, firstName, lastName); err != nil {
		return nil, err
	}
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	u.Email = email
	if err := u.SetPassword(password, hasher); err != nil {
		return nil, err
	}
	u.Version = 1
	u.AddDomainEvent(NewUserRegisteredEvent(u))
	return u, nil
}

// UpdateProfile changes the display fields of the account
func (u *User) UpdateProfile(username, firstName, lastName string) error {
	username = strings.TrimSpace(username)
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)

	if err := validateUsername(username); err != nil {
		return err
	}
	if err := validatePersonName("First name", firstName); err != nil {
		return err
	}
	if err := validatePersonName("Last name", lastName); err != nil {
		return err
	}
	u.Username = username
	u.FirstName = firstName
	u.LastName = lastName
	u.touch()
	return nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string, hasher PasswordHasher) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.touch()
	return nil
}

// ChangePassword verifies the current password before replacing it
func (u *User) ChangePassword(oldPassword, newPassword, repeat string, hasher PasswordHasher) error {
	if !hasher.Verify(u.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}
	if newPassword != repeat {
		return ErrPasswordMismatch
	}
	return u.SetPassword(newPassword, hasher)
}

// Authenticate checks that the account may log in with the given password
func (u *User) Authenticate(password string, hasher PasswordHasher) error {
	if !u.IsActive {
		return ErrUserInactive
	}
	if !hasher.Verify(u.PasswordHash, password) {
		return ErrInvalidCredentials
	}
	now := time.Now()
	u.LastLoginAt = &now
	return nil
}

// SetRole changes the role of the account
func (u *User) SetRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be CUSTOMER or ADMIN")
	}
	u.Role = role
	u.touch()
	return nil
}

// SetActive activates or deactivates the account
func (u *User) SetActive(active bool) {
	u.IsActive = active
	u.touch()
}

// IsAdmin reports whether the user holds the elevated role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) touch() {
	u.Touch()
	u.IncrementVersion()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateUsername(username string) error {
	if n := utf8.RuneCountInString(username); n < 6 || n > 50 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be between 6 and 50 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePersonName(field, name string) error {
	if n := utf8.RuneCountInString(name); n < 3 || n > 50 {
		return shared.NewDomainError("INVALID_NAME", field+" must be between 3 and 50 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 || !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
