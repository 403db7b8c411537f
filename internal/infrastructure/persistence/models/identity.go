package models

import (
	"time"

	"github.com/storefront/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate
type UserModel struct {
	AggregateModel
	Username     string        `gorm:"type:varchar(50);not null"`
	FirstName    string        `gorm:"type:varchar(50);not null"`
	LastName     string        `gorm:"type:varchar(50);not null"`
	Email        string        `gorm:"type:varchar(255);not null"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	Role         identity.Role `gorm:"type:varchar(20);not null"`
	IsActive     bool          `gorm:"not null"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Username:          m.Username,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Role:              m.Role,
		IsActive:          m.IsActive,
		LastLoginAt:       m.LastLoginAt,
	}
}

// UserModelFromDomain builds the persistence model for u
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsActive:     u.IsActive,
		LastLoginAt:  u.LastLoginAt,
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}

// AddressModel is the persistence model for Address
type AddressModel struct {
	BaseModel
	OwnerColumns
	Name           string `gorm:"type:varchar(100);not null"`
	Title          string `gorm:"type:varchar(100);not null"`
	Country        string `gorm:"type:varchar(100);not null"`
	City           string `gorm:"type:varchar(100);not null"`
	District       string `gorm:"type:varchar(100);not null"`
	Phone          string `gorm:"type:char(11);not null"`
	IdentityNumber string `gorm:"type:char(11);not null"`
	ZipCode        string `gorm:"type:char(5);not null"`
	Address        string `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "addresses"
}

// ToDomain converts the persistence model to a domain Address
func (m *AddressModel) ToDomain() *identity.Address {
	return &identity.Address{
		BaseEntity: m.BaseModel.ToDomain(),
		Owner:      m.OwnerColumns.Owner(),
		AddressFields: identity.AddressFields{
			Name:           m.Name,
			Title:          m.Title,
			Country:        m.Country,
			City:           m.City,
			District:       m.District,
			Phone:          m.Phone,
			IdentityNumber: m.IdentityNumber,
			ZipCode:        m.ZipCode,
			Address:        m.Address,
		},
	}
}

// AddressModelFromDomain builds the persistence model for a
func AddressModelFromDomain(a *identity.Address) *AddressModel {
	m := &AddressModel{
		OwnerColumns:   OwnerColumnsFrom(a.Owner),
		Name:           a.Name,
		Title:          a.Title,
		Country:        a.Country,
		City:           a.City,
		District:       a.District,
		Phone:          a.Phone,
		IdentityNumber: a.IdentityNumber,
		ZipCode:        a.ZipCode,
		Address:        a.Address,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}

