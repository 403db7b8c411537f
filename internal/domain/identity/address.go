package identity

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/storefront/backend/internal/domain/shared"
)

// AddressFields holds the editable attributes of an address
type AddressFields struct {
	Name           string
	Title          string
	Country        string
	City           string
	District       string
	Phone          string
	IdentityNumber string
	ZipCode        string
	Address        string
}

// Address is the delivery address of an owner. Each owner has at most one.
type Address struct {
	shared.BaseEntity
	Owner shared.Owner
	AddressFields
}

// NewAddress validates fields and binds the address to owner
func NewAddress(owner shared.Owner, fields AddressFields) (*Address, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	fields = fields.trimmed()
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	return &Address{
		BaseEntity:    shared.NewBaseEntity(),
		Owner:         owner,
		AddressFields: fields,
	}, nil
}

// Apply merges a partial update. Empty strings keep the current value.
func (a *Address) Apply(patch AddressFields) error {
	merged := a.AddressFields
	patch = patch.trimmed()
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&merged.Name, patch.Name)
	set(&merged.Title, patch.Title)
	set(&merged.Country, patch.Country)
	set(&merged.City, patch.City)
	set(&merged.District, patch.District)
	set(&merged.Phone, patch.Phone)
	set(&merged.IdentityNumber, patch.IdentityNumber)
	set(&merged.ZipCode, patch.ZipCode)
	set(&merged.Address, patch.Address)

	if err := merged.Validate(); err != nil {
		return err
	}
	a.AddressFields = merged
	a.Touch()
	return nil
}

// Validate checks the field length rules
func (f AddressFields) Validate() error {
	exact := []struct {
		field string
		value string
		n     int
	}{
		{"identity_number", f.IdentityNumber, 11},
		{"phone", f.Phone, 11},
		{"zip_code", f.ZipCode, 5},
	}
	for _, r := range exact {
		if utf8.RuneCountInString(r.value) != r.n {
			return shared.ErrInvalidInput.WithMessage(r.field + " must be exactly " + strconv.Itoa(r.n) + " characters")
		}
	}

	minimum := []struct {
		field string
		value string
		n     int
	}{
		{"name", f.Name, 2},
		{"title", f.Title, 2},
		{"country", f.Country, 2},
		{"city", f.City, 2},
		{"district", f.District, 2},
		{"address", f.Address, 10},
	}
	for _, r := range minimum {
		if utf8.RuneCountInString(r.value) < r.n {
			return shared.ErrInvalidInput.WithMessage(r.field + " must be at least " + strconv.Itoa(r.n) + " characters")
		}
	}
	return nil
}

func (f AddressFields) trimmed() AddressFields {
	return AddressFields{
		Name:           strings.TrimSpace(f.Name),
		Title:          strings.TrimSpace(f.Title),
		Country:        strings.TrimSpace(f.Country),
		City:           strings.TrimSpace(f.City),
		District:       strings.TrimSpace(f.District),
		Phone:          strings.TrimSpace(f.Phone),
		IdentityNumber: strings.TrimSpace(f.IdentityNumber),
		ZipCode:        strings.TrimSpace(f.ZipCode),
		Address:        strings.TrimSpace(f.Address),
	}
}
