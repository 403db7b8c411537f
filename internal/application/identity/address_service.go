package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AddressService manages the single delivery address of an owner
type AddressService struct {
	addressRepo identity.AddressRepository
	logger      *zap.Logger
}

// NewAddressService creates a new address service
func NewAddressService(addressRepo identity.AddressRepository, logger *zap.Logger) *AddressService {
	return &AddressService{addressRepo: addressRepo, logger: logger}
}

// Create stores the owner's address. A second one is ErrAddressExists.
func (s *AddressService) Create(ctx context.Context, owner shared.Owner, input AddressInput) (*AddressResponse, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	_, err := s.addressRepo.FindByOwner(ctx, owner)
	switch {
	case err == nil:
		return nil, identity.ErrAddressExists
	case !errors.Is(err, identity.ErrAddressNotFound):
		return nil, fmt.Errorf("find address: %w", err)
	}

	address, err := identity.NewAddress(owner, input.fields())
	if err != nil {
		return nil, err
	}
	if err := s.addressRepo.Save(ctx, address); err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Address created", zap.String("address_id", address.ID.String()))
	resp := ToAddressResponse(address)
	return &resp, nil
}

// GetCurrent returns the owner's address
func (s *AddressService) GetCurrent(ctx context.Context, owner shared.Owner) (*AddressResponse, error) {
	address, err := s.addressRepo.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	resp := ToAddressResponse(address)
	return &resp, nil
}

// GetByID returns an address of owner. Addresses of other owners read as
// not found.
func (s *AddressService) GetByID(ctx context.Context, owner shared.Owner, id uuid.UUID) (*AddressResponse, error) {
	address, err := s.addressRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !address.Owner.Matches(owner) {
		return nil, identity.ErrAddressNotFound
	}
	resp := ToAddressResponse(address)
	return &resp, nil
}

// Update merges input into the owner's address
func (s *AddressService) Update(ctx context.Context, owner shared.Owner, input AddressInput) (*AddressResponse, error) {
	address, err := s.addressRepo.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := address.Apply(input.fields()); err != nil {
		return nil, err
	}
	if err := s.addressRepo.Save(ctx, address); err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Address updated", zap.String("address_id", address.ID.String()))
	resp := ToAddressResponse(address)
	return &resp, nil
}
