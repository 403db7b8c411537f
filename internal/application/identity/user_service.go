package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// UserService handles user management operations. Writes are meant for
// admins; the router enforces the role.
type UserService struct {
	userRepo identity.UserRepository
	scope    TransactionScope
	hasher   identity.PasswordHasher
	revoker  TokenRevoker
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	scope TransactionScope,
	hasher identity.PasswordHasher,
	revoker TokenRevoker,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		scope:    scope,
		hasher:   hasher,
		revoker:  revoker,
		logger:   logger,
	}
}

// Create creates a new user
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, identity.ErrEmailTaken
	}

	user, err := identity.NewUser(input.Username, input.FirstName, input.LastName, input.Email, input.Password, s.hasher)
	if err != nil {
		return nil, err
	}
	if input.Role != "" {
		if err := user.SetRole(input.Role); err != nil {
			return nil, err
		}
	}
	if err := createUser(ctx, s.scope, user); err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	resp := ToUserResponse(user)
	return &resp, nil
}

// GetByID returns a user
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// List returns a page of users. Search matches email, username and names.
func (s *UserService) List(ctx context.Context, input ListUsersInput) (*shared.Paginated[UserResponse], error) {
	filter := shared.NewFilter(input.Page, input.PageSize, input.Order, input.Search)
	if input.Role != "" {
		filter.Filters["role"] = input.Role
	}
	if input.IsActive != nil {
		filter.Filters["is_active"] = *input.IsActive
	}

	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	page := shared.MapPaginated(shared.NewPaginated(users, total, filter), func(u identity.User) UserResponse {
		return ToUserResponse(&u)
	})
	return &page, nil
}

// Update applies the set fields of input
func (s *UserService) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Username != nil || input.FirstName != nil || input.LastName != nil {
		username, first, last := user.Username, user.FirstName, user.LastName
		if input.Username != nil {
			username = *input.Username
		}
		if input.FirstName != nil {
			first = *input.FirstName
		}
		if input.LastName != nil {
			last = *input.LastName
		}
		if err := user.UpdateProfile(username, first, last); err != nil {
			return nil, err
		}
	}
	if input.Role != nil {
		if err := user.SetRole(*input.Role); err != nil {
			return nil, err
		}
	}
	deactivated := false
	if input.IsActive != nil && *input.IsActive != user.IsActive {
		user.SetActive(*input.IsActive)
		deactivated = !*input.IsActive
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	log := logger.WithLogger(ctx, s.logger)
	if deactivated {
		if err := s.revoker.RevokeUser(ctx, id.String()); err != nil {
			log.Error("Failed to revoke tokens of deactivated user", zap.String("user_id", id.String()), zap.Error(err))
		}
	}
	log.Info("User updated", zap.String("user_id", id.String()))
	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete removes a user and revokes its tokens
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	log := logger.WithLogger(ctx, s.logger)
	if err := s.revoker.RevokeUser(ctx, id.String()); err != nil {
		log.Error("Failed to revoke tokens of deleted user", zap.String("user_id", id.String()), zap.Error(err))
	}
	log.Info("User deleted", zap.String("user_id", id.String()))
	return nil
}
