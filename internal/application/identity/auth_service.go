package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// TokenIssuer signs access tokens for users
type TokenIssuer interface {
	Issue(user *identity.User) (*auth.Token, error)
}

// TokenRevoker invalidates tokens before they expire
type TokenRevoker interface {
	Revoke(ctx context.Context, claims *auth.Claims) error
	RevokeUser(ctx context.Context, userID string) error
}

// AuthService handles sign-up, sign-in and the caller's own account
type AuthService struct {
	userRepo identity.UserRepository
	scope    TransactionScope
	hasher   identity.PasswordHasher
	tokens   TokenIssuer
	revoker  TokenRevoker
	logger   *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	scope TransactionScope,
	hasher identity.PasswordHasher,
	tokens TokenIssuer,
	revoker TokenRevoker,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		scope:    scope,
		hasher:   hasher,
		tokens:   tokens,
		revoker:  revoker,
		logger:   logger,
	}
}

// Register creates a customer account and signs it in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	log := logger.WithLogger(ctx, s.logger)

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		log.Warn("Sign-up with registered email")
		return nil, identity.ErrEmailTaken
	}

	user, err := identity.NewUser(input.Username, input.FirstName, input.LastName, input.Email, input.Password, s.hasher)
	if err != nil {
		return nil, err
	}
	if err := createUser(ctx, s.scope, user); err != nil {
		return nil, err
	}

	log.Info("User registered", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

// Login authenticates by email and password
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	log := logger.WithLogger(ctx, s.logger)

	user, err := s.userRepo.FindByEmail(ctx, input.Identifier)
	if err != nil {
		return nil, err
	}
	if err := user.Authenticate(input.Password, s.hasher); err != nil {
		log.Warn("Rejected sign-in", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, err
	}

	// last_login_at is informational
	if err := s.userRepo.Save(ctx, user); err != nil {
		log.Error("Failed to record login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

// Logout revokes the presented token
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.revoker.Revoke(ctx, claims); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Me returns the caller's account
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// UpdateMe changes the caller's display fields
func (s *AuthService) UpdateMe(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(input.Username, input.FirstName, input.LastName); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword replaces the caller's password. Every token issued before
// the change is revoked and a fresh one returned.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) (*AuthResult, error) {
	log := logger.WithLogger(ctx, s.logger)

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.ChangePassword(input.OldPassword, input.NewPassword, input.RepeatPassword, s.hasher); err != nil {
		log.Warn("Rejected password change", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if err := s.revoker.RevokeUser(ctx, userID.String()); err != nil {
		log.Error("Failed to revoke previous tokens", zap.String("user_id", userID.String()), zap.Error(err))
	}

	log.Info("Password changed", zap.String("user_id", userID.String()))
	return s.issue(user)
}

func (s *AuthService) issue(user *identity.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		User:        ToUserResponse(user),
	}, nil
}

// createUser saves user and its registration event in one transaction
func createUser(ctx context.Context, scope TransactionScope, user *identity.User) error {
	err := scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Users().Save(ctx, user); err != nil {
			return err
		}
		return repos.Events().Publish(ctx, user.GetDomainEvents()...)
	})
	if err != nil {
		return err
	}
	user.ClearDomainEvents()
	return nil
}
