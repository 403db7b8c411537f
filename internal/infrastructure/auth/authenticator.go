package auth

import (
	"context"

	"go.uber.org/zap"
)

// Authenticator verifies bearer tokens against the signature and the blacklist
type Authenticator struct {
	jwt       *JWTService
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthenticator creates an Authenticator. A nil blacklist disables revocation checks.
func NewAuthenticator(jwtService *JWTService, blacklist TokenBlacklist, logger *zap.Logger) *Authenticator {
	return &Authenticator{jwt: jwtService, blacklist: blacklist, logger: logger}
}

// Verify validates token and rejects revoked ones.
// A blacklist backend failure is logged and the token accepted.
func (a *Authenticator) Verify(ctx context.Context, token string) (*Claims, error) {
	claims, err := a.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	if a.blacklist == nil {
		return claims, nil
	}

	revoked, err := a.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		a.logger.Warn("token blacklist lookup failed", zap.Error(err))
		return claims, nil
	}
	if revoked {
		return nil, ErrTokenBlacklisted
	}

	revoked, err = a.blacklist.IsUserRevoked(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		a.logger.Warn("user revocation lookup failed", zap.Error(err))
		return claims, nil
	}
	if revoked {
		return nil, ErrTokenBlacklisted
	}
	return claims, nil
}

// Revoke blacklists a single token for the rest of its lifetime
func (a *Authenticator) Revoke(ctx context.Context, claims *Claims) error {
	if a.blacklist == nil || claims == nil {
		return nil
	}
	return a.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL())
}

// RevokeUser invalidates every token issued to userID so far
func (a *Authenticator) RevokeUser(ctx context.Context, userID string) error {
	if a.blacklist == nil {
		return nil
	}
	return a.blacklist.RevokeUser(ctx, userID, a.jwt.Expiration())
}

// JWT returns the underlying token service
func (a *Authenticator) JWT() *JWTService {
	return a.jwt
}
