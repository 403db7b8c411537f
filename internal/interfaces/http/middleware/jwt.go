package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	AuthCookieKey = "Authorization"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenVerifier validates access tokens, revocation included
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	Verifier TokenVerifier
	// Optional lets requests without a token through; an invalid token is
	// still rejected
	Optional bool
	Logger   *zap.Logger
}

// RequireAuth rejects requests without a valid access token
func RequireAuth(verifier TokenVerifier, log *zap.Logger) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{Verifier: verifier, Logger: log})
}

// OptionalAuth authenticates the request when a token is present
func OptionalAuth(verifier TokenVerifier, log *zap.Logger) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{Verifier: verifier, Optional: true, Logger: log})
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		// Another middleware in the chain already authenticated the request
		if GetJWTClaims(c) != nil {
			c.Next()
			return
		}

		token := ExtractToken(c)
		if token == "" {
			if cfg.Optional {
				c.Next()
				return
			}
			abortWith(c, dto.NewDomainError(shared.ErrUnauthorized))
			return
		}

		claims, err := cfg.Verifier.Verify(c.Request.Context(), token)
		if err != nil {
			logger.WithLogger(c.Request.Context(), log).Warn("JWT authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			var de *shared.DomainError
			if !errors.As(err, &de) {
				de = identity.ErrTokenInvalid
			}
			abortWith(c, dto.NewDomainError(de))
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		logger.WithLogger(c.Request.Context(), log).Debug("JWT authentication successful",
			zap.String("user_id", claims.UserID),
			zap.String("role", string(claims.Role)),
		)
		c.Next()
	}
}

// ExtractToken reads the access token from the Authorization cookie, then
// from a Bearer header
func ExtractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AuthCookieKey); err == nil {
		if token := strings.TrimSpace(strings.TrimPrefix(cookie, BearerPrefix)); token != "" {
			return token
		}
	}
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
}

// RequireAdmin rejects callers without the admin role. It must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortWith(c, dto.NewDomainError(shared.ErrUnauthorized))
			return
		}
		if !claims.IsAdmin() {
			abortWith(c, dto.NewDomainError(shared.ErrForbidden))
			return
		}
		c.Next()
	}
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetActor returns the authenticated caller, or the anonymous actor
func GetActor(c *gin.Context) identity.Actor {
	claims := GetJWTClaims(c)
	if claims == nil {
		return identity.Actor{}
	}
	id, err := claims.GetUserUUID()
	if err != nil {
		return identity.Actor{}
	}
	return identity.Actor{UserID: id, Role: claims.Role}
}

// GetJWTUserID retrieves the user ID from JWT claims in context
func GetJWTUserID(c *gin.Context) uuid.UUID {
	return GetActor(c).UserID
}
