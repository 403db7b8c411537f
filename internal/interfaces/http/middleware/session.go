package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// OwnerKey is the gin context key of the resolved shared.Owner
const OwnerKey = "owner"

// SessionQueryParam lets clients without cookies pass their session token
const SessionQueryParam = "session_token"

// maxSessionTokenLength bounds client-supplied session tokens
const maxSessionTokenLength = 128

// TokenGenerator creates anonymous session tokens
type TokenGenerator interface {
	Generate() (string, error)
}

// SessionConfig holds configuration for the owner middleware
type SessionConfig struct {
	Session   config.SessionConfig
	Cookie    config.CookieConfig
	Generator TokenGenerator
	Logger    *zap.Logger
}

// Owner resolves who the request acts for. A signed-in user always wins;
// otherwise the session token comes from the cookie or the query string,
// and a fresh one is issued as an httponly cookie when both are empty.
// It must run after OptionalAuth.
func Owner(cfg SessionConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		var owner shared.Owner
		if actor := GetActor(c); actor.IsAuthenticated() {
			owner = shared.UserOwner(actor.UserID)
		} else {
			token := sessionTokenFrom(c, cfg.Session.CookieName)
			if token == "" {
				generated, err := cfg.Generator.Generate()
				if err != nil {
					logger.WithLogger(c.Request.Context(), log).Error("Failed to issue session token", zap.Error(err))
					abortWith(c, dto.NewInternalError())
					return
				}
				token = generated
				SetCookie(c, cfg.Cookie, cfg.Session.CookieName, token, cfg.Session.MaxAge)
			}
			owner = shared.SessionOwner(token)
		}

		c.Set(OwnerKey, owner)
		c.Request = c.Request.WithContext(logger.WithOwner(c.Request.Context(), owner))
		c.Next()
	}
}

func sessionTokenFrom(c *gin.Context, cookieName string) string {
	token, err := c.Cookie(cookieName)
	if err != nil || token == "" {
		token = c.Query(SessionQueryParam)
	}
	token = strings.TrimSpace(token)
	if len(token) > maxSessionTokenLength {
		return ""
	}
	return token
}

// GetOwner returns the owner resolved by Owner
func GetOwner(c *gin.Context) shared.Owner {
	if v, ok := c.Get(OwnerKey); ok {
		if owner, ok := v.(shared.Owner); ok {
			return owner
		}
	}
	return shared.Owner{}
}

// SetCookie writes an httponly cookie using the configured attributes.
// A non-positive maxAge deletes the cookie.
func SetCookie(c *gin.Context, cfg config.CookieConfig, name, value string, maxAge time.Duration) {
	seconds := int(maxAge.Seconds())
	if maxAge <= 0 {
		seconds = -1
	}
	c.SetSameSite(sameSite(cfg.SameSite))
	c.SetCookie(name, value, seconds, cfg.Path, cfg.Domain, cfg.Secure, true)
}

func sameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
