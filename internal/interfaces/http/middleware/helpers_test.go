package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestAuthenticator() (*auth.Authenticator, *auth.InMemoryTokenBlacklist) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	return auth.NewAuthenticator(jwtService, blacklist, zap.NewNop()), blacklist
}

func issueToken(t *testing.T, a *auth.Authenticator, role identity.Role) (string, *identity.User) {
	t.Helper()
	u := &identity.User{Username: "shopper01", Email: "shopper@example.com", Role: role, IsActive: true}
	u.ID = uuid.New()
	tok, err := a.JWT().Issue(u)
	require.NoError(t, err)
	return tok.AccessToken, u
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) dto.Envelope {
	t.Helper()
	var env dto.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}
