package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
)

type failingGenerator struct{}

func (failingGenerator) Generate() (string, error) { return "", errors.New("entropy exhausted") }

func ownerRouter(t *testing.T, gen TokenGenerator, seen *shared.Owner) *gin.Engine {
	t.Helper()
	authenticator, _ := newTestAuthenticator()
	router := gin.New()
	router.Use(OptionalAuth(authenticator, nil), Owner(SessionConfig{
		Session:   config.SessionConfig{CookieName: "session_token", MaxAge: time.Hour},
		Cookie:    config.CookieConfig{Path: "/", SameSite: "lax"},
		Generator: gen,
	}))
	router.GET("/test", func(c *gin.Context) {
		*seen = GetOwner(c)
		ctxOwner, ok := logger.GetOwner(c.Request.Context())
		assert.True(t, ok)
		assert.Equal(t, *seen, ctxOwner)
		c.Status(http.StatusOK)
	})
	return router
}

func TestOwner_IssuesSessionCookie(t *testing.T) {
	var seen shared.Owner
	router := ownerRouter(t, auth.NewSessionTokenGenerator(32), &seen)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.True(t, seen.IsAnonymous())
	assert.Len(t, seen.SessionToken, 32)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session_token", cookies[0].Name)
	assert.Equal(t, seen.SessionToken, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}

func TestOwner_ReusesExistingToken(t *testing.T) {
	var seen shared.Owner
	router := ownerRouter(t, auth.NewSessionTokenGenerator(32), &seen)

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: "cookie-token"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, shared.SessionOwner("cookie-token"), seen)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("query parameter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test?session_token=query-token", nil))

		assert.Equal(t, shared.SessionOwner("query-token"), seen)
	})
}

func TestOwner_UserWinsOverSession(t *testing.T) {
	authenticator, _ := newTestAuthenticator()
	token, user := issueToken(t, authenticator, identity.RoleCustomer)

	var seen shared.Owner
	router := ownerRouter(t, auth.NewSessionTokenGenerator(32), &seen)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "cookie-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, shared.UserOwner(user.ID), seen)
}

func TestOwner_GeneratorFailure(t *testing.T) {
	var seen shared.Owner
	router := ownerRouter(t, failingGenerator{}, &seen)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "An unexpected error occurred", decodeEnvelope(t, rec).Message)
}

func TestSetCookie_Delete(t *testing.T) {
	router := gin.New()
	router.GET("/out", func(c *gin.Context) {
		SetCookie(c, config.CookieConfig{Path: "/", SameSite: "strict", Secure: true}, AuthCookieKey, "", 0)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/out", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AuthCookieKey, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
}
