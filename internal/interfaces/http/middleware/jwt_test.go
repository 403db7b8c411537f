package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/identity"
)

func TestRequireAuth(t *testing.T) {
	authenticator, _ := newTestAuthenticator()
	token, user := issueToken(t, authenticator, identity.RoleCustomer)

	tests := []struct {
		name     string
		prepare  func(r *http.Request)
		wantCode int
		wantErr  string
	}{
		{
			name:     "bearer header",
			prepare:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
			wantCode: http.StatusOK,
		},
		{
			name:     "cookie",
			prepare:  func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AuthCookieKey, Value: token}) },
			wantCode: http.StatusOK,
		},
		{
			name:     "cookie with bearer prefix",
			prepare:  func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AuthCookieKey, Value: "Bearer " + token}) },
			wantCode: http.StatusOK,
		},
		{
			name:     "missing token",
			prepare:  func(*http.Request) {},
			wantCode: http.StatusUnauthorized,
			wantErr:  "UNAUTHORIZED",
		},
		{
			name:     "garbage token",
			prepare:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer not-a-token") },
			wantCode: http.StatusUnauthorized,
			wantErr:  "TOKEN_INVALID",
		},
		{
			name:     "wrong scheme",
			prepare:  func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") },
			wantCode: http.StatusUnauthorized,
			wantErr:  "UNAUTHORIZED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequireAuth(authenticator, nil))
			router.GET("/test", func(c *gin.Context) {
				actor := GetActor(c)
				assert.Equal(t, user.ID, actor.UserID)
				assert.Equal(t, identity.RoleCustomer, actor.Role)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantErr != "" {
				env := decodeEnvelope(t, rec)
				assert.Equal(t, tt.wantErr, env.Code)
				assert.Equal(t, tt.wantCode, env.Status)
			}
		})
	}
}

func TestRequireAuth_RevokedToken(t *testing.T) {
	authenticator, _ := newTestAuthenticator()
	token, _ := issueToken(t, authenticator, identity.RoleCustomer)

	claims, err := authenticator.Verify(context.Background(), token)
	require.NoError(t, err)
	require.NoError(t, authenticator.Revoke(context.Background(), claims))

	router := gin.New()
	router.Use(RequireAuth(authenticator, nil))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_INVALID", decodeEnvelope(t, rec).Code)
}

func TestOptionalAuth(t *testing.T) {
	authenticator, _ := newTestAuthenticator()
	token, user := issueToken(t, authenticator, identity.RoleCustomer)

	router := gin.New()
	router.Use(OptionalAuth(authenticator, nil))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetActor(c).UserID.String())
	})

	t.Run("anonymous passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "00000000-0000-0000-0000-000000000000", rec.Body.String())
	})

	t.Run("valid token sets the actor", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, user.ID.String(), rec.Body.String())
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer broken")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	authenticator, _ := newTestAuthenticator()
	customerToken, _ := issueToken(t, authenticator, identity.RoleCustomer)
	adminToken, _ := issueToken(t, authenticator, identity.RoleAdmin)

	router := gin.New()
	router.GET("/admin", RequireAuth(authenticator, nil), RequireAdmin(), func(c *gin.Context) {
		assert.True(t, GetActor(c).IsAdmin())
		c.Status(http.StatusOK)
	})
	router.GET("/unguarded", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("/admin", adminToken).Code)

	rec := do("/admin", customerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeEnvelope(t, rec).Code)

	assert.Equal(t, http.StatusUnauthorized, do("/unguarded", "").Code)
}
