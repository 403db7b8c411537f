package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// AuthService is the account use-case surface the handler depends on
type AuthService interface {
	Register(ctx context.Context, input identityapp.RegisterInput) (*identityapp.AuthResult, error)
	Login(ctx context.Context, input identityapp.LoginInput) (*identityapp.AuthResult, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Me(ctx context.Context, userID uuid.UUID) (*identityapp.UserResponse, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, input identityapp.UpdateProfileInput) (*identityapp.UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input identityapp.ChangePasswordInput) (*identityapp.AuthResult, error)
}

// AuthHandler handles sign-up, sign-in and profile endpoints
type AuthHandler struct {
	BaseHandler
	service AuthService
	cookie  config.CookieConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthService, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{service: service, cookie: cookie}
}

// SignUp godoc
// @ID           signUp
// @Summary      Register an account
// @Description  Creates a customer account and signs it in. The access token is also set as the Authorization cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RegisterInput true "Registration form"
// @Success      201 {object} APIResponse[identity.AuthResult]
// @Failure      400 {object} ValidationErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/sign-up [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req identityapp.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setToken(c, result)
	h.Created(c, "Account created", result)
}

// SignIn godoc
// @ID           signIn
// @Summary      Sign in
// @Description  Authenticates by email and password and sets the Authorization cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.LoginInput true "Credentials"
// @Success      200 {object} APIResponse[identity.AuthResult]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req identityapp.LoginInput
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setToken(c, result)
	h.Success(c, "Signed in", result)
}

// SignOut godoc
// @ID           signOut
// @Summary      Sign out
// @Description  Revokes the current access token and clears the Authorization cookie
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[any]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/sign-out [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.HandleError(c, shared.ErrUnauthorized)
		return
	}

	if err := h.service.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}

	middleware.SetCookie(c, h.cookie, middleware.AuthCookieKey, "", 0)
	h.Success(c, "Signed out", nil)
}

// Me godoc
// @ID           getMe
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	user, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "", user)
}

// UpdateMe godoc
// @ID           updateMe
// @Summary      Update current account
// @Description  Changes username and display names of the caller
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.UpdateProfileInput true "Profile fields"
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ValidationErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [put]
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req identityapp.UpdateProfileInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.UpdateMe(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Profile updated", user)
}

// ChangePassword godoc
// @ID           changePassword
// @Summary      Change password
// @Description  Verifies the old password, stores the new one and issues a fresh token. Older tokens stop working.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.ChangePasswordInput true "Password change form"
// @Success      200 {object} APIResponse[identity.AuthResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req identityapp.ChangePasswordInput
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.ChangePassword(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setToken(c, result)
	h.Success(c, "Password changed", result)
}

func (h *AuthHandler) setToken(c *gin.Context, result *identityapp.AuthResult) {
	middleware.SetCookie(c, h.cookie, middleware.AuthCookieKey, result.AccessToken, time.Until(result.ExpiresAt))
}
