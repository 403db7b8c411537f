package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 envelope carrying data
func (h *BaseHandler) Success(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, dto.NewSuccess(http.StatusOK, message, data))
}

// Created sends a 201 envelope carrying data
func (h *BaseHandler) Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccess(http.StatusCreated, message, data))
}

// HandleError converts err to its envelope. Domain errors keep their code
// and message; anything else becomes a generic 500 and the cause is logged.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if domainErr, ok := shared.AsDomainError(err); ok {
		h.respond(c, dto.NewDomainError(domainErr))
		return
	}

	logger.L(c.Request.Context()).Error("Request failed",
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)
	h.respond(c, dto.NewInternalError())
}

func (h *BaseHandler) respond(c *gin.Context, env dto.Envelope) {
	c.Set(logger.GinErrorCodeKey, env.Code)
	c.JSON(env.Status, env)
}

// bindJSON binds the request body, answering 400 on failure
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// bindQuery binds query parameters, answering 400 on failure
func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// parseUUIDParam reads a path parameter as a UUID
func (h *BaseHandler) parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.HandleError(c, shared.ErrInvalidInput.WithMessage("Invalid "+name+" format"))
		return uuid.Nil, false
	}
	return id, true
}

// requireUser returns the authenticated user id or answers 401
func (h *BaseHandler) requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID := middleware.GetJWTUserID(c)
	if userID == uuid.Nil {
		h.HandleError(c, shared.ErrUnauthorized)
		return uuid.Nil, false
	}
	return userID, true
}
