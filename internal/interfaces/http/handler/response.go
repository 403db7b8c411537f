package handler

import "github.com/storefront/backend/internal/interfaces/http/dto"

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard response envelope with typed details
type APIResponse[T any] struct {
	Message string `json:"message" example:"OK"`
	Status  int    `json:"status" example:"200"`
	Code    string `json:"code" example:"OK"`
	Details T      `json:"details"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error envelope
type ErrorResponse struct {
	Message string `json:"message" example:"Resource not found"`
	Status  int    `json:"status" example:"404"`
	Code    string `json:"code" example:"NOT_FOUND"`
	Details any    `json:"details"`
}

// ValidationErrorResponse documents the 400 validation envelope
// @Description Validation error envelope with per-field details
type ValidationErrorResponse struct {
	Message string                 `json:"message" example:"Request validation failed"`
	Status  int                    `json:"status" example:"400"`
	Code    string                 `json:"code" example:"ERR_VALIDATION"`
	Details []dto.ValidationDetail `json:"details"`
}

// CountData represents count data in response
// @Description Count data
type CountData struct {
	Count int64 `json:"count"`
}
