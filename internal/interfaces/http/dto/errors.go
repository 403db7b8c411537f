package dto

import "net/http"

// Transport-level error codes. Domain error codes travel unchanged.
const (
	ErrCodeValidation       = "ERR_VALIDATION"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeRouteNotFound    = "ROUTE_NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeRequestTooLarge  = "REQUEST_TOO_LARGE"
	ErrCodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	ErrCodeUnavailable      = "SERVICE_UNAVAILABLE"
)

// InternalErrorMessage is the only message clients see for unexpected failures
const InternalErrorMessage = "An unexpected error occurred"

// errorCodeHTTPStatus maps the codes that do not answer with 400
var errorCodeHTTPStatus = map[string]int{
	// 401
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"USER_INACTIVE":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,

	// 403
	"FORBIDDEN": http.StatusForbidden,

	// 404
	"NOT_FOUND":           http.StatusNotFound,
	"CART_NOT_FOUND":      http.StatusNotFound,
	"CART_ITEM_NOT_FOUND": http.StatusNotFound,
	"ADDRESS_NOT_FOUND":   http.StatusNotFound,
	"ORDER_NOT_FOUND":     http.StatusNotFound,
	"PRODUCT_NOT_FOUND":   http.StatusNotFound,
	"CATEGORY_NOT_FOUND":  http.StatusNotFound,
	"USER_NOT_FOUND":      http.StatusNotFound,
	"COMPLAINT_NOT_FOUND": http.StatusNotFound,

	// transport
	ErrCodeRouteNotFound:    http.StatusNotFound,
	ErrCodeMethodNotAllowed: http.StatusMethodNotAllowed,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:      http.StatusTooManyRequests,
	ErrCodeUnavailable:      http.StatusServiceUnavailable,
	ErrCodeInternal:         http.StatusInternalServerError,
}

// StatusFor returns the HTTP status of an error code. Every domain code
// absent from the table is a client error.
func StatusFor(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusBadRequest
}
