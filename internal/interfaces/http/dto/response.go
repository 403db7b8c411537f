package dto

import (
	"net/http"

	"github.com/storefront/backend/internal/domain/shared"
)

// CodeOK is the code of every successful response
const CodeOK = "OK"

// Envelope is the body of every API response. For successes Details
// carries the payload; for validation failures it lists the fields.
type Envelope struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Details any    `json:"details"`
}

// ValidationDetail describes one rejected request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewSuccess creates a 2xx envelope
func NewSuccess(status int, message string, details any) Envelope {
	if message == "" {
		message = http.StatusText(status)
	}
	return Envelope{Message: message, Status: status, Code: CodeOK, Details: details}
}

// NewError creates an error envelope whose status derives from code
func NewError(code, message string) Envelope {
	return Envelope{Message: message, Status: StatusFor(code), Code: code}
}

// NewDomainError creates the envelope of a domain error
func NewDomainError(err *shared.DomainError) Envelope {
	return NewError(err.Code, err.Message)
}

// NewInternalError creates the envelope of an unexpected failure. The
// cause never reaches the client.
func NewInternalError() Envelope {
	return NewError(ErrCodeInternal, InternalErrorMessage)
}

// NewValidationError creates a 400 envelope listing invalid fields
func NewValidationError(message string, details []ValidationDetail) Envelope {
	if message == "" {
		message = "Request validation failed"
	}
	return Envelope{
		Message: message,
		Status:  http.StatusBadRequest,
		Code:    ErrCodeValidation,
		Details: details,
	}
}
