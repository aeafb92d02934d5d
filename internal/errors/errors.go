package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error kinds, written to clients as the "type" field.
const (
	ErrCodeValidation    = "validation_error"
	ErrCodeContentPolicy = "content_policy_error"
	ErrCodeTimeout       = "timeout_error"
	ErrCodeAPI           = "api_error"
	ErrCodeParse         = "parse_error"
	ErrCodeSchema        = "schema_error"
	ErrCodeInternal      = "server_error"
	ErrCodeConfig        = "config_error"
	ErrCodeNotFound      = "not_found"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeConflict      = "conflict"
	ErrCodeRateLimited   = "rate_limited"
	ErrCodeBadRequest    = "bad_request"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // error kind, e.g. "validation_error"
	Message string // human-readable message shown to the caller
	Status  int    // HTTP status code
	Details any    // optional structured details (field errors)
	Err     error  // wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err carries an AppError of the given kind.
func IsCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// NewNotFoundError creates a new not_found error
func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
	}
}

// NewValidationError creates a new validation_error for a single field.
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: "Validation failed",
		Status:  http.StatusBadRequest,
		Details: []FieldError{{Field: field, Message: reason}},
	}
}

// FieldError is one entry of a validation failure's details.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewValidationErrors creates a validation_error carrying several field errors.
func NewValidationErrors(details []FieldError) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: "Validation failed",
		Status:  http.StatusBadRequest,
		Details: details,
	}
}

// NewContentPolicyError is returned when a prompt matches the denylist.
func NewContentPolicyError() *AppError {
	return &AppError{
		Code:    ErrCodeContentPolicy,
		Message: "Invalid content detected in prompt",
		Status:  http.StatusBadRequest,
	}
}

// NewTimeoutError is returned when the upstream call exceeds its deadline.
func NewTimeoutError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeTimeout,
		Message: "Request timeout. Please try again.",
		Status:  http.StatusRequestTimeout,
		Err:     err,
	}
}

// NewAPIError carries a non-2xx upstream status and message through unchanged.
func NewAPIError(status int, message string) *AppError {
	return &AppError{
		Code:    ErrCodeAPI,
		Message: message,
		Status:  status,
	}
}

// NewParseError is returned when no JSON could be recovered from model output.
func NewParseError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeParse,
		Message: "The AI response could not be read. Please try again.",
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

// NewSchemaError is returned when the model output held no usable questions.
func NewSchemaError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeSchema,
		Message: "No valid questions were generated. Try changing your topic.",
		Status:  http.StatusUnprocessableEntity,
		Err:     err,
	}
}

// NewConfigError is returned when the server is missing required configuration.
func NewConfigError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConfig,
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}

// NewInternalError creates a new server_error
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewUnauthorizedError creates an unauthorized error.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// NewConflictError creates a conflict error.
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  http.StatusConflict,
	}
}

// NewRateLimitedError creates a rate_limited error.
func NewRateLimitedError() *AppError {
	return &AppError{
		Code:    ErrCodeRateLimited,
		Message: "Too many requests. Please try again later.",
		Status:  http.StatusTooManyRequests,
	}
}

// NewBadRequestError creates a new bad_request error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}
