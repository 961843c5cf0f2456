package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/astrahq/auth-service/internal/constants"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// Authentication errors. Wrong password and unknown email share one
	// error so the response never reveals whether the account exists.
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", constants.MsgWrongCredentials)
	ErrEmailNotConfirmed  = NewDomainError("EMAIL_NOT_CONFIRMED", constants.MsgEmailNotVerified)
	ErrAccountDisabled    = NewDomainError("ACCOUNT_DISABLED", constants.MsgAccountDisabled)
	ErrUnauthorized       = NewDomainError("UNAUTHORIZED", constants.MsgUnauthorized)
	ErrInvalidAccessToken = NewDomainError("INVALID_ACCESS_TOKEN", "invalid or expired token")

	// Lookup errors
	ErrUserNotFound      = NewDomainError("USER_NOT_FOUND", constants.MsgUserNotFound)
	ErrEmailNotFound     = NewDomainError("EMAIL_NOT_FOUND", constants.MsgEmailNotFound)
	ErrInvalidResetToken = NewDomainError("INVALID_RESET_TOKEN", constants.MsgInvalidToken)

	// System errors
	ErrInternal = NewDomainError("INTERNAL_ERROR", constants.MsgInternalError)
)

// ValidationError carries per-field messages for 400 responses. Each
// operation builds one from an explicit validation pass rather than a
// dynamic rule chain.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// NewValidationError creates an empty validation error ready for Add calls.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add appends a message for a field and returns the error for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields[field] = append(e.Fields[field], message)
	return e
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// AsValidation extracts a ValidationError if err is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// ToHTTPStatus maps domain errors to HTTP status codes.
// This should only be used in the handler/presentation layer.
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if _, ok := AsValidation(err); ok {
		return http.StatusBadRequest
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 401 Unauthorized
	case "INVALID_CREDENTIALS", "EMAIL_NOT_CONFIRMED", "ACCOUNT_DISABLED",
		"UNAUTHORIZED", "INVALID_ACCESS_TOKEN":
		return http.StatusUnauthorized

	// 404 Not Found
	case "USER_NOT_FOUND", "EMAIL_NOT_FOUND", "INVALID_RESET_TOKEN":
		return http.StatusNotFound

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
