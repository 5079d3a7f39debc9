package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an application-specific error type. Message is safe to show to
// API callers; Cause is only logged.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New returns an AppError with no underlying cause.
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap attaches a code and a public message to err. err stays reachable
// through errors.Is and errors.As.
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Error code constants
const (
	CodeInternal          = "INTERNAL_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidArg        = "INVALID_ARGUMENT"
	CodeUpstream          = "UPSTREAM_ERROR"
	CodeConflict          = "CONFLICT" // Resource already exists (UNIQUE violation)
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeExpiredToken      = "EXPIRED_TOKEN"
	CodeRevokedToken      = "REVOKED_TOKEN"
	CodeVerificationInfra = "VERIFICATION_INFRASTRUCTURE_ERROR"
)

// CodeOf returns the code of the outermost AppError in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// HTTPStatus maps an error code to the response status used by the API.
func HTTPStatus(code string) int {
	switch code {
	case CodeInvalidArg:
		return http.StatusBadRequest
	case CodeUnauthenticated, CodeInvalidToken, CodeExpiredToken, CodeRevokedToken:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message to expose for err. Errors without an
// AppError in their chain, and internal errors, get a generic message.
func PublicMessage(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code == CodeInternal || appErr.Message == "" {
		return "Internal server error"
	}
	return appErr.Message
}
