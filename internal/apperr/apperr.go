// Package apperr defines the error taxonomy shared by services, middleware
// and handlers. Every domain failure is an *Error carrying a stable machine
// code; the rendering middleware maps codes to HTTP statuses and a
// {code, message} body. Anything that is not an *Error is masked as UNKNOWN.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidationFailed       Code = "VALIDATION_FAILED"
	CodeAuthenticationRequired Code = "AUTHENTICATION_REQUIRED"
	CodeInvalidCredentials     Code = "INVALID_CREDENTIALS"
	CodeAccessDenied           Code = "ACCESS_DENIED"
	CodeNotFound               Code = "NOT_FOUND"
	CodeConflict               Code = "CONFLICT"
	CodeRedirectIDExhausted    Code = "REDIRECT_ID_GENERATION_EXHAUSTED"
	CodeUnknown                Code = "UNKNOWN"
)

// Status maps a code to its HTTP status. Unrecognized codes fall through to
// 500 like CodeUnknown.
func (c Code) Status() int {
	switch c {
	case CodeValidationFailed:
		return http.StatusBadRequest
	case CodeAuthenticationRequired, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeAccessDenied:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches an underlying cause that is kept for logs but never rendered
// to clients.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

func Validation(message string) *Error {
	return New(CodeValidationFailed, message)
}

func AuthenticationRequired() *Error {
	return New(CodeAuthenticationRequired, "authentication required")
}

// InvalidCredentials is deliberately a single message for every credential
// failure (unknown email, wrong password, forged or expired token) so
// responses cannot be used to enumerate accounts.
func InvalidCredentials() *Error {
	return New(CodeInvalidCredentials, "invalid credentials")
}

// AccessDenied names the resource path so clients can tell which resource was
// refused, while a missing resource and a forbidden one stay indistinguishable.
func AccessDenied(path string) *Error {
	return New(CodeAccessDenied, fmt.Sprintf("access to %s is denied", path))
}

func NotFound(what string) *Error {
	return New(CodeNotFound, fmt.Sprintf("%s not found", what))
}

func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

// From extracts the *Error from err's chain, or wraps err as UNKNOWN.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Wrap(err, CodeUnknown, "internal server error")
}
