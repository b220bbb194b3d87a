package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across the client layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeUnavailable  ErrorCode = "UNAVAILABLE"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches sentinel domain errors by code and message so wrapped copies
// produced by WrapError still satisfy errors.Is against the sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrTokenNotFound       = NewError(ErrCodeNotFound, "token not found")
	ErrRouteNotFound       = NewError(ErrCodeNotFound, "route not found")
	ErrInvalidCredentials  = NewError(ErrCodeUnauthorized, "invalid credentials")
	ErrUnauthorized        = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrMalformedResponse   = NewError(ErrCodeInvalid, "malformed response")
	ErrInvalidPayload      = NewError(ErrCodeInvalid, "invalid payload")
	ErrLoginInProgress     = NewError(ErrCodeConflict, "login already in progress")
	ErrLoginSuperseded     = NewError(ErrCodeConflict, "login superseded by logout")
	ErrEndpointUnavailable = NewError(ErrCodeUnavailable, "endpoint unavailable")
	ErrTooManyRedirects    = NewError(ErrCodeInternal, "too many redirects")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
