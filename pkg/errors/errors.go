package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Tokens
	ErrInvalidSigningMethod = fmt.Errorf("invalid token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token expired")
	ErrTokenNotYetValid     = fmt.Errorf("token is not valid yet")

	// Authorization
	ErrEmptyAuthHeader   = fmt.Errorf("authorization header is missing")
	ErrInvalidAuthHeader = fmt.Errorf("invalid authorization header format")
	ErrUnauthorized      = fmt.Errorf("unauthorized")
	ErrForbidden         = fmt.Errorf("access denied")

	// Context
	ErrEmployeeIDNotFoundInContext = fmt.Errorf("employee id not found in request context")

	// Common
	ErrNotFound   = fmt.Errorf("record not found")
	ErrBadRequest = fmt.Errorf("bad request")
	ErrConflict   = fmt.Errorf("record already exists")
)

// Kind classifies a failure independently of its transport status.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInsufficient Kind = "insufficient_resource"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindInternal     Kind = "internal"
)

// HttpError carries a client-facing message and the status it maps to.
type HttpError struct {
	Code    int
	Kind    Kind
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, ctx map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Kind: kindForCode(code), Message: message, Err: err, Context: ctx}
}

func NewValidationError(message string) *HttpError {
	return &HttpError{Code: http.StatusBadRequest, Kind: KindValidation, Message: message}
}

func NewNotFoundError(message string) *HttpError {
	return &HttpError{Code: http.StatusNotFound, Kind: KindNotFound, Message: message, Err: ErrNotFound}
}

// NewConflictError is rendered as 400: invariant violations are client errors.
func NewConflictError(message string) *HttpError {
	return &HttpError{Code: http.StatusBadRequest, Kind: KindConflict, Message: message}
}

func NewInsufficientBalanceError(message string, available, requested int) *HttpError {
	return &HttpError{
		Code:    http.StatusBadRequest,
		Kind:    KindInsufficient,
		Message: message,
		Details: map[string]int{"available": available, "requested": requested},
	}
}

func NewInternalError(message string, err error) *HttpError {
	return &HttpError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: message, Err: err}
}

func NewUnauthorizedError(message string) *HttpError {
	return &HttpError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: message, Err: ErrUnauthorized}
}

func NewForbiddenError(message string) *HttpError {
	return &HttpError{Code: http.StatusForbidden, Kind: KindForbidden, Message: message, Err: ErrForbidden}
}

// KindOf returns the kind of err, or "" when err is not an HttpError.
func KindOf(err error) Kind {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Kind
	}
	return ""
}

func kindForCode(code int) Kind {
	switch code {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	default:
		return KindInternal
	}
}
