package errs

import (
	"errors"
	"net/http"
	"strings"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindTooLarge     Kind = "too_large"
	KindUnsupported  Kind = "unsupported"
	KindRateLimited  Kind = "rate_limited"
	KindUnknown      Kind = "unknown"
)

type AppError struct {
	Code     int
	Kind     Kind
	Messages []string
	Details  string
	Err      error
}

func (e *AppError) Error() string {
	return strings.Join(e.Messages, ", ")
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy so shared errors below stay untouched.
func (e *AppError) WithDetails(details string) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

func InternalError(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Kind:     KindUnknown,
		Messages: []string{"Unexpected internal server error occurred"},
		Err:      err,
	}
}

func UserError(message string, code int) *AppError {
	return &AppError{
		Code:     code,
		Kind:     kindFromCode(code),
		Messages: []string{message},
	}
}

func UserErrors(messages []string, code int) *AppError {
	return &AppError{
		Code:     code,
		Kind:     kindFromCode(code),
		Messages: messages,
	}
}

func Validation(message string) *AppError {
	return UserError(message, http.StatusBadRequest)
}

func Validations(messages []string) *AppError {
	return UserErrors(messages, http.StatusBadRequest)
}

func Conflict(message string) *AppError {
	return UserError(message, http.StatusConflict)
}

func NotFound(message string) *AppError {
	return UserError(message, http.StatusNotFound)
}

func Unauthorized(message string) *AppError {
	return UserError(message, http.StatusUnauthorized)
}

func Forbidden(message string) *AppError {
	return UserError(message, http.StatusForbidden)
}

func kindFromCode(code int) Kind {
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusConflict:
		return KindConflict
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusRequestEntityTooLarge:
		return KindTooLarge
	case http.StatusUnsupportedMediaType:
		return KindUnsupported
	case http.StatusTooManyRequests:
		return KindRateLimited
	}
	return KindUnknown
}

// KindOf reports the kind of an AppError anywhere in the chain, KindUnknown otherwise.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// common errors that are re-used in different places in the codebase
var NoAccess = Forbidden("You don't have access to this resource")
var MissingFile = Validation("Required file is missing")
var InvalidID = Validation("Invalid ID provided. It must be a valid UUID.")
