package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an application error for transport mapping.
type Code string

const (
	CodeValidation   Code = "VALIDATION"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeInternal     Code = "INTERNAL"
)

// Error is a coded application error. Mutating operations return these instead
// of panicking; handlers translate the code into an HTTP status.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an error with an explicit code.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NotFound reports a missing resource.
func NotFound(resource, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
}

// InvalidInput reports a failed field validation.
func InvalidInput(field, message string) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf("%s: %s", field, message)}
}

// Conflict reports a state or uniqueness conflict.
func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// Unauthorized reports failed authentication.
func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// Forbidden reports an actor acting outside their permissions.
func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// CodeOf extracts the code from err, or CodeInternal for plain errors.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// HTTPStatus maps an error to the HTTP status handlers should respond with.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
