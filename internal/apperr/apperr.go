// Package apperr defines the error taxonomy shared by every service in the
// backend. Each error carries a stable machine-readable code and the HTTP
// status the API layer should answer with.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure.
type Code string

const (
	CodeValidation      Code = "VALIDATION"       // 400, user-correctable input
	CodeInvalidLocation Code = "INVALID_LOCATION" // 400, location text did not geocode
	CodeNotFound        Code = "NOT_FOUND"        // 404, well-formed query, no result
	CodeModel           Code = "MODEL"            // 500, risk pipeline failure
	CodeExternalService Code = "EXTERNAL_SERVICE" // 502, collaborator failure
	CodeInternal        Code = "INTERNAL"         // 500
)

// Error is a structured error with code, status, and optional details.
type Error struct {
	Code    Code
	Status  int
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidation creates a 400 error for malformed or missing input. The
// offending fields, if known, are recorded in the details.
func NewValidation(msg string, fields ...string) *Error {
	e := &Error{
		Code:    CodeValidation,
		Status:  http.StatusBadRequest,
		Message: msg,
	}
	if len(fields) > 0 {
		e.Details = map[string]any{"fields": fields}
	}
	return e
}

// NewInvalidLocation creates a 400 error for a location string that yields
// no geocoding result.
func NewInvalidLocation(location string) *Error {
	return &Error{
		Code:    CodeInvalidLocation,
		Status:  http.StatusBadRequest,
		Message: "Invalid location",
		Details: map[string]any{"location": location},
	}
}

// NewNotFound creates a 404 error for a query that matched nothing.
func NewNotFound(msg string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Status:  http.StatusNotFound,
		Message: msg,
	}
}

// NewModel creates a 500 error for a risk-pipeline failure. There is no
// fallback for these: a wrong risk tier is worse than an error.
func NewModel(err error) *Error {
	msg := "risk model failure"
	if err != nil {
		msg = fmt.Sprintf("risk model failure: %v", err)
	}
	return &Error{
		Code:    CodeModel,
		Status:  http.StatusInternalServerError,
		Message: msg,
	}
}

// NewExternalService creates a 502 error for a failed collaborator call.
func NewExternalService(service string, err error) *Error {
	msg := fmt.Sprintf("%s service failure", service)
	if err != nil {
		msg = fmt.Sprintf("%s service failure: %v", service, err)
	}
	return &Error{
		Code:    CodeExternalService,
		Status:  http.StatusBadGateway,
		Message: msg,
		Details: map[string]any{"service": service},
	}
}

// NewInternal creates a 500 error for unexpected failures.
func NewInternal(err error) *Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    CodeInternal,
		Status:  http.StatusInternalServerError,
		Message: msg,
	}
}

// Is reports whether err is (or wraps) an Error with the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// From coerces any error into an *Error, mapping unknown errors to INTERNAL.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewInternal(err)
}
