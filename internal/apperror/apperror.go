// Package apperror defines the domain error taxonomy shared by the service
// and handler layers.
//
// Services return these errors; the HTTP layer translates them to status
// codes in one place (handler.writeError). The sentinel values below are the
// contract between the two layers — errors.Is against a sentinel tells the
// handler which branch it is on without the service ever importing net/http.
package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// AppError carries a sentinel plus a human-readable message. It implements
// Unwrap so errors.Is/As keep working through any fmt.Errorf("%w") wrapping
// the service layer adds on top.
type AppError struct {
	Err     error  // one of the sentinels above
	Message string // safe to return to the client
	Field   string // optional: the field causing a single-field validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that a resource does not exist. Ownership-scoped lookups
// use this for foreign rows too, so a caller cannot distinguish "absent"
// from "owned by someone else".
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// ValidationFailed reports a single invalid field (path or query input).
// Request-body validation accumulates into a ValidationError instead.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation, e.g. an already-registered email.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// InvalidCredentials reports a login attempt against an unknown identity.
// The HTTP layer maps this to 400, not 401 — a known email with a wrong
// password is the Unauthorized case.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid credentials",
	}
}

// Unauthorized reports a failed authentication: wrong password, or a token
// that is missing, expired, or no longer resolves to a user.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// ValidationError accumulates per-field messages so a response can enumerate
// every failing field at once:
//
//	{"Name": ["'Name' must not be empty."], "Password": [...]}
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add records a failure message for a field. A field may fail more than one
// rule; messages accumulate in order.
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// Empty reports whether no rule failed.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// MustNotBeEmpty is the canonical empty-field message: 'Name' must not be empty.
func MustNotBeEmpty(field string) string {
	return fmt.Sprintf("'%s' must not be empty.", field)
}

// MaxLength is the canonical too-long message.
func MaxLength(field string, max int) string {
	return fmt.Sprintf("The length of '%s' must be %d characters or fewer.", field, max)
}

// MinLength is the canonical too-short message.
func MinLength(field string, min int) string {
	return fmt.Sprintf("The length of '%s' must be at least %d characters.", field, min)
}
