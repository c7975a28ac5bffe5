// Package goerror defines the structured error type shared across the
// application.
//
// Domain failures are returned as values carrying a user-facing message, a
// coarse type and a stable code; HTTP handlers map them to responses without
// inspecting underlying causes. Infrastructure faults wrap the original error
// and surface to callers as a generic server failure.
package goerror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound signals that the requested row/resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict signals a uniqueness or concurrent-update conflict.
	ErrConflict = errors.New("resource conflict")
)

// Type buckets errors by who is at fault.
type Type int

const (
	// TypeServer is an internal failure, never the caller's fault.
	TypeServer Type = iota
	// TypeBusiness is a domain rule rejection.
	TypeBusiness
	// TypeValidation is malformed or invalid caller input.
	TypeValidation
)

// String returns the wire representation of the type.
func (t Type) String() string {
	switch t {
	case TypeValidation:
		return "ERROR_TYPE_VALIDATION"
	case TypeBusiness:
		return "ERROR_TYPE_BUSINESS"
	case TypeServer:
		return "ERROR_TYPE_SERVER"
	default:
		return "ERROR_TYPE_UNKNOWN"
	}
}

// Code is a stable identifier mapped to an HTTP status.
type Code int

const (
	// CodeInternal is an internal or unclassified error.
	CodeInternal Code = iota
	// CodeInvalidFormat is an unparseable request body.
	CodeInvalidFormat
	// CodeInvalidInput is a request that parsed but failed validation.
	CodeInvalidInput
	// CodeNotFound is a missing resource.
	CodeNotFound
	// CodeConflict is a duplicate or conflicting write.
	CodeConflict
	// CodeTooManyRequest is rate limiting or an exhausted budget.
	CodeTooManyRequest
	// CodeUnauthorized is a failed authentication or credential check.
	CodeUnauthorized
	// CodeForbidden is a rejected authorization.
	CodeForbidden
)

// String returns the wire representation of the code.
func (c Code) String() string {
	switch c {
	case CodeInvalidFormat:
		return "ERROR_CODE_INVALID_FORMAT"
	case CodeInvalidInput:
		return "ERROR_CODE_INVALID_INPUT"
	case CodeNotFound:
		return "ERROR_CODE_NOT_FOUND"
	case CodeConflict:
		return "ERROR_CODE_CONFLICT"
	case CodeTooManyRequest:
		return "ERROR_CODE_TOO_MANY_REQUESTS"
	case CodeUnauthorized:
		return "ERROR_CODE_UNAUTHORIZED"
	case CodeForbidden:
		return "ERROR_CODE_FORBIDDEN"
	default:
		return "ERROR_CODE_INTERNAL"
	}
}

// Error is the structured error used across the application.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	if e.msg != "" {
		return e.msg
	}
	return e.errType.String()
}

// String returns a verbose form for logs.
func (e *Error) String() string {
	return fmt.Sprintf("type=%s code=%s msg=%q cause=%v",
		e.errType.String(), e.code.String(), e.msg, e.err)
}

// Msg returns the user-facing message.
func (e *Error) Msg() string { return e.msg }

// Type returns the error bucket.
func (e *Error) Type() Type { return e.errType }

// Code returns the stable code.
func (e *Error) Code() Code { return e.code }

// Fields returns per-field validation messages, if any.
func (e *Error) Fields() map[string]string { return e.fields }

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// StatusCode maps the code to an HTTP status.
func (e *Error) StatusCode() int {
	switch e.code {
	case CodeInvalidFormat:
		return http.StatusBadRequest
	case CodeInvalidInput:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeTooManyRequest:
		return http.StatusTooManyRequests
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NewServer wraps an infrastructure fault; callers see a generic message.
func NewServer(err error) error {
	return &Error{err: err, msg: "Internal server error", errType: TypeServer, code: CodeInternal}
}

// NewBusiness creates a domain rejection with a user-facing message.
func NewBusiness(msg string, code Code) error {
	return &Error{msg: msg, errType: TypeBusiness, code: code}
}

// NewInvalidInput creates a validation error, optionally with explicit
// field/message pairs when no validator error is available.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return &Error{err: err, msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput}
	}

	if len(kv)%2 != 0 {
		return &Error{msg: "Invalid request body", errType: TypeValidation, code: CodeInvalidFormat}
	}

	fields := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}

	return &Error{msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput, fields: fields}
}

// NewInvalidFormat creates an unparseable-request error.
func NewInvalidFormat(msgs ...string) error {
	msg := "Invalid request body"
	if len(msgs) > 0 {
		msg = msgs[0]
	}
	return &Error{msg: msg, errType: TypeValidation, code: CodeInvalidFormat}
}
