package application

import (
	"errors"
	"fmt"
)

// ErrorCode classifies application failures for transport adapters.
type ErrorCode string

const (
	CodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	CodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	CodeResourceNotFound  ErrorCode = "RESOURCE_NOT_FOUND"
	CodeForbidden         ErrorCode = "FORBIDDEN"
	CodeDuplicateResource ErrorCode = "DUPLICATE_RESOURCE"
	CodeDatabaseError     ErrorCode = "DATABASE_ERROR"
	CodeInternalError     ErrorCode = "INTERNAL_ERROR"
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the error type returned by command and query handlers.
type Error struct {
	Code             ErrorCode
	Message          string
	ValidationErrors []FieldError
	Details          map[string]any
	Err              error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail returns the error with an additional detail entry.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NewError creates an application error with the given code.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Unauthorized reports a missing or invalid caller identity.
func Unauthorized(message string) *Error {
	return NewError(CodeUnauthorized, message)
}

// ValidationFailed reports invalid input.
func ValidationFailed(message string, fields ...FieldError) *Error {
	return &Error{Code: CodeValidationFailed, Message: message, ValidationErrors: fields}
}

// NotFound reports a missing resource.
func NotFound(message string) *Error {
	return NewError(CodeResourceNotFound, message)
}

// Forbidden reports an operation the caller may not perform.
func Forbidden(message string) *Error {
	return NewError(CodeForbidden, message)
}

// Duplicate reports a conflicting existing resource.
func Duplicate(message string) *Error {
	return NewError(CodeDuplicateResource, message)
}

// DatabaseError wraps a storage failure.
func DatabaseError(message string, err error) *Error {
	return &Error{Code: CodeDatabaseError, Message: message, Err: err}
}

// CodeOf returns the error code carried by err, or CodeInternalError.
func CodeOf(err error) ErrorCode {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}

// AsError extracts an application error, wrapping unknown errors as internal.
func AsError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Code: CodeInternalError, Message: "internal error", Err: err}
}
