package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is the closed taxonomy of domain error codes. Every expected
// failure mode maps to exactly one code; codes are stable and appear on the
// wire in the error envelope.
type ErrorCode string

const (
	CodeValidation             ErrorCode = "validation_error"
	CodeNotFound               ErrorCode = "not_found"
	CodeConflict               ErrorCode = "conflict"
	CodeEquipmentOwnerMismatch ErrorCode = "equipment_owner_mismatch"
	CodeEquipmentSoftDeleted   ErrorCode = "equipment_soft_deleted"
	CodeInternal               ErrorCode = "internal_error"
	CodeBadGateway             ErrorCode = "bad_gateway"
)

// Error is a typed domain error. Services return these for every expected
// failure mode; panics are reserved for programmer errors.
//
// Validation and not-found messages are written to be end-user-safe and are
// surfaced directly. Internal and bad-gateway errors surface a generic
// message; the wrapped cause is for logs only.
type Error struct {
	Code    ErrorCode
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// PublicMessage is the message safe to show to the caller.
// Internal and gateway failures never leak their cause.
func (e *Error) PublicMessage() string {
	switch e.Code {
	case CodeInternal:
		return "internal error"
	case CodeBadGateway:
		return "upstream provider unavailable"
	}
	return e.Message
}

// HTTPStatus maps the code to its HTTP-equivalent status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeEquipmentOwnerMismatch, CodeEquipmentSoftDeleted:
		return http.StatusConflict
	case CodeBadGateway:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Validationf builds a validation_error with an end-user-safe message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a not_found error. Rows hidden by soft delete or owned by
// another user are reported with this same code; callers cannot distinguish
// "does not exist" from "not visible to you".
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflictf builds a conflict error (uniqueness violation).
func Conflictf(format string, args ...any) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// EquipmentOwnerMismatchf builds the error for referencing equipment owned by
// a different user.
func EquipmentOwnerMismatchf(format string, args ...any) *Error {
	return &Error{Code: CodeEquipmentOwnerMismatch, Message: fmt.Sprintf(format, args...)}
}

// EquipmentSoftDeletedf builds the error for referencing soft-deleted equipment.
func EquipmentSoftDeletedf(format string, args ...any) *Error {
	return &Error{Code: CodeEquipmentSoftDeleted, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected store or blob failure.
func Internal(msg string, cause error) *Error {
	return &Error{Code: CodeInternal, Message: msg, cause: cause}
}

// BadGateway wraps an external provider failure.
func BadGateway(msg string, cause error) *Error {
	return &Error{Code: CodeBadGateway, Message: msg, cause: cause}
}

// AsError extracts the *Error from an error chain, if any.
func AsError(err error) (*Error, bool) {
	var de *Error
	ok := errors.As(err, &de)
	return de, ok
}

// CodeOf returns the domain code carried by err, or CodeInternal when err is
// not a domain error. Nil maps to the empty code.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if de, ok := AsError(err); ok {
		return de.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given domain code.
func IsCode(err error, code ErrorCode) bool {
	de, ok := AsError(err)
	return ok && de.Code == code
}
