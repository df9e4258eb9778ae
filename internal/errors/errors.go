package errors

import (
	"errors"
	"fmt"
)

// Code represents an error code for categorizing errors
type Code string

const (
	// CodeUnknown indicates an unknown error
	CodeUnknown Code = "unknown"

	// CodeInvalidArgument indicates client specified an invalid argument
	CodeInvalidArgument Code = "invalid_argument"

	// CodeNotFound indicates a requested resource was not found
	CodeNotFound Code = "not_found"

	// CodeAlreadyExists indicates an attempt to create a resource that already exists
	CodeAlreadyExists Code = "already_exists"

	// CodeInvalidClass indicates a character class outside the known set
	CodeInvalidClass Code = "invalid_class"

	// CodeInvalidRole indicates a character role outside the known set
	CodeInvalidRole Code = "invalid_role"

	// CodeCharacterMismatch indicates a character that does not belong to the player
	CodeCharacterMismatch Code = "character_mismatch"

	// CodeAlreadyAssigned indicates the player already holds an assignment on the raid
	CodeAlreadyAssigned Code = "already_assigned"

	// CodeNotEligible indicates a swap precondition on the player's current status is unmet
	CodeNotEligible Code = "not_eligible"

	// CodeInvalidTransition indicates a roster status change outside the transition table
	CodeInvalidTransition Code = "invalid_transition"

	// CodeInvalidState indicates a swap request in the wrong state for the operation
	CodeInvalidState Code = "invalid_state"

	// CodeMissingAcceptor indicates an approval attempted before anyone accepted
	CodeMissingAcceptor Code = "missing_acceptor"

	// CodePermissionDenied indicates the caller does not have permission
	CodePermissionDenied Code = "permission_denied"

	// CodeInternal indicates internal system error
	CodeInternal Code = "internal"
)

// Error represents an application error with code and metadata
type Error struct {
	// Code is the error code
	Code Code

	// Message is the error message
	Message string

	// Cause is the wrapped error
	Cause error

	// Meta contains additional context
	Meta map[string]any
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta adds metadata to the error (builder pattern)
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New creates a new error with the given code and message
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new error with formatted message
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	// If it's already our error type, preserve the code
	var appErr *Error
	if errors.As(err, &appErr) {
		return &Error{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
			Meta:    copyMeta(appErr.Meta),
		}
	}

	// Otherwise, create unknown error
	return &Error{
		Code:    CodeUnknown,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error with a specific code
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := Wrap(err, message)
	wrapped.Code = code
	return wrapped
}

// Helper functions for common error types

// NotFound creates a not found error
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// NotFoundf creates a formatted not found error
func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

// InvalidArgument creates an invalid argument error
func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

// InvalidArgumentf creates a formatted invalid argument error
func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// AlreadyExists creates an already exists error
func AlreadyExists(message string) *Error {
	return New(CodeAlreadyExists, message)
}

// AlreadyExistsf creates a formatted already exists error
func AlreadyExistsf(format string, args ...any) *Error {
	return Newf(CodeAlreadyExists, format, args...)
}

// InvalidClassf creates a formatted invalid class error
func InvalidClassf(format string, args ...any) *Error {
	return Newf(CodeInvalidClass, format, args...)
}

// InvalidRolef creates a formatted invalid role error
func InvalidRolef(format string, args ...any) *Error {
	return Newf(CodeInvalidRole, format, args...)
}

// CharacterMismatchf creates a formatted character ownership error
func CharacterMismatchf(format string, args ...any) *Error {
	return Newf(CodeCharacterMismatch, format, args...)
}

// AlreadyAssignedf creates a formatted roster uniqueness error
func AlreadyAssignedf(format string, args ...any) *Error {
	return Newf(CodeAlreadyAssigned, format, args...)
}

// NotEligiblef creates a formatted swap eligibility error
func NotEligiblef(format string, args ...any) *Error {
	return Newf(CodeNotEligible, format, args...)
}

// InvalidTransitionf creates a formatted transition table error
func InvalidTransitionf(format string, args ...any) *Error {
	return Newf(CodeInvalidTransition, format, args...)
}

// InvalidStatef creates a formatted request state error
func InvalidStatef(format string, args ...any) *Error {
	return Newf(CodeInvalidState, format, args...)
}

// MissingAcceptor creates a missing acceptor error
func MissingAcceptor(message string) *Error {
	return New(CodeMissingAcceptor, message)
}

// PermissionDenied creates a permission denied error
func PermissionDenied(message string) *Error {
	return New(CodePermissionDenied, message)
}

// Internal creates an internal error
func Internal(message string) *Error {
	return New(CodeInternal, message)
}

// Internalf creates a formatted internal error
func Internalf(format string, args ...any) *Error {
	return Newf(CodeInternal, format, args...)
}

// Error checking functions

// Is checks if the error is of a specific code
func Is(err error, code Code) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return Is(err, CodeNotFound)
}

// IsInvalidArgument checks if the error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return Is(err, CodeInvalidArgument)
}

// IsAlreadyExists checks if the error is an already exists error
func IsAlreadyExists(err error) bool {
	return Is(err, CodeAlreadyExists)
}

// IsInvalidClass checks if the error is an invalid class error
func IsInvalidClass(err error) bool {
	return Is(err, CodeInvalidClass)
}

// IsInvalidRole checks if the error is an invalid role error
func IsInvalidRole(err error) bool {
	return Is(err, CodeInvalidRole)
}

// IsCharacterMismatch checks if the error is a character ownership error
func IsCharacterMismatch(err error) bool {
	return Is(err, CodeCharacterMismatch)
}

// IsAlreadyAssigned checks if the error is a roster uniqueness error
func IsAlreadyAssigned(err error) bool {
	return Is(err, CodeAlreadyAssigned)
}

// IsNotEligible checks if the error is a swap eligibility error
func IsNotEligible(err error) bool {
	return Is(err, CodeNotEligible)
}

// IsInvalidTransition checks if the error is a transition table error
func IsInvalidTransition(err error) bool {
	return Is(err, CodeInvalidTransition)
}

// IsInvalidState checks if the error is a request state error
func IsInvalidState(err error) bool {
	return Is(err, CodeInvalidState)
}

// IsMissingAcceptor checks if the error is a missing acceptor error
func IsMissingAcceptor(err error) bool {
	return Is(err, CodeMissingAcceptor)
}

// IsPermissionDenied checks if the error is a permission denied error
func IsPermissionDenied(err error) bool {
	return Is(err, CodePermissionDenied)
}

// IsInternal checks if the error is an internal error
func IsInternal(err error) bool {
	return Is(err, CodeInternal)
}

// GetCode returns the error code
func GetCode(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetMeta returns the error metadata
func GetMeta(err error) map[string]any {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Meta
	}
	return nil
}

// copyMeta creates a copy of the metadata map
func copyMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}

	copied := make(map[string]any, len(meta))
	for k, v := range meta {
		copied[k] = v
	}
	return copied
}
