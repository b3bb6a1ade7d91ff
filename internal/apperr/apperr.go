// Package apperr provides the shared error taxonomy for agentspacectl.
// Every remote or orchestration failure is normalized into an *Error
// carrying a stable code, the resource kind and remote identifier when
// known, and a suggested next command where one exists. Callers branch
// on codes, never on provider-specific responses.
package apperr

import (
	"errors"
	"fmt"
)

// Error codes.
const (
	// Configuration errors. Never retried: they require a config fix.
	CodeConfigMissing  = "CONFIG_MISSING"
	CodeConfigConflict = "CONFIG_CONFLICT"

	// Dependency-order errors. Never retried: they require running a
	// different command first.
	CodePrerequisiteMissing  = "PREREQUISITE_MISSING"
	CodePrerequisiteNotReady = "PREREQUISITE_NOT_READY"

	// Remote state errors.
	CodeAlreadyExists = "ALREADY_EXISTS"
	CodeSpecConflict  = "SPEC_CONFLICT"
	CodeInvalidSpec   = "INVALID_SPEC"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeUnauthorized  = "UNAUTHORIZED"

	// Transient and terminal remote failures. RemoteUnavailable and
	// Timeout are retryable by the caller; Failed is not without a
	// spec change.
	CodeRemoteUnavailable = "REMOTE_UNAVAILABLE"
	CodeTimeout           = "TIMEOUT"
	CodeFailed            = "FAILED"

	// Interaction errors.
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	CodeUserAborted          = "USER_ABORTED"
)

// Error is the structured application error.
type Error struct {
	// Code is one of the Code* constants.
	Code string
	// Message is a user-facing description.
	Message string
	// Resource names the resource kind involved, when known.
	Resource string
	// RemoteID is the remote identifier involved, when known.
	RemoteID string
	// Suggestion is the next command the user should run, when one
	// would unblock the failure.
	Suggestion string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Resource != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Resource)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches two taxonomy errors by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code != "" && e.Code == t.Code
	}
	return false
}

// New creates an error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error with the given code, message, and cause.
func Wrap(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// WithResource attaches the resource kind and remote identifier.
func (e *Error) WithResource(resource, remoteID string) *Error {
	e.Resource = resource
	e.RemoteID = remoteID
	return e
}

// WithSuggestion attaches a suggested next command.
func (e *Error) WithSuggestion(cmd string) *Error {
	e.Suggestion = cmd
	return e
}

// Code extracts the taxonomy code from an error, or "" for foreign
// errors.
func Code(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Suggestion extracts the suggested next command, if any.
func Suggestion(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Suggestion
	}
	return ""
}

// IsCode reports whether err carries the given taxonomy code.
func IsCode(err error, code string) bool {
	return Code(err) == code
}

// Retryable reports whether the caller may reasonably retry the
// operation without changing configuration or spec.
func Retryable(err error) bool {
	switch Code(err) {
	case CodeRemoteUnavailable, CodeTimeout:
		return true
	}
	return false
}
