package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the outcomes every operation can report. Handlers
// map these to stable reason codes; internal detail is never attached
// to the message that reaches the client.
var (
	// ErrUnauthorized covers both absent and invalid identity tokens.
	// The two cases are deliberately indistinguishable to the caller.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the caller is authenticated but not the owner.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means the referenced note or blob is absent.
	ErrNotFound = errors.New("not found")
	// ErrWrongKind means a file operation was attempted on a link note.
	ErrWrongKind = errors.New("not a file note")
	// ErrEmailTaken means signup collided with an existing account.
	ErrEmailTaken = errors.New("email already registered")
)

// ValidationError reports a rejected input: a missing required field,
// a media type outside the allow-list, or an oversize upload. No state
// is changed when one is returned.
type ValidationError struct {
	// Field names the offending input field.
	Field string
	// Reason is a short, client-safe explanation.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// StorageError reports an underlying blob read/write failure. The
// wrapped cause is logged server-side, never exposed to the client.
type StorageError struct {
	// Op is the storage operation that failed ("store", "open", "remove").
	Op string
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

// Unwrap exposes the cause for errors.Is/As.
func (e *StorageError) Unwrap() error { return e.Err }
