package domain

import (
	"errors"
	"fmt"
)

// ErrCorruptSnapshot signals that stored state could not be decoded. Callers
// get an empty default state alongside it and may continue normally.
var ErrCorruptSnapshot = errors.New("stored snapshot is corrupt")

// ValidationError reports bad user input, e.g. a blank list name.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an operation that referenced an unknown or stale id.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// PersistenceError wraps a storage read/write failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// AssistantError wraps a failure of the external assistant: unreachable
// endpoint, non-2xx status, or an unparseable reply. It never propagates to
// the UI layer; the mediator turns it into an assistant chat message.
type AssistantError struct {
	Provider string
	Err      error
}

func (e *AssistantError) Error() string {
	return fmt.Sprintf("assistant %s failed: %v", e.Provider, e.Err)
}

func (e *AssistantError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
