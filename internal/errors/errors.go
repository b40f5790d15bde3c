package errors

import (
	"errors"
	"fmt"
)

// Custom error types for the URL shortener application

// ErrNotFound is returned when a shortcode does not match any stored link
var ErrNotFound = errors.New("invalid link")

// ErrExpired is returned when a link exists but its validity window has passed
var ErrExpired = errors.New("link expired")

// ErrShortcodeExists is returned when inserting a record whose shortcode is already taken
var ErrShortcodeExists = errors.New("shortcode already exists")

// ErrShortcodeGenerationFailed is returned when we can't generate a unique short code
var ErrShortcodeGenerationFailed = errors.New("failed to generate unique short code")

// ErrBatchTooLarge is returned when more links are submitted at once than allowed
var ErrBatchTooLarge = errors.New("too many links in one request")

// ValidationError is a caller-correctable input error.
// Field names the offending input so the presentation layer can point at it.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PersistenceError describes a storage read or write failure.
// These are logged by the store and never returned to its callers.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s on key %q failed: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
