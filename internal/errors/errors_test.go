package errors_test

import (
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/axellelanca/shortlinks/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := &apperrors.ValidationError{
		Field:   "customShortcode",
		Message: "already exists",
		Err:     apperrors.ErrShortcodeExists,
	}
	wrapped := fmt.Errorf("shorten: %w", err)

	assert.Equal(t, "customShortcode: already exists", err.Error())
	assert.True(t, apperrors.IsValidation(wrapped))
	assert.ErrorIs(t, wrapped, apperrors.ErrShortcodeExists)
	assert.False(t, apperrors.IsValidation(apperrors.ErrNotFound))
}

func TestPersistenceError_Unwrap(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := &apperrors.PersistenceError{Op: "write", Key: "shortUrls", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), `"shortUrls"`)
}
