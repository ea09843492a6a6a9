package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMessageIsSorted(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"b": "second", "a": "first"}}
	assert.Equal(t, "validation failed: a: first; b: second", err.Error())
	assert.True(t, errors.Is(fmt.Errorf("wrap: %w", err), ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestUserSafeMessage(t *testing.T) {
	assert.Equal(t, "", UserSafeMessage(nil))
	assert.Equal(t, "resource not found", UserSafeMessage(fmt.Errorf("x: %w", ErrNotFound)))
	assert.Equal(t, "resource already exists", UserSafeMessage(ErrConflict))
	assert.Equal(t, "internal server error", UserSafeMessage(fmt.Errorf("%w: password=hunter2", ErrStore)))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains(Campuses, "Remote"))
	assert.False(t, Contains(Campuses, "remote"))
}
