package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk on fire")
	err := Wrap(cause, ErrCodeInternal, "save failed")

	assert.Equal(t, "save failed: disk on fire", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestCodePredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFound(NotFound("missing")))
	assert.True(t, IsConflict(Conflict("taken")))
	assert.True(t, IsValidation(Validation("bad")))
	assert.True(t, IsUnauthorized(Unauthorized("who are you")))
	assert.True(t, IsForbidden(Forbidden("not yours")))
	assert.False(t, IsNotFound(Conflict("taken")))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestPredicates_SeeThroughWrapping(t *testing.T) {
	t.Parallel()

	inner := NotFound("employee not found")
	wrapped := fmt.Errorf("list employees: %w", inner)

	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, ErrCodeNotFound, GetCode(wrapped))
}

func TestGetField(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "email", GetField(ValidationField("email", "required")))
	assert.Empty(t, GetField(errors.New("plain")))
}
