package errs

import (
	"errors"
	"fmt"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesKind(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("resolver: %w", AuthenticationRequired())

	assert.True(t, errors.Is(err, ErrAuthRequired))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, KindAuthenticationRequired, KindOf(err))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestError_MessageHidesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("pq: connection refused")
	err := Persistence("failed to create author", "authorName", "Jane Doe", cause)

	assert.Equal(t, "failed to create author", err.Error())
	assert.Contains(t, err.Cause(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestError_Extensions(t *testing.T) {
	t.Parallel()

	ext := Validation("title", "abc", "title too short", map[string]string{"title": "too short"}).Extensions()
	assert.Equal(t, "VALIDATION_ERROR", ext["code"])
	assert.Equal(t, "title", ext["argument"])
	assert.Equal(t, "abc", ext["value"])
	assert.Equal(t, map[string]string{"title": "too short"}, ext["details"])

	ext = InvalidCredentials().Extensions()
	assert.Equal(t, map[string]interface{}{"code": "INVALID_CREDENTIALS"}, ext)
}

func TestFromValidation(t *testing.T) {
	t.Parallel()

	fieldErrs := validation.Errors{
		"username":      errors.New("too short"),
		"favoriteGenre": errors.New("required"),
	}

	err := FromValidation(fieldErrs, map[string]any{"username": "ab", "favoriteGenre": ""})
	require.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, "favoriteGenre", err.Argument)
	assert.Equal(t, "required", err.Message)
	assert.Len(t, err.Details, 2)

	plain := FromValidation(errors.New("bad input"), nil)
	assert.Equal(t, "bad input", plain.Message)
	assert.Empty(t, plain.Argument)
}
