package application

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	t.Run("unwraps cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := DatabaseError("failed to save journal", cause)

		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "DATABASE_ERROR")
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("code survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("submit: %w", Duplicate("already submitted today"))

		assert.Equal(t, CodeDuplicateResource, CodeOf(err))
	})

	t.Run("unknown errors are internal", func(t *testing.T) {
		err := errors.New("boom")

		assert.Equal(t, CodeInternalError, CodeOf(err))
		appErr := AsError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, CodeInternalError, appErr.Code)
		assert.ErrorIs(t, appErr, err)
	})

	t.Run("details accumulate", func(t *testing.T) {
		err := Forbidden("no active assignment").
			WithDetail("reason", "no_assignment").
			WithDetail("category_id", "abc")

		assert.Equal(t, "no_assignment", err.Details["reason"])
		assert.Len(t, err.Details, 2)
	})

	t.Run("validation fields are kept", func(t *testing.T) {
		err := ValidationFailed("invalid request", FieldError{Field: "title", Message: "is required"})

		require.Len(t, err.ValidationErrors, 1)
		assert.Equal(t, "title", err.ValidationErrors[0].Field)
	})
}
