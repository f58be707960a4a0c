package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeNotFound, "measurement missing")

	assert.EqualError(t, err, "measurement missing")
	assert.True(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(err, CodeValidation))
}

func TestWrap(t *testing.T) {
	t.Run("preserves cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Wrap(cause, CodeInternal, "load rules")

		assert.True(t, HasCode(err, CodeInternal))
		assert.ErrorIs(t, err, cause)
		assert.EqualError(t, err, "load rules: connection refused")
	})

	t.Run("nil cause returns nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "noop"))
	})

	t.Run("outermost code wins", func(t *testing.T) {
		inner := New(CodeInvariantViolation, "bad range")
		outer := Wrap(inner, CodeValidation, "rule rejected")

		assert.Equal(t, CodeValidation, CodeOf(outer))
		assert.True(t, HasCode(outer, CodeValidation))
		assert.False(t, HasCode(outer, CodeInvariantViolation))
	})
}

func TestCodeOf(t *testing.T) {
	t.Run("uncoded errors fall back to internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	})

	t.Run("survives fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("recommend: %w", New(CodeNoRules, "chart empty"))
		assert.Equal(t, CodeNoRules, CodeOf(err))
	})
}

func TestMessage(t *testing.T) {
	var e *Error
	require.ErrorAs(t, Wrap(errors.New("pq: duplicate key"), CodeConflict, "size already defined"), &e)
	assert.Equal(t, "size already defined", e.Message())
	assert.Equal(t, CodeConflict, e.Code())
}
