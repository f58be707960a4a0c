package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "sevsizer/pkg/domain-errors"
)

func TestParseFingerName(t *testing.T) {
	t.Run("accepts the five fingers", func(t *testing.T) {
		for _, name := range []string{"thumb", "index", "middle", "ring", "pinky"} {
			f, err := ParseFingerName(name)
			require.NoError(t, err)
			assert.Equal(t, FingerName(name), f)
			assert.True(t, f.IsValid())
		}
	})

	t.Run("rejects anything else", func(t *testing.T) {
		for _, name := range []string{"", "Thumb", "forefinger", "toe", "THUMB "} {
			_, err := ParseFingerName(name)
			require.Error(t, err, "input %q", name)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		}
	})
}

// TestFingerOrder pins the canonical thumb-to-pinky ordering that profile
// strings and missing-finger reporting depend on.
func TestFingerOrder(t *testing.T) {
	want := [5]FingerName{FingerThumb, FingerIndex, FingerMiddle, FingerRing, FingerPinky}
	assert.Equal(t, want, FingerOrder)

	for _, f := range FingerOrder {
		assert.True(t, f.IsValid())
	}
}

func TestFitIsValid(t *testing.T) {
	assert.True(t, FitSnug.IsValid())
	assert.True(t, FitStandard.IsValid())
	assert.True(t, FitLoose.IsValid())
	assert.False(t, Fit("tight").IsValid())
	assert.False(t, Fit("").IsValid())
}
