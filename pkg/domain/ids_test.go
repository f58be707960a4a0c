package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "sevsizer/pkg/domain-errors"
)

// TestParseMeasurementID_Invariants validates the parsing invariant:
// measurement IDs are "msr_" followed by exactly eight lowercase hex digits.
func TestParseMeasurementID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseMeasurementID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects missing prefix", func(t *testing.T) {
		_, err := ParseMeasurementID("1f2a3b4c")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects wrong prefix", func(t *testing.T) {
		_, err := ParseMeasurementID("rec_1f2a3b4c")
		require.Error(t, err)
	})

	t.Run("rejects short hex", func(t *testing.T) {
		_, err := ParseMeasurementID("msr_1f2a")
		require.Error(t, err)
	})

	t.Run("rejects uppercase hex", func(t *testing.T) {
		_, err := ParseMeasurementID("msr_1F2A3B4C")
		require.Error(t, err)
	})

	t.Run("accepts well-formed id", func(t *testing.T) {
		id, err := ParseMeasurementID("msr_1f2a3b4c")
		require.NoError(t, err)
		assert.Equal(t, MeasurementID("msr_1f2a3b4c"), id)
	})

	t.Run("minted ids round-trip", func(t *testing.T) {
		id := NewMeasurementID()
		parsed, err := ParseMeasurementID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})
}

// TestParseID_SecurityInvariants validates trust boundary parsing rules:
// parsing must reject attack vectors at API entry points.
func TestParseID_SecurityInvariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE recommendations;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "msr_1f2a\x003b4c", true},
		{"Oversized input", "msr_" + strings.Repeat("a", 1000), true},
		{"Unicode zero-width space", "msr_1f2a​3b4c", true},

		{"Empty string", "", true},
		{"Whitespace only", "   ", true},
		{"Prefix only", "msr_", true},

		{"Valid id", "msr_00000000", false},
		{"Valid id all hex digits", "msr_abcdef01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMeasurementID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestPrefixedIDTypes_ConsistentBehavior ensures measurement and
// recommendation IDs validate identically apart from their prefix.
func TestPrefixedIDTypes_ConsistentBehavior(t *testing.T) {
	t.Run("both accept well-formed", func(t *testing.T) {
		_, errM := ParseMeasurementID("msr_deadbeef")
		_, errR := ParseRecommendationID("rec_deadbeef")
		require.NoError(t, errM)
		require.NoError(t, errR)
	})

	for _, input := range []string{"", "invalid", "deadbeef", "msr_deadbee"} {
		t.Run("both reject: "+input, func(t *testing.T) {
			_, errM := ParseMeasurementID(input)
			_, errR := ParseRecommendationID(input)
			require.Error(t, errM)
			require.Error(t, errR)
		})
	}

	t.Run("prefixes are not interchangeable", func(t *testing.T) {
		_, err := ParseRecommendationID("msr_deadbeef")
		require.Error(t, err)
	})
}

func TestParseChartID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"default chart", "default", false},
		{"slug with dash and underscore", "salon-a_v2", false},
		{"digits", "2024", false},
		{"empty", "", true},
		{"uppercase", "Default", true},
		{"space", "my chart", true},
		{"path traversal", "../default", true},
		{"too long", strings.Repeat("a", 65), true},
		{"max length", strings.Repeat("a", 64), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseChartID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			} else {
				require.NoError(t, err)
				assert.Equal(t, ChartID(tt.input), id)
			}
		})
	}
}

func TestParseNumericIDs(t *testing.T) {
	t.Run("accepts positive decimal", func(t *testing.T) {
		id, err := ParseRuleID("42")
		require.NoError(t, err)
		assert.Equal(t, RuleID(42), id)
	})

	for _, input := range []string{"", "0", "-1", "abc", "1.5", "9999999999999999999999"} {
		t.Run("rejects "+input, func(t *testing.T) {
			_, errRule := ParseRuleID(input)
			_, errSet := ParseSizeSetID(input)
			_, errSize := ParseCatalogSizeID(input)
			require.Error(t, errRule)
			require.Error(t, errSet)
			require.Error(t, errSize)
		})
	}

	t.Run("set id renders as decimal string", func(t *testing.T) {
		assert.Equal(t, "7", SizeSetID(7).String())
	})
}
