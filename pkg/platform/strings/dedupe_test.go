package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeWarnings(t *testing.T) {
	tests := []struct {
		name     string
		input    [][]string
		expected []string
	}{
		{
			name:     "no lists",
			input:    nil,
			expected: nil,
		},
		{
			name:     "all empty collapses to nil",
			input:    [][]string{{}, nil, {"", "  "}},
			expected: nil,
		},
		{
			name:     "single list passes through trimmed",
			input:    [][]string{{"  low_confidence  ", "card_tilted"}},
			expected: []string{"low_confidence", "card_tilted"},
		},
		{
			name: "union keeps first-seen order across lists",
			input: [][]string{
				{"low_confidence", "glare_detected"},
				{"card_tilted", "low_confidence"},
			},
			expected: []string{"low_confidence", "glare_detected", "card_tilted"},
		},
		{
			name: "duplicates within one list collapse",
			input: [][]string{
				{"card_tilted", "card_tilted", " card_tilted"},
			},
			expected: []string{"card_tilted"},
		},
		{
			name: "case is preserved and significant",
			input: [][]string{
				{"Glare", "glare"},
			},
			expected: []string{"Glare", "glare"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MergeWarnings(tt.input...)
			assert.Equal(t, tt.expected, result)
		})
	}
}
