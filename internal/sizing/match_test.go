package sizing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sevsizer/internal/chart/models"
	"sevsizer/pkg/domain"
	dErrors "sevsizer/pkg/domain-errors"
)

func defaultConfig() models.RuleConfig {
	return models.DefaultRuleConfig("default")
}

func rule(id int64, finger models.FingerScope, min, max float64, size, priority int) models.SizeRule {
	return models.SizeRule{
		ID:         domain.RuleID(id),
		ChartID:    "default",
		Finger:     finger,
		MinWidthMm: min,
		MaxWidthMm: max,
		MappedSize: size,
		Priority:   priority,
		Active:     true,
	}
}

// Width 11 sits exactly mid-band, so the fit reads standard.
func TestMatchFinger_ExactMidBand(t *testing.T) {
	rules := []models.SizeRule{rule(1, models.ScopeAll, 10, 12, 9, 0)}

	m, err := MatchFinger(11, domain.FingerIndex, rules, defaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 9, m.Size)
	assert.Equal(t, domain.FitStandard, m.Fit)
	assert.Equal(t, BranchExact, m.Branch)
	assert.Equal(t, domain.RuleID(1), m.RuleID)
}

// A higher-priority thumb rule beats an overlapping ALL rule.
func TestMatchFinger_PriorityDominance(t *testing.T) {
	rules := []models.SizeRule{
		rule(1, models.ScopeAll, 10, 12, 9, 0),
		rule(2, models.FingerScope(domain.FingerThumb), 10.5, 11.5, 5, 1),
	}

	m, err := MatchFinger(11, domain.FingerThumb, rules, defaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 5, m.Size)

	// List order must not matter.
	reversed := []models.SizeRule{rules[1], rules[0]}
	m2, err := MatchFinger(11, domain.FingerThumb, reversed, defaultConfig())
	require.NoError(t, err)
	assert.Equal(t, m, m2)
}

// At equal priority a finger-specific rule ranks before ALL.
func TestMatchFinger_SpecificBeatsAllOnTie(t *testing.T) {
	rules := []models.SizeRule{
		rule(1, models.ScopeAll, 10, 12, 9, 3),
		rule(2, models.FingerScope(domain.FingerRing), 10, 12, 4, 3),
	}

	m, err := MatchFinger(11, domain.FingerRing, rules, defaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 4, m.Size)
	assert.Equal(t, domain.RuleID(2), m.RuleID)
}

// Equal priority, equal scope: lowest rule ID wins.
func TestMatchFinger_RuleIDBreaksRemainingTies(t *testing.T) {
	rules := []models.SizeRule{
		rule(7, models.ScopeAll, 10, 12, 7, 0),
		rule(3, models.ScopeAll, 10, 12, 3, 0),
	}

	m, err := MatchFinger(11, domain.FingerMiddle, rules, defaultConfig())
	require.NoError(t, err)
	assert.Equal(t, domain.RuleID(3), m.RuleID)
	assert.Equal(t, 3, m.Size)
}

// Fit thresholds: below 0.33 snug, above 0.67 loose, between standard.
func TestMatchFinger_FitFromPosition(t *testing.T) {
	rules := []models.SizeRule{rule(1, models.ScopeAll, 10, 12, 9, 0)}

	tests := []struct {
		name  string
		width float64
		want  domain.Fit
	}{
		{"lower boundary", 10.0, domain.FitSnug},
		{"just under snug threshold", 10.65, domain.FitSnug},
		{"at snug threshold", 10.66, domain.FitStandard},
		{"center", 11.0, domain.FitStandard},
		{"at loose threshold", 11.34, domain.FitStandard},
		{"just over loose threshold", 11.35, domain.FitLoose},
		{"upper boundary", 12.0, domain.FitLoose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := MatchFinger(tt.width, domain.FingerIndex, rules, defaultConfig())
			require.NoError(t, err)
			assert.Equal(t, BranchExact, m.Branch)
			assert.Equal(t, tt.want, m.Fit, "width %.2f", tt.width)
		})
	}
}

// A degenerate zero-width row reports the midpoint, so the fit is standard.
func TestMatchFinger_ZeroWidthBandReportsStandard(t *testing.T) {
	rules := []models.SizeRule{rule(1, models.ScopeAll, 13, 13, 2, 0)}

	m, err := MatchFinger(13, domain.FingerPinky, rules, defaultConfig())
	require.NoError(t, err)
	assert.Equal(t, BranchExact, m.Branch)
	assert.Equal(t, domain.FitStandard, m.Fit)
}

// Width 12.2 is 0.2 past the band, inside the 0.3 tolerance.
func TestMatchFinger_ToleranceFallback(t *testing.T) {
	rules := []models.SizeRule{rule(1, models.ScopeAll, 10, 12, 9, 0)}

	t.Run("size_down reports snug", func(t *testing.T) {
		m, err := MatchFinger(12.2, domain.FingerIndex, rules, defaultConfig())
		require.NoError(t, err)
		assert.Equal(t, 9, m.Size)
		assert.Equal(t, domain.FitSnug, m.Fit)
		assert.Equal(t, BranchTolerance, m.Branch)
	})

	t.Run("size_up reports loose", func(t *testing.T) {
		cfg := models.RuleConfig{ChartID: "default", BetweenSizesPolicy: models.PolicySizeUp, ToleranceMm: 0.3}
		m, err := MatchFinger(12.2, domain.FingerIndex, rules, cfg)
		require.NoError(t, err)
		assert.Equal(t, 9, m.Size)
		assert.Equal(t, domain.FitLoose, m.Fit)
	})

	t.Run("distance equal to tolerance still qualifies", func(t *testing.T) {
		// 12.25 and 0.25 are exact in binary, so the comparison is a
		// true equality, not a rounding accident.
		cfg := models.RuleConfig{ChartID: "default", BetweenSizesPolicy: models.PolicySizeDown, ToleranceMm: 0.25}
		m, err := MatchFinger(12.25, domain.FingerIndex, rules, cfg)
		require.NoError(t, err)
		assert.Equal(t, BranchTolerance, m.Branch)
	})

	t.Run("smallest distance wins among qualifying rules", func(t *testing.T) {
		two := []models.SizeRule{
			rule(1, models.ScopeAll, 10, 12, 9, 0),
			rule(2, models.ScopeAll, 12.5, 13.5, 8, 0),
		}
		// 12.28: 0.28 past the first band, 0.22 before the second.
		m, err := MatchFinger(12.28, domain.FingerIndex, two, defaultConfig())
		require.NoError(t, err)
		assert.Equal(t, 8, m.Size)
	})

	t.Run("distance tie resolves to earlier rule in filtered order", func(t *testing.T) {
		two := []models.SizeRule{
			rule(1, models.ScopeAll, 10, 12, 9, 0),
			rule(2, models.ScopeAll, 12.5, 13.5, 8, 0),
		}
		// 12.25 is exactly 0.25 from both bands.
		m, err := MatchFinger(12.25, domain.FingerIndex, two, defaultConfig())
		require.NoError(t, err)
		assert.Equal(t, domain.RuleID(1), m.RuleID)
	})
}

// Outside tolerance the closest rule still produces a result.
func TestMatchFinger_LastResort(t *testing.T) {
	rules := []models.SizeRule{
		rule(1, models.ScopeAll, 10, 12, 9, 0),
		rule(2, models.ScopeAll, 16, 18, 2, 0),
	}

	t.Run("closest band wins with fit standard", func(t *testing.T) {
		m, err := MatchFinger(14.5, domain.FingerIndex, rules, defaultConfig())
		require.NoError(t, err)
		assert.Equal(t, 2, m.Size, "14.5 is 1.5 from the second band, 2.5 from the first")
		assert.Equal(t, domain.FitStandard, m.Fit)
		assert.Equal(t, BranchClosest, m.Branch)
	})

	t.Run("far below every band", func(t *testing.T) {
		m, err := MatchFinger(2.0, domain.FingerIndex, rules, defaultConfig())
		require.NoError(t, err)
		assert.Equal(t, 9, m.Size)
		assert.Equal(t, BranchClosest, m.Branch)
	})

	t.Run("equidistant tie resolves to earlier rule in filtered order", func(t *testing.T) {
		m, err := MatchFinger(14.0, domain.FingerIndex, rules, defaultConfig())
		require.NoError(t, err)
		assert.Equal(t, domain.RuleID(1), m.RuleID)
	})
}

// Fallback totality: any width resolves when at least one rule applies.
func TestMatchFinger_TotalOverWidths(t *testing.T) {
	rules := []models.SizeRule{
		rule(1, models.FingerScope(domain.FingerThumb), 13, 15, 3, 2),
		rule(2, models.ScopeAll, 10, 12, 9, 0),
		rule(3, models.ScopeAll, 7, 9.9, 7, 1),
	}

	for _, width := range []float64{0.001, 5, 9.95, 11, 12.15, 13.5, 25, 1000} {
		m, err := MatchFinger(width, domain.FingerThumb, rules, defaultConfig())
		require.NoError(t, err, "width %v must resolve", width)
		assert.True(t, m.Fit.IsValid())
		assert.NotZero(t, m.RuleID)
	}
}

func TestMatchFinger_NoApplicableRules(t *testing.T) {
	t.Run("empty rule list", func(t *testing.T) {
		_, err := MatchFinger(11, domain.FingerThumb, nil, defaultConfig())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNoRules))
	})

	t.Run("rules exist but none cover the finger", func(t *testing.T) {
		rules := []models.SizeRule{rule(1, models.FingerScope(domain.FingerPinky), 10, 12, 9, 0)}
		_, err := MatchFinger(11, domain.FingerThumb, rules, defaultConfig())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNoRules))
		assert.Contains(t, err.Error(), "thumb")
	})
}

// The matcher never mutates its input slice.
func TestMatchFinger_InputOrderPreserved(t *testing.T) {
	rules := []models.SizeRule{
		rule(2, models.ScopeAll, 10, 12, 9, 0),
		rule(1, models.ScopeAll, 13, 15, 5, 1),
	}

	_, err := MatchFinger(11, domain.FingerIndex, rules, defaultConfig())
	require.NoError(t, err)

	assert.Equal(t, domain.RuleID(2), rules[0].ID)
	assert.Equal(t, domain.RuleID(1), rules[1].ID)
}
