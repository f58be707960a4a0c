package sizing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sevsizer/internal/chart/models"
	"sevsizer/pkg/domain"
	dErrors "sevsizer/pkg/domain-errors"
)

// bandSnapshot builds a chart where each size n covers [base+n, base+n+1).
func bandSnapshot() *models.ChartSnapshot {
	snap := &models.ChartSnapshot{ChartID: "default"}
	for n := 0; n < 10; n++ {
		lo := 7.0 + float64(n)
		snap.Rules = append(snap.Rules, models.SizeRule{
			ID:         domain.RuleID(n + 1),
			ChartID:    "default",
			Finger:     models.ScopeAll,
			MinWidthMm: lo,
			MaxWidthMm: lo + 0.96,
			MappedSize: n,
			Active:     true,
		})
	}
	snap.Catalog = []models.CatalogSize{
		{ChartID: "default", SizeNumber: 3, Label: "Size 3 (M)"},
		{ChartID: "default", SizeNumber: 4, Label: "Size 4 (M)"},
	}
	return snap
}

func fullWidths() map[domain.FingerName]float64 {
	return map[domain.FingerName]float64{
		domain.FingerThumb:  10.5, // size 3
		domain.FingerIndex:  12.5, // size 5
		domain.FingerMiddle: 11.5, // size 4
		domain.FingerRing:   13.5, // size 6
		domain.FingerPinky:  15.5, // size 8
	}
}

func TestComposeProfile(t *testing.T) {
	p, err := ComposeProfile(fullWidths(), bandSnapshot())
	require.NoError(t, err)

	assert.Equal(t, "3-5-4-6-8", p.Profile)
	assert.Equal(t, [5]int{3, 5, 4, 6, 8}, p.Sizes())

	// Per-finger entries come back in canonical order.
	for i, f := range domain.FingerOrder {
		assert.Equal(t, f, p.PerFinger[i].Finger)
	}

	thumb := p.Result(domain.FingerThumb)
	assert.Equal(t, 3, thumb.Size)
	assert.Equal(t, "Size 3 (M)", thumb.Label, "catalog label resolves")
	assert.InDelta(t, 10.5, thumb.WidthMm, 1e-9)
	assert.Equal(t, BranchExact, thumb.Branch)

	index := p.Result(domain.FingerIndex)
	assert.Equal(t, "5", index.Label, "missing catalog entry falls back to the number")
}

// Profile shape: always five dash-joined integers, thumb through pinky.
func TestComposeProfile_Shape(t *testing.T) {
	p, err := ComposeProfile(fullWidths(), bandSnapshot())
	require.NoError(t, err)

	parts := strings.Split(p.Profile, "-")
	require.Len(t, parts, 5)
	for _, part := range parts {
		assert.Regexp(t, `^\d+$`, part)
	}
}

func TestComposeProfile_MissingFinger(t *testing.T) {
	t.Run("names the missing finger", func(t *testing.T) {
		widths := fullWidths()
		delete(widths, domain.FingerRing)

		_, err := ComposeProfile(widths, bandSnapshot())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Contains(t, err.Error(), "ring")
	})

	t.Run("first missing finger in canonical order wins", func(t *testing.T) {
		widths := fullWidths()
		delete(widths, domain.FingerPinky)
		delete(widths, domain.FingerIndex)

		_, err := ComposeProfile(widths, bandSnapshot())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "index")
		assert.NotContains(t, err.Error(), "pinky")
	})
}

func TestComposeProfile_NoRules(t *testing.T) {
	snap := &models.ChartSnapshot{ChartID: "default"}

	_, err := ComposeProfile(fullWidths(), snap)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNoRules))
}

// A chart whose rules only cover some fingers surfaces the gap as a
// configuration error, not a panic or a silent default.
func TestComposeProfile_FingerWithoutCoverage(t *testing.T) {
	snap := &models.ChartSnapshot{
		ChartID: "default",
		Rules: []models.SizeRule{
			{ID: 1, ChartID: "default", Finger: models.FingerScope(domain.FingerThumb), MinWidthMm: 10, MaxWidthMm: 12, MappedSize: 3, Active: true},
		},
	}

	_, err := ComposeProfile(fullWidths(), snap)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNoRules))
	assert.Contains(t, err.Error(), "index")
}

// Tolerance and last-resort widths still compose a full profile.
func TestComposeProfile_FallbackWidths(t *testing.T) {
	widths := fullWidths()
	widths[domain.FingerThumb] = 10.99 // in the 0.04 gap between size 3 and size 4 bands

	p, err := ComposeProfile(widths, bandSnapshot())
	require.NoError(t, err)

	thumb := p.Result(domain.FingerThumb)
	assert.Equal(t, BranchTolerance, thumb.Branch)
	assert.Equal(t, domain.FitSnug, thumb.Fit, "size_down default policy reports snug")
}
