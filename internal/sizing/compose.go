package sizing

import (
	"strconv"
	"strings"

	"sevsizer/internal/chart/models"
	"sevsizer/pkg/domain"
	dErrors "sevsizer/pkg/domain-errors"
)

// ComposeProfile resolves all five fingers against a chart and assembles
// the dash-joined size profile, thumb through pinky. Widths are the
// curve-adjusted measurements keyed by finger.
//
// Fingers are processed in canonical order and the first failure wins: a
// missing finger is CodeValidation naming that finger, a finger no rule
// covers is CodeNoRules.
//
// Sizes without a catalog entry fall back to the stringified number as
// their label; a thin catalog degrades labels, never the matching.
func ComposeProfile(widths map[domain.FingerName]float64, snap *models.ChartSnapshot) (*Profile, error) {
	if len(snap.Rules) == 0 {
		return nil, dErrors.New(dErrors.CodeNoRules, "no sizing rules configured")
	}

	cfg := snap.EffectiveConfig()
	labels := snap.Labels()

	var perFinger [5]FingerResult
	parts := make([]string, 0, len(domain.FingerOrder))

	for i, f := range domain.FingerOrder {
		w, ok := widths[f]
		if !ok {
			return nil, dErrors.Newf(dErrors.CodeValidation, "finger %s is missing from measurement", f)
		}

		m, err := MatchFinger(w, f, snap.Rules, cfg)
		if err != nil {
			return nil, err
		}

		perFinger[i] = FingerResult{
			Finger:  f,
			Size:    m.Size,
			Label:   labelFor(labels, m.Size),
			WidthMm: w,
			Fit:     m.Fit,
			RuleID:  m.RuleID,
			Branch:  m.Branch,
		}
		parts = append(parts, strconv.Itoa(m.Size))
	}

	return &Profile{
		Profile:   strings.Join(parts, "-"),
		PerFinger: perFinger,
	}, nil
}

func labelFor(labels map[int]string, size int) string {
	if l, ok := labels[size]; ok {
		return l
	}
	return strconv.Itoa(size)
}
