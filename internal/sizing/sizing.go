// Package sizing turns per-finger hand measurements into catalog size
// recommendations. The matching pipeline is pure: filter the chart's rules
// for a finger, order them deterministically, then resolve a size through
// exact band containment, the tolerance fallback, or the globally closest
// band. The same pipeline serves live recommendations and admin previews,
// so a preview always tells the truth about what production would return.
package sizing

import (
	"time"

	"sevsizer/pkg/domain"
)

// MatchBranch names which stage of the pipeline produced a match.
type MatchBranch string

const (
	// BranchExact means the width fell inside the winning rule's band.
	BranchExact MatchBranch = "exact"
	// BranchTolerance means the width was outside every band but within
	// the configured tolerance of the winning rule.
	BranchTolerance MatchBranch = "tolerance"
	// BranchClosest means no band was within tolerance and the globally
	// closest rule was used as a last resort.
	BranchClosest MatchBranch = "closest"
)

// Match is the outcome of resolving one width against a chart.
type Match struct {
	Size   int
	Fit    domain.Fit
	RuleID domain.RuleID
	Branch MatchBranch
}

// FingerResult is one finger's resolved size with its display label and the
// measured width it was resolved from.
type FingerResult struct {
	Finger  domain.FingerName `json:"finger"`
	Size    int               `json:"size"`
	Label   string            `json:"label"`
	WidthMm float64           `json:"width_mm"`
	Fit     domain.Fit        `json:"fit"`
	RuleID  domain.RuleID     `json:"rule_id"`
	Branch  MatchBranch       `json:"branch"`
}

// Profile is a full five-finger sizing: the dash-joined profile string plus
// the per-finger detail, ordered thumb through pinky.
type Profile struct {
	Profile   string          `json:"profile"`
	PerFinger [5]FingerResult `json:"per_finger"`
}

// Sizes returns the five recommended sizes in canonical finger order.
func (p *Profile) Sizes() [5]int {
	var out [5]int
	for i, fr := range p.PerFinger {
		out[i] = fr.Size
	}
	return out
}

// Result returns the resolved entry for one finger.
func (p *Profile) Result(f domain.FingerName) FingerResult {
	for _, fr := range p.PerFinger {
		if fr.Finger == f {
			return fr
		}
	}
	return FingerResult{}
}

// SetMatch is one curated set ranked against a profile.
type SetMatch struct {
	SetID   domain.SizeSetID `json:"set_id"`
	SetName string           `json:"set_name"`
	Diff    int              `json:"diff"`
	Exact   bool             `json:"exact_match"`
}

// Recommendation is one recorded sizing run. Rows are immutable once
// inserted; re-running after a chart edit appends a new row.
type Recommendation struct {
	ID            domain.RecommendationID `json:"id"`
	MeasurementID domain.MeasurementID    `json:"measurement_id"`
	ChartID       domain.ChartID          `json:"chart_id"`
	Profile       string                  `json:"size_profile"`
	PerFinger     [5]FingerResult         `json:"per_finger"`
	MatchingSets  []SetMatch              `json:"matching_sets"`
	CreatedAt     time.Time               `json:"created_at"`
}
