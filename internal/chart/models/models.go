// Package models holds the chart aggregate: size rules, the matching
// config, the catalog and curated size sets. Constructors enforce the
// invariants; stores persist what constructors accepted.
package models

import (
	"time"

	"sevsizer/pkg/domain"
	dErrors "sevsizer/pkg/domain-errors"
)

// ScopeAll is the sentinel finger scope: the rule applies to every finger.
const ScopeAll = "ALL"

// FingerScope is either a specific finger name or the ALL sentinel.
type FingerScope string

// ParseFingerScope constructs a FingerScope from external input.
//
// Errors: returns CodeValidation when the value is neither ALL nor one of
// the five fingers.
func ParseFingerScope(s string) (FingerScope, error) {
	if s == ScopeAll {
		return FingerScope(s), nil
	}
	f, err := domain.ParseFingerName(s)
	if err != nil {
		return "", dErrors.Newf(dErrors.CodeValidation, "finger must be ALL or a finger name, got %q", s)
	}
	return FingerScope(f), nil
}

// IsValid checks if the scope is ALL or one of the five fingers.
func (s FingerScope) IsValid() bool {
	return s == ScopeAll || domain.FingerName(s).IsValid()
}

// IsSpecific reports whether the scope names a single finger.
func (s FingerScope) IsSpecific() bool {
	return s != ScopeAll
}

// Matches reports whether a rule with this scope applies to the finger.
func (s FingerScope) Matches(f domain.FingerName) bool {
	return s == ScopeAll || FingerScope(f) == s
}

// String returns the string representation of the scope.
func (s FingerScope) String() string {
	return string(s)
}

// SizeRule maps a width band to a catalog size for one finger (or all).
//
// Invariants:
//   - Finger is ALL or a valid finger name
//   - 0 < MinWidthMm < MaxWidthMm
//   - MappedSize is non-negative
//
// Bands are inclusive on both ends. Overlapping bands within a chart are
// legal; priority and the deterministic rule order decide between them.
type SizeRule struct {
	ID         domain.RuleID  `json:"id"`
	ChartID    domain.ChartID `json:"chart_id"`
	Finger     FingerScope    `json:"finger"`
	MinWidthMm float64        `json:"min_width_mm"`
	MaxWidthMm float64        `json:"max_width_mm"`
	MappedSize int            `json:"mapped_size"`
	Priority   int            `json:"priority"`
	Active     bool           `json:"active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// NewSizeRule validates and constructs a rule. The ID is zero until the
// store assigns one.
func NewSizeRule(chartID domain.ChartID, finger FingerScope, minWidthMm, maxWidthMm float64, mappedSize, priority int, now time.Time) (*SizeRule, error) {
	if !finger.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "invalid finger scope %q", finger)
	}
	if minWidthMm <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "min_width_mm must be positive")
	}
	if maxWidthMm <= minWidthMm {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "max_width_mm must be greater than min_width_mm")
	}
	if mappedSize < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "mapped_size must not be negative")
	}
	return &SizeRule{
		ChartID:    chartID,
		Finger:     finger,
		MinWidthMm: minWidthMm,
		MaxWidthMm: maxWidthMm,
		MappedSize: mappedSize,
		Priority:   priority,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Contains reports whether the width falls inside the band, inclusive on
// both boundaries.
func (r *SizeRule) Contains(widthMm float64) bool {
	return widthMm >= r.MinWidthMm && widthMm <= r.MaxWidthMm
}

// Position returns where the width sits inside the band, 0 at the lower
// boundary and 1 at the upper. A degenerate zero-width band (possible in
// rows predating constructor validation) reports the midpoint.
func (r *SizeRule) Position(widthMm float64) float64 {
	span := r.MaxWidthMm - r.MinWidthMm
	if span == 0 {
		return 0.5
	}
	return (widthMm - r.MinWidthMm) / span
}

// Distance returns how far the width is from the band: zero inside,
// otherwise the gap to the nearest boundary.
func (r *SizeRule) Distance(widthMm float64) float64 {
	if r.Contains(widthMm) {
		return 0
	}
	if widthMm < r.MinWidthMm {
		return r.MinWidthMm - widthMm
	}
	return widthMm - r.MaxWidthMm
}

// BetweenSizesPolicy decides which neighboring size wins when a width lands
// between bands and the tolerance fallback fires.
type BetweenSizesPolicy string

const (
	PolicySizeDown BetweenSizesPolicy = "size_down"
	PolicySizeUp   BetweenSizesPolicy = "size_up"
)

// ParseBetweenSizesPolicy constructs a policy from external input.
func ParseBetweenSizesPolicy(s string) (BetweenSizesPolicy, error) {
	p := BetweenSizesPolicy(s)
	if !p.IsValid() {
		return "", dErrors.Newf(dErrors.CodeValidation, "between_sizes_policy must be size_down or size_up, got %q", s)
	}
	return p, nil
}

// IsValid checks if the policy is one of the supported enum values.
func (p BetweenSizesPolicy) IsValid() bool {
	return p == PolicySizeDown || p == PolicySizeUp
}

// String returns the string representation of the policy.
func (p BetweenSizesPolicy) String() string {
	return string(p)
}

// RuleConfig tunes the tolerance fallback for one chart.
//
// Invariants:
//   - BetweenSizesPolicy is a valid policy
//   - ToleranceMm is non-negative (zero disables the fallback)
type RuleConfig struct {
	ChartID            domain.ChartID     `json:"chart_id"`
	BetweenSizesPolicy BetweenSizesPolicy `json:"between_sizes_policy"`
	ToleranceMm        float64            `json:"tolerance_mm"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// NewRuleConfig validates and constructs a config.
func NewRuleConfig(chartID domain.ChartID, policy BetweenSizesPolicy, toleranceMm float64, now time.Time) (*RuleConfig, error) {
	if !policy.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "invalid between_sizes_policy %q", policy)
	}
	if toleranceMm < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tolerance_mm must not be negative")
	}
	return &RuleConfig{
		ChartID:            chartID,
		BetweenSizesPolicy: policy,
		ToleranceMm:        toleranceMm,
		UpdatedAt:          now,
	}, nil
}

// DefaultRuleConfig is substituted when a chart has no config row.
func DefaultRuleConfig(chartID domain.ChartID) RuleConfig {
	return RuleConfig{
		ChartID:            chartID,
		BetweenSizesPolicy: PolicySizeDown,
		ToleranceMm:        0.3,
	}
}

// CatalogSize gives a display label to a numeric size within a chart.
//
// Invariants:
//   - SizeNumber is non-negative
//   - Label is non-empty and at most 64 characters
//
// (ChartID, SizeNumber) is unique per chart; the stores enforce it.
type CatalogSize struct {
	ID         domain.CatalogSizeID `json:"id"`
	ChartID    domain.ChartID       `json:"chart_id"`
	SizeNumber int                  `json:"size_number"`
	Label      string               `json:"label"`
	CreatedAt  time.Time            `json:"created_at"`
}

// NewCatalogSize validates and constructs a catalog entry.
func NewCatalogSize(chartID domain.ChartID, sizeNumber int, label string, now time.Time) (*CatalogSize, error) {
	if sizeNumber < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "size_number must not be negative")
	}
	if label == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "label is required")
	}
	if len(label) > 64 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "label must be at most 64 characters")
	}
	return &CatalogSize{
		ChartID:    chartID,
		SizeNumber: sizeNumber,
		Label:      label,
		CreatedAt:  now,
	}, nil
}

// FingerSizes pins one size per finger, thumb through pinky.
type FingerSizes struct {
	Thumb  int `json:"thumb"`
	Index  int `json:"index"`
	Middle int `json:"middle"`
	Ring   int `json:"ring"`
	Pinky  int `json:"pinky"`
}

// SizeFor returns the size for the given finger.
func (fs FingerSizes) SizeFor(f domain.FingerName) int {
	switch f {
	case domain.FingerThumb:
		return fs.Thumb
	case domain.FingerIndex:
		return fs.Index
	case domain.FingerMiddle:
		return fs.Middle
	case domain.FingerRing:
		return fs.Ring
	default:
		return fs.Pinky
	}
}

// SizeSet is a curated, pre-packaged combination of five sizes.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - Every finger size is non-negative
type SizeSet struct {
	ID      domain.SizeSetID `json:"id"`
	ChartID domain.ChartID   `json:"chart_id"`
	Name    string           `json:"name"`
	Sizes   FingerSizes      `json:"sizes"`
	// VariantRef points at the commerce system's variant for this set.
	VariantRef string    `json:"variant_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewSizeSet validates and constructs a set. The ID is zero until the store
// assigns one.
func NewSizeSet(chartID domain.ChartID, name string, sizes FingerSizes, variantRef string, now time.Time) (*SizeSet, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "name is required")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "name must be at most 128 characters")
	}
	for _, f := range domain.FingerOrder {
		if sizes.SizeFor(f) < 0 {
			return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "%s size must not be negative", f)
		}
	}
	return &SizeSet{
		ChartID:    chartID,
		Name:       name,
		Sizes:      sizes,
		VariantRef: variantRef,
		CreatedAt:  now,
	}, nil
}

// ChartSnapshot is one chart's matching state read as a unit: active rules,
// config (nil when the chart has none), catalog and sets. It serializes to
// JSON for the cache, so a cached snapshot is always internally consistent.
type ChartSnapshot struct {
	ChartID domain.ChartID `json:"chart_id"`
	Rules   []SizeRule     `json:"rules"`
	Config  *RuleConfig    `json:"config,omitempty"`
	Catalog []CatalogSize  `json:"catalog"`
	Sets    []SizeSet      `json:"sets"`
}

// EffectiveConfig returns the chart's config, or the defaults when the
// chart has none.
func (s *ChartSnapshot) EffectiveConfig() RuleConfig {
	if s.Config != nil {
		return *s.Config
	}
	return DefaultRuleConfig(s.ChartID)
}

// Labels maps size numbers to display labels for profile composition.
func (s *ChartSnapshot) Labels() map[int]string {
	labels := make(map[int]string, len(s.Catalog))
	for _, c := range s.Catalog {
		labels[c.SizeNumber] = c.Label
	}
	return labels
}
