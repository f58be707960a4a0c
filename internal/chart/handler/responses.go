package handler

import (
	"time"

	"sevsizer/internal/chart/models"
	"sevsizer/internal/sizing"
)

// RuleResponse is the wire form of a size rule. IDs cross the wire as
// strings even though they are numeric internally.
type RuleResponse struct {
	ID         string    `json:"id"`
	Finger     string    `json:"finger"`
	MinWidthMm float64   `json:"min_width_mm"`
	MaxWidthMm float64   `json:"max_width_mm"`
	MappedSize int       `json:"mapped_size"`
	Priority   int       `json:"priority"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FromRule converts a stored rule to its wire form.
func FromRule(r *models.SizeRule) RuleResponse {
	return RuleResponse{
		ID:         r.ID.String(),
		Finger:     r.Finger.String(),
		MinWidthMm: r.MinWidthMm,
		MaxWidthMm: r.MaxWidthMm,
		MappedSize: r.MappedSize,
		Priority:   r.Priority,
		Active:     r.Active,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// RulesResponse wraps a chart's rules under a named key.
type RulesResponse struct {
	Rules []RuleResponse `json:"rules"`
}

// FromRules converts stored rules to the wrapped wire form.
func FromRules(rules []models.SizeRule) RulesResponse {
	out := make([]RuleResponse, 0, len(rules))
	for i := range rules {
		out = append(out, FromRule(&rules[i]))
	}
	return RulesResponse{Rules: out}
}

// ConfigResponse is the wire form of the tolerance config. UpdatedAt is
// zero until the chart's config is first written.
type ConfigResponse struct {
	BetweenSizesPolicy string    `json:"between_sizes_policy"`
	ToleranceMm        float64   `json:"tolerance_mm"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// FromConfig converts a config to its wire form.
func FromConfig(cfg *models.RuleConfig) ConfigResponse {
	return ConfigResponse{
		BetweenSizesPolicy: cfg.BetweenSizesPolicy.String(),
		ToleranceMm:        cfg.ToleranceMm,
		UpdatedAt:          cfg.UpdatedAt,
	}
}

// CatalogSizeResponse is the wire form of one catalog entry.
type CatalogSizeResponse struct {
	ID         string    `json:"id"`
	SizeNumber int       `json:"size_number"`
	Label      string    `json:"label"`
	CreatedAt  time.Time `json:"created_at"`
}

// FromCatalogSize converts a catalog entry to its wire form.
func FromCatalogSize(c *models.CatalogSize) CatalogSizeResponse {
	return CatalogSizeResponse{
		ID:         c.ID.String(),
		SizeNumber: c.SizeNumber,
		Label:      c.Label,
		CreatedAt:  c.CreatedAt,
	}
}

// CatalogResponse wraps a chart's catalog under a named key, size number
// ascending.
type CatalogResponse struct {
	Catalog []CatalogSizeResponse `json:"catalog"`
}

// FromCatalog converts catalog entries to the wrapped wire form.
func FromCatalog(catalog []models.CatalogSize) CatalogResponse {
	out := make([]CatalogSizeResponse, 0, len(catalog))
	for i := range catalog {
		out = append(out, FromCatalogSize(&catalog[i]))
	}
	return CatalogResponse{Catalog: out}
}

// SizeSetResponse is the wire form of one curated set.
type SizeSetResponse struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Sizes      SizesPayload `json:"sizes"`
	VariantRef string       `json:"variant_ref,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// FromSizeSet converts a stored set to its wire form.
func FromSizeSet(s *models.SizeSet) SizeSetResponse {
	return SizeSetResponse{
		ID:   s.ID.String(),
		Name: s.Name,
		Sizes: SizesPayload{
			Thumb:  s.Sizes.Thumb,
			Index:  s.Sizes.Index,
			Middle: s.Sizes.Middle,
			Ring:   s.Sizes.Ring,
			Pinky:  s.Sizes.Pinky,
		},
		VariantRef: s.VariantRef,
		CreatedAt:  s.CreatedAt,
	}
}

// SetsResponse wraps a chart's curated sets under a named key.
type SetsResponse struct {
	Sets []SizeSetResponse `json:"sets"`
}

// FromSizeSets converts stored sets to the wrapped wire form.
func FromSizeSets(sets []models.SizeSet) SetsResponse {
	out := make([]SizeSetResponse, 0, len(sets))
	for i := range sets {
		out = append(out, FromSizeSet(&sets[i]))
	}
	return SetsResponse{Sets: out}
}

// PreviewResponse is the HTTP response for POST .../preview: the size the
// live matching pipeline would return for the width, with the rule and
// branch that produced it.
type PreviewResponse struct {
	Size   int    `json:"size"`
	Fit    string `json:"fit"`
	RuleID string `json:"rule_id"`
	Branch string `json:"branch"`
}

// FromMatch converts a match outcome to the preview response.
func FromMatch(m *sizing.Match) PreviewResponse {
	return PreviewResponse{
		Size:   m.Size,
		Fit:    string(m.Fit),
		RuleID: m.RuleID.String(),
		Branch: string(m.Branch),
	}
}
