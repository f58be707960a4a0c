package handler

import (
	"strings"

	"sevsizer/internal/chart"
	"sevsizer/internal/chart/models"
	"sevsizer/pkg/domain"
	dErrors "sevsizer/pkg/domain-errors"
)

// RuleRequest is the HTTP request body for creating or updating a size
// rule. Updates replace the full rule, so both verbs share this shape.
// Range checks on the numbers live in the model; the request only parses
// the finger scope.
type RuleRequest struct {
	Finger     string  `json:"finger"`
	MinWidthMm float64 `json:"min_width_mm"`
	MaxWidthMm float64 `json:"max_width_mm"`
	MappedSize int     `json:"mapped_size"`
	Priority   int     `json:"priority"`
	Active     *bool   `json:"active"`

	// Parsed values (populated by Validate)
	parsed chart.RuleInput
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *RuleRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	}

	finger, err := models.ParseFingerScope(strings.TrimSpace(r.Finger))
	if err != nil {
		return err
	}

	// An omitted active flag means active.
	active := true
	if r.Active != nil {
		active = *r.Active
	}

	r.parsed = chart.RuleInput{
		Finger:     finger,
		MinWidthMm: r.MinWidthMm,
		MaxWidthMm: r.MaxWidthMm,
		MappedSize: r.MappedSize,
		Priority:   r.Priority,
		Active:     active,
	}
	return nil
}

// ParsedInput returns the validated rule input.
func (r *RuleRequest) ParsedInput() chart.RuleInput {
	return r.parsed
}

// ConfigRequest is the HTTP request body for PUT .../config.
type ConfigRequest struct {
	BetweenSizesPolicy string  `json:"between_sizes_policy"`
	ToleranceMm        float64 `json:"tolerance_mm"`

	// Parsed values (populated by Validate)
	parsedPolicy models.BetweenSizesPolicy
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ConfigRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	}

	policy, err := models.ParseBetweenSizesPolicy(strings.TrimSpace(r.BetweenSizesPolicy))
	if err != nil {
		return err
	}
	r.parsedPolicy = policy
	return nil
}

// ParsedPolicy returns the validated between-sizes policy.
func (r *ConfigRequest) ParsedPolicy() models.BetweenSizesPolicy {
	return r.parsedPolicy
}

// CatalogSizeRequest is the HTTP request body for POST .../catalog. Label
// length limits live in the model.
type CatalogSizeRequest struct {
	SizeNumber int    `json:"size_number"`
	Label      string `json:"label"`
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CatalogSizeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	}
	r.Label = strings.TrimSpace(r.Label)
	return nil
}

// SizesPayload carries one size per finger, thumb through pinky.
type SizesPayload struct {
	Thumb  int `json:"thumb"`
	Index  int `json:"index"`
	Middle int `json:"middle"`
	Ring   int `json:"ring"`
	Pinky  int `json:"pinky"`
}

// SizeSetRequest is the HTTP request body for POST .../sets.
type SizeSetRequest struct {
	Name       string       `json:"name"`
	Sizes      SizesPayload `json:"sizes"`
	VariantRef string       `json:"variant_ref"`
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *SizeSetRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	return nil
}

// ParsedInput returns the set input for the service.
func (r *SizeSetRequest) ParsedInput() chart.SetInput {
	return chart.SetInput{
		Name: r.Name,
		Sizes: models.FingerSizes{
			Thumb:  r.Sizes.Thumb,
			Index:  r.Sizes.Index,
			Middle: r.Sizes.Middle,
			Ring:   r.Sizes.Ring,
			Pinky:  r.Sizes.Pinky,
		},
		VariantRef: strings.TrimSpace(r.VariantRef),
	}
}

// PreviewRequest is the HTTP request body for POST .../preview: one
// hypothetical width resolved against the chart's live rules.
type PreviewRequest struct {
	Finger  string  `json:"finger"`
	WidthMm float64 `json:"width_mm"`

	// Parsed values (populated by Validate)
	parsedFinger domain.FingerName
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *PreviewRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	}

	finger, err := domain.ParseFingerName(strings.TrimSpace(r.Finger))
	if err != nil {
		return err
	}
	r.parsedFinger = finger

	if r.WidthMm <= 0 {
		return dErrors.New(dErrors.CodeValidation, "width_mm must be positive")
	}
	return nil
}

// ParsedFinger returns the validated finger name.
func (r *PreviewRequest) ParsedFinger() domain.FingerName {
	return r.parsedFinger
}
