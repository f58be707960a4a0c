package domain

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	dErrors "sevsizer/pkg/domain-errors"
)

// Typed identifiers. Each entity gets its own type so a measurement ID can
// never be passed where a recommendation ID is expected; the compiler
// enforces what code review would otherwise have to catch.
//
// Measurement and recommendation IDs are prefixed short hex strings
// ("msr_1f2a3b4c", "rec_0d9e8f7a") minted from a v4 UUID. Chart IDs are
// operator-chosen slugs. Rule, size and set IDs are store-assigned integers.

type (
	// MeasurementID identifies one captured hand measurement.
	MeasurementID string

	// RecommendationID identifies one recorded sizing recommendation.
	RecommendationID string

	// ChartID identifies a size chart (a rule/config/catalog/set namespace).
	ChartID string

	// RuleID identifies a size rule within a chart.
	RuleID int64

	// SizeSetID identifies a curated size set within a chart.
	SizeSetID int64

	// CatalogSizeID identifies a catalog size row within a chart.
	CatalogSizeID int64
)

// DefaultChartID is the chart used when a request does not name one.
const DefaultChartID ChartID = "default"

const (
	measurementPrefix    = "msr_"
	recommendationPrefix = "rec_"
	shortHexLen          = 8
	maxChartIDLen        = 64
)

// NewMeasurementID mints a fresh measurement ID.
func NewMeasurementID() MeasurementID {
	return MeasurementID(measurementPrefix + shortHex())
}

// NewRecommendationID mints a fresh recommendation ID.
func NewRecommendationID() RecommendationID {
	return RecommendationID(recommendationPrefix + shortHex())
}

func shortHex() string {
	u := uuid.New()
	return strings.ReplaceAll(u.String(), "-", "")[:shortHexLen]
}

// ParseMeasurementID constructs a MeasurementID from external input.
//
// Errors: returns CodeValidation when the value is not a well-formed
// measurement ID; no other errors are expected.
func ParseMeasurementID(s string) (MeasurementID, error) {
	if err := checkPrefixedHex(s, measurementPrefix); err != nil {
		return "", err
	}
	return MeasurementID(s), nil
}

// ParseRecommendationID constructs a RecommendationID from external input.
func ParseRecommendationID(s string) (RecommendationID, error) {
	if err := checkPrefixedHex(s, recommendationPrefix); err != nil {
		return "", err
	}
	return RecommendationID(s), nil
}

func checkPrefixedHex(s, prefix string) error {
	if s == "" {
		return dErrors.New(dErrors.CodeValidation, "id cannot be empty")
	}
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok || len(rest) != shortHexLen {
		return dErrors.Newf(dErrors.CodeValidation, "malformed id %q", s)
	}
	for _, c := range []byte(rest) {
		if !isHexLower(c) {
			return dErrors.Newf(dErrors.CodeValidation, "malformed id %q", s)
		}
	}
	return nil
}

func isHexLower(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}

// ParseChartID constructs a ChartID from external input. Chart IDs are slugs
// of lowercase letters, digits, underscore and dash, at most 64 bytes.
func ParseChartID(s string) (ChartID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "chart id cannot be empty")
	}
	if len(s) > maxChartIDLen {
		return "", dErrors.New(dErrors.CodeValidation, "chart id too long")
	}
	for _, c := range []byte(s) {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-':
		default:
			return "", dErrors.Newf(dErrors.CodeValidation, "malformed chart id %q", s)
		}
	}
	return ChartID(s), nil
}

// ParseRuleID constructs a RuleID from a decimal route parameter.
func ParseRuleID(s string) (RuleID, error) {
	n, err := parsePositiveInt(s, "rule id")
	if err != nil {
		return 0, err
	}
	return RuleID(n), nil
}

// ParseSizeSetID constructs a SizeSetID from a decimal route parameter.
func ParseSizeSetID(s string) (SizeSetID, error) {
	n, err := parsePositiveInt(s, "set id")
	if err != nil {
		return 0, err
	}
	return SizeSetID(n), nil
}

// ParseCatalogSizeID constructs a CatalogSizeID from a decimal route parameter.
func ParseCatalogSizeID(s string) (CatalogSizeID, error) {
	n, err := parsePositiveInt(s, "size id")
	if err != nil {
		return 0, err
	}
	return CatalogSizeID(n), nil
}

func parsePositiveInt(s, what string) (int64, error) {
	if s == "" {
		return 0, dErrors.Newf(dErrors.CodeValidation, "%s cannot be empty", what)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, dErrors.Newf(dErrors.CodeValidation, "malformed %s %q", what, s)
	}
	return n, nil
}

func (id MeasurementID) String() string    { return string(id) }
func (id RecommendationID) String() string { return string(id) }
func (id ChartID) String() string          { return string(id) }

// String renders the set ID the way the wire contract carries it.
func (id SizeSetID) String() string { return strconv.FormatInt(int64(id), 10) }

func (id RuleID) String() string        { return strconv.FormatInt(int64(id), 10) }
func (id CatalogSizeID) String() string { return strconv.FormatInt(int64(id), 10) }
