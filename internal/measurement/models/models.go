// Package models defines hand measurements as captured by the photo
// pipeline and the invariants they must satisfy before any sizing math
// runs against them.
package models

import (
	"time"

	"sevsizer/pkg/domain"
	dErrors "sevsizer/pkg/domain-errors"
)

// Hand identifies which hand was photographed.
type Hand string

const (
	HandLeft  Hand = "left"
	HandRight Hand = "right"
)

// ParseHand validates and converts a raw hand value.
func ParseHand(raw string) (Hand, error) {
	hand := Hand(raw)
	if !hand.IsValid() {
		return "", dErrors.Newf(dErrors.CodeValidation, "invalid hand: %q", raw)
	}
	return hand, nil
}

func (h Hand) IsValid() bool {
	return h == HandLeft || h == HandRight
}

func (h Hand) String() string { return string(h) }

// PhotoType identifies which capture produced a measurement. Merged
// measurements are derived by combining a thumb capture with a
// four-finger capture and are never ingested directly.
type PhotoType string

const (
	PhotoTypeFull       PhotoType = "full"
	PhotoTypeFourFinger PhotoType = "four_finger"
	PhotoTypeThumb      PhotoType = "thumb"
	PhotoTypeMerged     PhotoType = "merged"
)

// ParsePhotoType validates and converts a raw photo type value.
func ParsePhotoType(raw string) (PhotoType, error) {
	photoType := PhotoType(raw)
	if !photoType.IsValid() {
		return "", dErrors.Newf(dErrors.CodeValidation, "invalid photo_type: %q", raw)
	}
	return photoType, nil
}

func (p PhotoType) IsValid() bool {
	switch p {
	case PhotoTypeFull, PhotoTypeFourFinger, PhotoTypeThumb, PhotoTypeMerged:
		return true
	}
	return false
}

// Ingestable reports whether the photo pipeline may submit this type
// directly. Merged records only exist as merge results.
func (p PhotoType) Ingestable() bool {
	return p == PhotoTypeFull || p == PhotoTypeFourFinger || p == PhotoTypeThumb
}

func (p PhotoType) String() string { return string(p) }

// Fingers covered by each photo type. A full or merged measurement
// carries the whole hand, a four-finger capture everything but the
// thumb, a thumb capture the thumb alone.
func (p PhotoType) Fingers() []domain.FingerName {
	switch p {
	case PhotoTypeFourFinger:
		return []domain.FingerName{domain.FingerIndex, domain.FingerMiddle, domain.FingerRing, domain.FingerPinky}
	case PhotoTypeThumb:
		return []domain.FingerName{domain.FingerThumb}
	default:
		return domain.FingerOrder[:]
	}
}

// FingerMeasurement holds the extracted dimensions for one finger.
// CurveAdjustedWidthMm compensates for nail curvature and is the width
// all size matching runs against.
type FingerMeasurement struct {
	WidthMm              float64 `json:"width_mm"`
	LengthMm             float64 `json:"length_mm"`
	CurveAdjustedWidthMm float64 `json:"curve_adjusted_width_mm"`
	Confidence           float64 `json:"confidence"`
}

func (f FingerMeasurement) validate(finger domain.FingerName) error {
	if f.WidthMm <= 0 {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "finger %s: width_mm must be positive", finger)
	}
	if f.CurveAdjustedWidthMm <= 0 {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "finger %s: curve_adjusted_width_mm must be positive", finger)
	}
	if f.LengthMm < 0 {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "finger %s: length_mm must not be negative", finger)
	}
	if f.Confidence < 0 || f.Confidence > 1 {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "finger %s: confidence must be between 0 and 1", finger)
	}
	return nil
}

// Measurement is one processed hand capture. Fingers holds exactly the
// fingers the photo type covers. Source IDs are set on merged records
// only and point at the captures the merge combined.
type Measurement struct {
	ID                 domain.MeasurementID                    `json:"id"`
	Hand               Hand                                    `json:"hand"`
	PhotoType          PhotoType                               `json:"photo_type"`
	PxPerMm            float64                                 `json:"px_per_mm"`
	Fingers            map[domain.FingerName]FingerMeasurement `json:"fingers"`
	OverallConfidence  float64                                 `json:"overall_confidence"`
	Warnings           []string                                `json:"warnings,omitempty"`
	ThumbSourceID      *domain.MeasurementID                   `json:"thumb_source_id,omitempty"`
	FourFingerSourceID *domain.MeasurementID                   `json:"four_finger_source_id,omitempty"`
	CreatedAt          time.Time                               `json:"created_at"`
}

// NewMeasurement constructs a validated measurement with a fresh ID.
func NewMeasurement(hand Hand, photoType PhotoType, pxPerMm float64, fingers map[domain.FingerName]FingerMeasurement, overallConfidence float64, warnings []string, now time.Time) (*Measurement, error) {
	m := &Measurement{
		ID:                domain.NewMeasurementID(),
		Hand:              hand,
		PhotoType:         photoType,
		PxPerMm:           pxPerMm,
		Fingers:           fingers,
		OverallConfidence: overallConfidence,
		Warnings:          warnings,
		CreatedAt:         now,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the measurement invariants.
func (m *Measurement) Validate() error {
	if !m.Hand.IsValid() {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "invalid hand: %q", m.Hand)
	}
	if !m.PhotoType.IsValid() {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "invalid photo_type: %q", m.PhotoType)
	}
	if m.PxPerMm <= 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "px_per_mm must be positive")
	}
	if m.OverallConfidence < 0 || m.OverallConfidence > 1 {
		return dErrors.New(dErrors.CodeInvariantViolation, "overall_confidence must be between 0 and 1")
	}

	covered := m.PhotoType.Fingers()
	if len(m.Fingers) != len(covered) {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "photo_type %s requires exactly %d fingers, got %d", m.PhotoType, len(covered), len(m.Fingers))
	}
	for _, finger := range covered {
		fm, ok := m.Fingers[finger]
		if !ok {
			return dErrors.Newf(dErrors.CodeInvariantViolation, "photo_type %s requires finger %s", m.PhotoType, finger)
		}
		if err := fm.validate(finger); err != nil {
			return err
		}
	}
	return nil
}

// WholeHand reports whether the measurement covers all five fingers and
// can feed a recommendation on its own.
func (m *Measurement) WholeHand() bool {
	return m.PhotoType == PhotoTypeFull || m.PhotoType == PhotoTypeMerged
}

// Summary is the list-view projection of a measurement: enough to pick a
// record out of recent history without shipping the finger payloads.
type Summary struct {
	ID                domain.MeasurementID `json:"id"`
	Hand              Hand                 `json:"hand"`
	PhotoType         PhotoType            `json:"photo_type"`
	PxPerMm           float64              `json:"px_per_mm"`
	OverallConfidence float64              `json:"overall_confidence"`
	CreatedAt         time.Time            `json:"created_at"`
}

// Summarize projects the measurement into its list form.
func (m *Measurement) Summarize() Summary {
	return Summary{
		ID:                m.ID,
		Hand:              m.Hand,
		PhotoType:         m.PhotoType,
		PxPerMm:           m.PxPerMm,
		OverallConfidence: m.OverallConfidence,
		CreatedAt:         m.CreatedAt,
	}
}

// Widths returns the curve-adjusted width per covered finger, the value
// size matching consumes.
func (m *Measurement) Widths() map[domain.FingerName]float64 {
	widths := make(map[domain.FingerName]float64, len(m.Fingers))
	for finger, fm := range m.Fingers {
		widths[finger] = fm.CurveAdjustedWidthMm
	}
	return widths
}
