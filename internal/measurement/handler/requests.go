package handler

import (
	"strings"

	"sevsizer/internal/measurement"
	"sevsizer/internal/measurement/models"
	"sevsizer/pkg/domain"
	dErrors "sevsizer/pkg/domain-errors"
)

// IngestRequest is the HTTP request body for POST /measurements. Range
// checks on the numbers live in the model; the request only parses the
// enums and finger names.
type IngestRequest struct {
	Hand              string                   `json:"hand"`
	PhotoType         string                   `json:"photo_type"`
	PxPerMm           float64                  `json:"px_per_mm"`
	Fingers           map[string]FingerPayload `json:"fingers"`
	OverallConfidence float64                  `json:"overall_confidence"`
	Warnings          []string                 `json:"warnings"`

	// Parsed values (populated by Validate)
	parsed measurement.IngestInput
}

// FingerPayload carries one finger's extracted dimensions.
type FingerPayload struct {
	WidthMm              float64 `json:"width_mm"`
	LengthMm             float64 `json:"length_mm"`
	CurveAdjustedWidthMm float64 `json:"curve_adjusted_width_mm"`
	Confidence           float64 `json:"confidence"`
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *IngestRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	}

	hand, err := models.ParseHand(strings.TrimSpace(r.Hand))
	if err != nil {
		return err
	}
	photoType, err := models.ParsePhotoType(strings.TrimSpace(r.PhotoType))
	if err != nil {
		return err
	}

	fingers := make(map[domain.FingerName]models.FingerMeasurement, len(r.Fingers))
	for name, payload := range r.Fingers {
		finger, err := domain.ParseFingerName(name)
		if err != nil {
			return err
		}
		fingers[finger] = models.FingerMeasurement{
			WidthMm:              payload.WidthMm,
			LengthMm:             payload.LengthMm,
			CurveAdjustedWidthMm: payload.CurveAdjustedWidthMm,
			Confidence:           payload.Confidence,
		}
	}

	r.parsed = measurement.IngestInput{
		Hand:              hand,
		PhotoType:         photoType,
		PxPerMm:           r.PxPerMm,
		Fingers:           fingers,
		OverallConfidence: r.OverallConfidence,
		Warnings:          r.Warnings,
	}
	return nil
}

// ParsedInput returns the validated ingest input.
func (r *IngestRequest) ParsedInput() measurement.IngestInput {
	return r.parsed
}

// MergeRequest is the HTTP request body for POST /measurements/merge.
type MergeRequest struct {
	ThumbMeasurementID      string `json:"thumb_measurement_id"`
	FourFingerMeasurementID string `json:"four_finger_measurement_id"`

	// Parsed values (populated by Validate)
	parsedThumbID      domain.MeasurementID
	parsedFourFingerID domain.MeasurementID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *MergeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	}

	r.ThumbMeasurementID = strings.TrimSpace(r.ThumbMeasurementID)
	r.FourFingerMeasurementID = strings.TrimSpace(r.FourFingerMeasurementID)
	if r.ThumbMeasurementID == "" || r.FourFingerMeasurementID == "" {
		return dErrors.New(dErrors.CodeValidation, "both thumb_measurement_id and four_finger_measurement_id are required")
	}

	thumbID, err := domain.ParseMeasurementID(r.ThumbMeasurementID)
	if err != nil {
		return err
	}
	r.parsedThumbID = thumbID

	fourFingerID, err := domain.ParseMeasurementID(r.FourFingerMeasurementID)
	if err != nil {
		return err
	}
	r.parsedFourFingerID = fourFingerID
	return nil
}

// ParsedThumbID returns the validated thumb measurement ID.
func (r *MergeRequest) ParsedThumbID() domain.MeasurementID {
	return r.parsedThumbID
}

// ParsedFourFingerID returns the validated four-finger measurement ID.
func (r *MergeRequest) ParsedFourFingerID() domain.MeasurementID {
	return r.parsedFourFingerID
}
