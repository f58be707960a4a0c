package handler

import (
	"time"

	"sevsizer/internal/measurement/models"
	"sevsizer/pkg/domain"
)

// MeasurementResponse is the full-record wire form of a measurement.
// Source IDs are only present on merged records.
type MeasurementResponse struct {
	ID                 string                   `json:"id"`
	Hand               string                   `json:"hand"`
	PhotoType          string                   `json:"photo_type"`
	PxPerMm            float64                  `json:"px_per_mm"`
	Fingers            map[string]FingerPayload `json:"fingers"`
	OverallConfidence  float64                  `json:"overall_confidence"`
	Warnings           []string                 `json:"warnings,omitempty"`
	ThumbSourceID      string                   `json:"thumb_source_id,omitempty"`
	FourFingerSourceID string                   `json:"four_finger_source_id,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
}

// FromMeasurement converts a stored measurement to its wire form.
func FromMeasurement(m *models.Measurement) MeasurementResponse {
	resp := MeasurementResponse{
		ID:                m.ID.String(),
		Hand:              m.Hand.String(),
		PhotoType:         m.PhotoType.String(),
		PxPerMm:           m.PxPerMm,
		Fingers:           fingerPayloads(m.Fingers),
		OverallConfidence: m.OverallConfidence,
		Warnings:          m.Warnings,
		CreatedAt:         m.CreatedAt,
	}
	if m.ThumbSourceID != nil {
		resp.ThumbSourceID = m.ThumbSourceID.String()
	}
	if m.FourFingerSourceID != nil {
		resp.FourFingerSourceID = m.FourFingerSourceID.String()
	}
	return resp
}

func fingerPayloads(fingers map[domain.FingerName]models.FingerMeasurement) map[string]FingerPayload {
	out := make(map[string]FingerPayload, len(fingers))
	for finger, fm := range fingers {
		out[finger.String()] = FingerPayload{
			WidthMm:              fm.WidthMm,
			LengthMm:             fm.LengthMm,
			CurveAdjustedWidthMm: fm.CurveAdjustedWidthMm,
			Confidence:           fm.Confidence,
		}
	}
	return out
}

// SummaryResponse is the list-view projection of a measurement.
type SummaryResponse struct {
	ID                string    `json:"id"`
	Hand              string    `json:"hand"`
	PhotoType         string    `json:"photo_type"`
	PxPerMm           float64   `json:"px_per_mm"`
	OverallConfidence float64   `json:"overall_confidence"`
	CreatedAt         time.Time `json:"created_at"`
}

// ListResponse wraps the summaries under a named key.
type ListResponse struct {
	Measurements []SummaryResponse `json:"measurements"`
}

// FromSummaries converts store summaries to the wrapped wire form.
func FromSummaries(summaries []models.Summary) ListResponse {
	out := make([]SummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, SummaryResponse{
			ID:                s.ID.String(),
			Hand:              s.Hand.String(),
			PhotoType:         s.PhotoType.String(),
			PxPerMm:           s.PxPerMm,
			OverallConfidence: s.OverallConfidence,
			CreatedAt:         s.CreatedAt,
		})
	}
	return ListResponse{Measurements: out}
}
