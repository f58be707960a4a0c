package handler

import (
	"time"

	"sevsizer/internal/sizing"
)

// RecommendResponse is the HTTP response for POST /recommendations. The
// four top-level keys are contractual; booking clients parse exactly this
// shape, so it changes only with a coordinated client release.
type RecommendResponse struct {
	MeasurementID string                    `json:"measurement_id"`
	SizeProfile   string                    `json:"size_profile"`
	PerFinger     map[string]FingerResponse `json:"per_finger"`
	MatchingSets  []SetResponse             `json:"matching_sets"`
}

// FingerResponse is one finger's entry under per_finger.
type FingerResponse struct {
	Size      int     `json:"size"`
	SizeLabel string  `json:"size_label"`
	WidthMm   float64 `json:"width_mm"`
	Fit       string  `json:"fit"`
}

// SetResponse is one ranked set under matching_sets. The set ID crosses
// the wire as a string even though it is numeric internally.
type SetResponse struct {
	SetName    string `json:"set_name"`
	SetID      string `json:"set_id"`
	ExactMatch bool   `json:"exact_match"`
	Diff       int    `json:"diff"`
}

// RecordResponse is the stored-record shape for the GET endpoints: the
// recommend contract plus identity and timing.
type RecordResponse struct {
	ID            string                    `json:"id"`
	ChartID       string                    `json:"chart_id"`
	MeasurementID string                    `json:"measurement_id"`
	SizeProfile   string                    `json:"size_profile"`
	PerFinger     map[string]FingerResponse `json:"per_finger"`
	MatchingSets  []SetResponse             `json:"matching_sets"`
	CreatedAt     time.Time                 `json:"created_at"`
}

// FromRecommendation converts a recommendation to the recommend response.
func FromRecommendation(rec *sizing.Recommendation) *RecommendResponse {
	return &RecommendResponse{
		MeasurementID: rec.MeasurementID.String(),
		SizeProfile:   rec.Profile,
		PerFinger:     perFingerResponse(rec.PerFinger),
		MatchingSets:  setResponses(rec.MatchingSets),
	}
}

// FromRecord converts a stored recommendation to the record response.
func FromRecord(rec *sizing.Recommendation) *RecordResponse {
	return &RecordResponse{
		ID:            rec.ID.String(),
		ChartID:       rec.ChartID.String(),
		MeasurementID: rec.MeasurementID.String(),
		SizeProfile:   rec.Profile,
		PerFinger:     perFingerResponse(rec.PerFinger),
		MatchingSets:  setResponses(rec.MatchingSets),
		CreatedAt:     rec.CreatedAt,
	}
}

// FromRecords converts a recommendation history to record responses.
func FromRecords(recs []sizing.Recommendation) []*RecordResponse {
	out := make([]*RecordResponse, 0, len(recs))
	for i := range recs {
		out = append(out, FromRecord(&recs[i]))
	}
	return out
}

func perFingerResponse(results [5]sizing.FingerResult) map[string]FingerResponse {
	out := make(map[string]FingerResponse, len(results))
	for _, r := range results {
		out[r.Finger.String()] = FingerResponse{
			Size:      r.Size,
			SizeLabel: r.Label,
			WidthMm:   r.WidthMm,
			Fit:       string(r.Fit),
		}
	}
	return out
}

// setResponses never returns nil; matching_sets marshals as [] when no
// set is close enough.
func setResponses(sets []sizing.SetMatch) []SetResponse {
	out := make([]SetResponse, 0, len(sets))
	for _, s := range sets {
		out = append(out, SetResponse{
			SetName:    s.SetName,
			SetID:      s.SetID.String(),
			ExactMatch: s.Exact,
			Diff:       s.Diff,
		})
	}
	return out
}
