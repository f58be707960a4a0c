package handler

import (
	"strings"

	"sevsizer/pkg/domain"
	dErrors "sevsizer/pkg/domain-errors"
)

// RecommendRequest is the HTTP request body for POST /recommendations.
type RecommendRequest struct {
	MeasurementID string `json:"measurement_id"`
	ChartID       string `json:"chart_id"`

	// Parsed values (populated by Validate)
	parsedMeasurementID domain.MeasurementID
	parsedChartID       domain.ChartID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *RecommendRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	}

	r.MeasurementID = strings.TrimSpace(r.MeasurementID)
	if r.MeasurementID == "" {
		return dErrors.New(dErrors.CodeValidation, "measurement_id is required")
	}
	measurementID, err := domain.ParseMeasurementID(r.MeasurementID)
	if err != nil {
		return err
	}
	r.parsedMeasurementID = measurementID

	// An absent chart means the default chart, not an error.
	r.ChartID = strings.TrimSpace(r.ChartID)
	if r.ChartID == "" {
		r.parsedChartID = domain.DefaultChartID
		return nil
	}
	chartID, err := domain.ParseChartID(r.ChartID)
	if err != nil {
		return err
	}
	r.parsedChartID = chartID
	return nil
}

// ParsedMeasurementID returns the validated measurement ID.
func (r *RecommendRequest) ParsedMeasurementID() domain.MeasurementID {
	return r.parsedMeasurementID
}

// ParsedChartID returns the validated chart ID, defaulted when the request
// named none.
func (r *RecommendRequest) ParsedChartID() domain.ChartID {
	return r.parsedChartID
}
