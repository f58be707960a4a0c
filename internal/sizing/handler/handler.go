package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sevsizer/internal/sizing"
	"sevsizer/pkg/domain"
	"sevsizer/pkg/platform/httputil"
	"sevsizer/pkg/requestcontext"
)

// Service defines the interface for recommendation operations.
type Service interface {
	Recommend(ctx context.Context, measurementID domain.MeasurementID, chartID domain.ChartID) (*sizing.Recommendation, error)
	GetRecommendation(ctx context.Context, id domain.RecommendationID) (*sizing.Recommendation, error)
	ListForMeasurement(ctx context.Context, measurementID domain.MeasurementID) ([]sizing.Recommendation, error)
}

// Handler wires recommendation endpoints to the sizing service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a sizing handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts recommendation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/recommendations", h.HandleRecommend)
	r.Get("/recommendations/{recommendationID}", h.HandleGet)
	r.Get("/measurements/{measurementID}/recommendations", h.HandleListForMeasurement)
}

// HandleRecommend handles POST /recommendations requests.
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	// Decode and validate request
	req, ok := httputil.DecodeAndPrepare[RecommendRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	// Call service
	rec, err := h.service.Recommend(ctx, req.ParsedMeasurementID(), req.ParsedChartID())
	if err != nil {
		h.logger.ErrorContext(ctx, "recommendation failed",
			"request_id", requestID,
			"measurement_id", req.MeasurementID,
			"chart_id", req.ParsedChartID().String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	// Log success
	h.logger.InfoContext(ctx, "recommendation recorded",
		"request_id", requestID,
		"recommendation_id", rec.ID.String(),
		"measurement_id", rec.MeasurementID.String(),
		"chart_id", rec.ChartID.String(),
		"size_profile", rec.Profile,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	// Return response
	httputil.WriteJSON(w, http.StatusOK, FromRecommendation(rec))
}

// HandleGet handles GET /recommendations/{recommendationID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseRecommendationID(chi.URLParam(r, "recommendationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rec, err := h.service.GetRecommendation(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRecord(rec))
}

// HandleListForMeasurement handles GET /measurements/{measurementID}/recommendations
// requests. Records come back newest first.
func (h *Handler) HandleListForMeasurement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseMeasurementID(chi.URLParam(r, "measurementID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	recs, err := h.service.ListForMeasurement(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRecords(recs))
}
