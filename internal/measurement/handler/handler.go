package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"sevsizer/internal/measurement"
	"sevsizer/internal/measurement/models"
	"sevsizer/pkg/domain"
	dErrors "sevsizer/pkg/domain-errors"
	"sevsizer/pkg/platform/httputil"
	"sevsizer/pkg/requestcontext"
)

// Service defines the interface for measurement operations.
type Service interface {
	Ingest(ctx context.Context, input measurement.IngestInput) (*models.Measurement, error)
	Get(ctx context.Context, id domain.MeasurementID) (*models.Measurement, error)
	List(ctx context.Context, limit int) ([]models.Summary, error)
	Merge(ctx context.Context, thumbID, fourFingerID domain.MeasurementID) (*models.Measurement, error)
}

// Handler wires measurement endpoints to the measurement service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a measurement handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts measurement endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/measurements", h.HandleIngest)
	r.Get("/measurements", h.HandleList)
	r.Get("/measurements/{measurementID}", h.HandleGet)
	r.Post("/measurements/merge", h.HandleMerge)
}

// HandleIngest handles POST /measurements requests.
func (h *Handler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	// Decode and validate request
	req, ok := httputil.DecodeAndPrepare[IngestRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	// Call service
	m, err := h.service.Ingest(ctx, req.ParsedInput())
	if err != nil {
		h.logger.ErrorContext(ctx, "measurement ingest failed",
			"request_id", requestID,
			"photo_type", req.PhotoType,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	// Log success
	h.logger.InfoContext(ctx, "measurement ingested",
		"request_id", requestID,
		"measurement_id", m.ID.String(),
		"photo_type", m.PhotoType.String(),
		"hand", m.Hand.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	// Return response
	httputil.WriteJSON(w, http.StatusCreated, FromMeasurement(m))
}

// HandleList handles GET /measurements requests. Summaries come back
// newest first; limit defaults and ceilings live in the service.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be an integer"))
			return
		}
		limit = parsed
	}

	summaries, err := h.service.List(ctx, limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromSummaries(summaries))
}

// HandleGet handles GET /measurements/{measurementID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseMeasurementID(chi.URLParam(r, "measurementID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	m, err := h.service.Get(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromMeasurement(m))
}

// HandleMerge handles POST /measurements/merge requests.
func (h *Handler) HandleMerge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	// Decode and validate request
	req, ok := httputil.DecodeAndPrepare[MergeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	// Call service
	m, err := h.service.Merge(ctx, req.ParsedThumbID(), req.ParsedFourFingerID())
	if err != nil {
		h.logger.ErrorContext(ctx, "measurement merge failed",
			"request_id", requestID,
			"thumb_measurement_id", req.ThumbMeasurementID,
			"four_finger_measurement_id", req.FourFingerMeasurementID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	// Log success
	h.logger.InfoContext(ctx, "measurements merged",
		"request_id", requestID,
		"measurement_id", m.ID.String(),
		"thumb_measurement_id", req.ThumbMeasurementID,
		"four_finger_measurement_id", req.FourFingerMeasurementID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	// Return response
	httputil.WriteJSON(w, http.StatusCreated, FromMeasurement(m))
}
