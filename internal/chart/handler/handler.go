package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sevsizer/internal/chart"
	"sevsizer/internal/chart/models"
	"sevsizer/internal/sizing"
	"sevsizer/pkg/domain"
	"sevsizer/pkg/platform/httputil"
	"sevsizer/pkg/requestcontext"
)

// Service defines the interface for chart administration.
type Service interface {
	CreateRule(ctx context.Context, chartID domain.ChartID, in chart.RuleInput) (*models.SizeRule, error)
	ListRules(ctx context.Context, chartID domain.ChartID) ([]models.SizeRule, error)
	UpdateRule(ctx context.Context, chartID domain.ChartID, id domain.RuleID, in chart.RuleInput) (*models.SizeRule, error)
	DeleteRule(ctx context.Context, chartID domain.ChartID, id domain.RuleID) error
	GetConfig(ctx context.Context, chartID domain.ChartID) (*models.RuleConfig, error)
	PutConfig(ctx context.Context, chartID domain.ChartID, policy models.BetweenSizesPolicy, toleranceMm float64) (*models.RuleConfig, error)
	AddCatalogSize(ctx context.Context, chartID domain.ChartID, sizeNumber int, label string) (*models.CatalogSize, error)
	ListCatalog(ctx context.Context, chartID domain.ChartID) ([]models.CatalogSize, error)
	DeleteCatalogSize(ctx context.Context, chartID domain.ChartID, id domain.CatalogSizeID) error
	CreateSet(ctx context.Context, chartID domain.ChartID, in chart.SetInput) (*models.SizeSet, error)
	ListSets(ctx context.Context, chartID domain.ChartID) ([]models.SizeSet, error)
	DeleteSet(ctx context.Context, chartID domain.ChartID, id domain.SizeSetID) error
}

// Previewer resolves one hypothetical width against a chart's rules.
type Previewer interface {
	PreviewFinger(ctx context.Context, chartID domain.ChartID, finger domain.FingerName, widthMm float64) (*sizing.Match, error)
}

// Handler wires chart administration endpoints to the chart service.
type Handler struct {
	service Service
	preview Previewer
	logger  *slog.Logger
}

// New constructs a chart handler with its dependencies.
func New(service Service, preview Previewer, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		preview: preview,
		logger:  logger,
	}
}

// Register mounts chart administration endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/charts/{chartID}", func(r chi.Router) {
		r.Get("/rules", h.HandleListRules)
		r.Post("/rules", h.HandleCreateRule)
		r.Put("/rules/{ruleID}", h.HandleUpdateRule)
		r.Delete("/rules/{ruleID}", h.HandleDeleteRule)
		r.Get("/config", h.HandleGetConfig)
		r.Put("/config", h.HandlePutConfig)
		r.Get("/catalog", h.HandleListCatalog)
		r.Post("/catalog", h.HandleAddCatalogSize)
		r.Delete("/catalog/{sizeID}", h.HandleDeleteCatalogSize)
		r.Get("/sets", h.HandleListSets)
		r.Post("/sets", h.HandleCreateSet)
		r.Delete("/sets/{setID}", h.HandleDeleteSet)
		r.Post("/preview", h.HandlePreview)
	})
}

// HandleCreateRule handles POST /charts/{chartID}/rules requests.
func (h *Handler) HandleCreateRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	chartID, err := parseChartID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	// Decode and validate request
	req, ok := httputil.DecodeAndPrepare[RuleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	// Call service
	rule, err := h.service.CreateRule(ctx, chartID, req.ParsedInput())
	if err != nil {
		h.logger.ErrorContext(ctx, "rule create failed",
			"request_id", requestID,
			"chart_id", chartID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	// Log success
	h.logger.InfoContext(ctx, "rule created",
		"request_id", requestID,
		"chart_id", chartID.String(),
		"rule_id", rule.ID.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	// Return response
	httputil.WriteJSON(w, http.StatusCreated, FromRule(rule))
}

// HandleListRules handles GET /charts/{chartID}/rules requests. The admin
// view includes inactive rules.
func (h *Handler) HandleListRules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	chartID, err := parseChartID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rules, err := h.service.ListRules(ctx, chartID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRules(rules))
}

// HandleUpdateRule handles PUT /charts/{chartID}/rules/{ruleID} requests.
func (h *Handler) HandleUpdateRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	chartID, err := parseChartID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	id, err := domain.ParseRuleID(chi.URLParam(r, "ruleID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	// Decode and validate request
	req, ok := httputil.DecodeAndPrepare[RuleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	// Call service
	rule, err := h.service.UpdateRule(ctx, chartID, id, req.ParsedInput())
	if err != nil {
		h.logger.ErrorContext(ctx, "rule update failed",
			"request_id", requestID,
			"chart_id", chartID.String(),
			"rule_id", id.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	// Log success
	h.logger.InfoContext(ctx, "rule updated",
		"request_id", requestID,
		"chart_id", chartID.String(),
		"rule_id", rule.ID.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	// Return response
	httputil.WriteJSON(w, http.StatusOK, FromRule(rule))
}

// HandleDeleteRule handles DELETE /charts/{chartID}/rules/{ruleID} requests.
func (h *Handler) HandleDeleteRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	chartID, err := parseChartID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	id, err := domain.ParseRuleID(chi.URLParam(r, "ruleID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.DeleteRule(ctx, chartID, id); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGetConfig handles GET /charts/{chartID}/config requests. A chart
// that was never configured reports the defaults.
func (h *Handler) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	chartID, err := parseChartID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	cfg, err := h.service.GetConfig(ctx, chartID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromConfig(cfg))
}

// HandlePutConfig handles PUT /charts/{chartID}/config requests.
func (h *Handler) HandlePutConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	chartID, err := parseChartID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	// Decode and validate request
	req, ok := httputil.DecodeAndPrepare[ConfigRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	// Call service
	cfg, err := h.service.PutConfig(ctx, chartID, req.ParsedPolicy(), req.ToleranceMm)
	if err != nil {
		h.logger.ErrorContext(ctx, "config update failed",
			"request_id", requestID,
			"chart_id", chartID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	// Log success
	h.logger.InfoContext(ctx, "config updated",
		"request_id", requestID,
		"chart_id", chartID.String(),
		"between_sizes_policy", cfg.BetweenSizesPolicy.String(),
		"tolerance_mm", cfg.ToleranceMm,
	)

	// Return response
	httputil.WriteJSON(w, http.StatusOK, FromConfig(cfg))
}

// HandleAddCatalogSize handles POST /charts/{chartID}/catalog requests.
func (h *Handler) HandleAddCatalogSize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	chartID, err := parseChartID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	// Decode and validate request
	req, ok := httputil.DecodeAndPrepare[CatalogSizeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	// Call service
	size, err := h.service.AddCatalogSize(ctx, chartID, req.SizeNumber, req.Label)
	if err != nil {
		h.logger.ErrorContext(ctx, "catalog size create failed",
			"request_id", requestID,
			"chart_id", chartID.String(),
			"size_number", req.SizeNumber,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	// Log success
	h.logger.InfoContext(ctx, "catalog size added",
		"request_id", requestID,
		"chart_id", chartID.String(),
		"size_id", size.ID.String(),
		"size_number", size.SizeNumber,
	)

	// Return response
	httputil.WriteJSON(w, http.StatusCreated, FromCatalogSize(size))
}

// HandleListCatalog handles GET /charts/{chartID}/catalog requests.
func (h *Handler) HandleListCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	chartID, err := parseChartID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	catalog, err := h.service.ListCatalog(ctx, chartID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromCatalog(catalog))
}

// HandleDeleteCatalogSize handles DELETE /charts/{chartID}/catalog/{sizeID}
// requests.
func (h *Handler) HandleDeleteCatalogSize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	chartID, err := parseChartID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	id, err := domain.ParseCatalogSizeID(chi.URLParam(r, "sizeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.DeleteCatalogSize(ctx, chartID, id); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleCreateSet handles POST /charts/{chartID}/sets requests.
func (h *Handler) HandleCreateSet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	chartID, err := parseChartID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	// Decode and validate request
	req, ok := httputil.DecodeAndPrepare[SizeSetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	// Call service
	set, err := h.service.CreateSet(ctx, chartID, req.ParsedInput())
	if err != nil {
		h.logger.ErrorContext(ctx, "size set create failed",
			"request_id", requestID,
			"chart_id", chartID.String(),
			"name", req.Name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	// Log success
	h.logger.InfoContext(ctx, "size set created",
		"request_id", requestID,
		"chart_id", chartID.String(),
		"set_id", set.ID.String(),
		"name", set.Name,
	)

	// Return response
	httputil.WriteJSON(w, http.StatusCreated, FromSizeSet(set))
}

// HandleListSets handles GET /charts/{chartID}/sets requests.
func (h *Handler) HandleListSets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	chartID, err := parseChartID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	sets, err := h.service.ListSets(ctx, chartID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromSizeSets(sets))
}

// HandleDeleteSet handles DELETE /charts/{chartID}/sets/{setID} requests.
func (h *Handler) HandleDeleteSet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	chartID, err := parseChartID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	id, err := domain.ParseSizeSetID(chi.URLParam(r, "setID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.DeleteSet(ctx, chartID, id); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandlePreview handles POST /charts/{chartID}/preview requests. The
// preview runs the same matching pipeline as live recommendations;
// nothing is recorded.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	chartID, err := parseChartID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	// Decode and validate request
	req, ok := httputil.DecodeAndPrepare[PreviewRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	// Call service
	match, err := h.preview.PreviewFinger(ctx, chartID, req.ParsedFinger(), req.WidthMm)
	if err != nil {
		h.logger.ErrorContext(ctx, "size preview failed",
			"request_id", requestID,
			"chart_id", chartID.String(),
			"finger", req.Finger,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	// Return response
	httputil.WriteJSON(w, http.StatusOK, FromMatch(match))
}

func parseChartID(r *http.Request) (domain.ChartID, error) {
	return domain.ParseChartID(chi.URLParam(r, "chartID"))
}
