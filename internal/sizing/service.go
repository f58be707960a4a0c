package sizing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sevsizer/internal/audit"
	"sevsizer/internal/chart/models"
	measurement "sevsizer/internal/measurement/models"
	"sevsizer/internal/sizing/metrics"
	"sevsizer/pkg/domain"
	dErrors "sevsizer/pkg/domain-errors"
	"sevsizer/pkg/platform/sentinel"
	"sevsizer/pkg/requestcontext"
)

var tracer = otel.Tracer("sevsizer/sizing")

// ChartProvider supplies the rule snapshot recommendations run against.
type ChartProvider interface {
	Snapshot(ctx context.Context, chartID domain.ChartID) (*models.ChartSnapshot, error)
}

// MeasurementGetter loads stored hand measurements.
type MeasurementGetter interface {
	Get(ctx context.Context, id domain.MeasurementID) (*measurement.Measurement, error)
}

// RecommendationStore persists recorded recommendations. Records are
// append-only; there is no update path.
type RecommendationStore interface {
	Insert(ctx context.Context, rec Recommendation) error
	Get(ctx context.Context, id domain.RecommendationID) (Recommendation, error)
	ListByMeasurement(ctx context.Context, measurementID domain.MeasurementID) ([]Recommendation, error)
}

// AuditPublisher records audit events for recorded recommendations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates size recommendations: snapshot, match, rank,
// record. The pure matching functions in this package do the math; the
// service owns ordering, persistence and failure mapping.
type Service struct {
	charts       ChartProvider
	measurements MeasurementGetter
	store        RecommendationStore
	logger       *slog.Logger
	audit        AuditPublisher
	metrics      *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.audit = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(charts ChartProvider, measurements MeasurementGetter, store RecommendationStore, opts ...Option) *Service {
	s := &Service{charts: charts, measurements: measurements, store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recommend computes and records a size recommendation for a stored
// measurement against the given chart.
//
// The failure order is part of the contract: an unusable chart surfaces
// before the measurement is ever fetched, and the recommendation row is
// written as the final step so no failure leaves partial state behind.
func (s *Service) Recommend(ctx context.Context, measurementID domain.MeasurementID, chartID domain.ChartID) (*Recommendation, error) {
	ctx, span := tracer.Start(ctx, "sizing.Recommend")
	span.SetAttributes(
		attribute.String("chart_id", chartID.String()),
		attribute.String("measurement_id", measurementID.String()),
	)
	start := time.Now()

	rec, err := s.recommend(ctx, measurementID, chartID)

	s.observeRecommend(chartID, time.Since(start), err)
	endSpan(span, err)
	return rec, err
}

func (s *Service) recommend(ctx context.Context, measurementID domain.MeasurementID, chartID domain.ChartID) (*Recommendation, error) {
	snap, err := s.charts.Snapshot(ctx, chartID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load size chart")
	}
	if len(snap.Rules) == 0 {
		return nil, dErrors.Newf(dErrors.CodeNoRules, "size chart %s has no active rules", chartID)
	}

	m, err := s.measurements.Get(ctx, measurementID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "measurement not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load measurement")
	}

	profile, err := ComposeProfile(m.Widths(), snap)
	if err != nil {
		return nil, err
	}
	sets := RankSets(profile.Sizes(), snap.Sets)

	rec := Recommendation{
		ID:            domain.NewRecommendationID(),
		MeasurementID: measurementID,
		ChartID:       chartID,
		Profile:       profile.Profile,
		PerFinger:     profile.PerFinger,
		MatchingSets:  sets,
		CreatedAt:     requestcontext.Now(ctx),
	}

	// The insert is the only write. A request abandoned before this
	// point leaves no trace.
	if err := ctx.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "request cancelled before recommendation was recorded")
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record recommendation")
	}

	s.logAudit(ctx, audit.Event{
		Action:           audit.ActionRecommendationRecorded,
		Subject:          rec.ID.String(),
		ChartID:          chartID,
		MeasurementID:    measurementID,
		RecommendationID: rec.ID,
		Detail:           rec.Profile,
	})
	s.observeBranches(profile)

	return &rec, nil
}

// PreviewFinger resolves one hypothetical width against a chart's rules,
// through the same MatchFinger the live path uses. Admins call it to
// check a rule edit before customers see it; nothing is recorded.
func (s *Service) PreviewFinger(ctx context.Context, chartID domain.ChartID, finger domain.FingerName, widthMm float64) (*Match, error) {
	ctx, span := tracer.Start(ctx, "sizing.PreviewFinger")
	span.SetAttributes(
		attribute.String("chart_id", chartID.String()),
		attribute.String("finger", finger.String()),
	)
	defer span.End()

	if !finger.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "invalid finger %q", finger)
	}

	snap, err := s.charts.Snapshot(ctx, chartID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load size chart")
	}
	if len(snap.Rules) == 0 {
		return nil, dErrors.Newf(dErrors.CodeNoRules, "size chart %s has no active rules", chartID)
	}

	m, err := MatchFinger(widthMm, finger, snap.Rules, snap.EffectiveConfig())
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetRecommendation returns a previously recorded recommendation.
func (s *Service) GetRecommendation(ctx context.Context, id domain.RecommendationID) (*Recommendation, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "recommendation not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load recommendation")
	}
	return &rec, nil
}

// ListForMeasurement returns the measurement's recommendation history,
// newest first. An unknown measurement is an error, an empty history is
// not.
func (s *Service) ListForMeasurement(ctx context.Context, measurementID domain.MeasurementID) ([]Recommendation, error) {
	if _, err := s.measurements.Get(ctx, measurementID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "measurement not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load measurement")
	}
	recs, err := s.store.ListByMeasurement(ctx, measurementID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list recommendations")
	}
	return recs, nil
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	event.RequestID = requestcontext.RequestID(ctx)
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event.Action),
			"event", string(event.Action),
			"log_type", "audit",
			"chart_id", event.ChartID.String(),
			"measurement_id", event.MeasurementID.String(),
			"recommendation_id", event.RecommendationID.String(),
			"request_id", event.RequestID,
		)
	}
	if s.audit == nil {
		return
	}
	_ = s.audit.Emit(ctx, event)
}

func (s *Service) observeRecommend(chartID domain.ChartID, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(dErrors.CodeOf(err))
	}
	s.metrics.IncrementRecommendation(chartID.String(), outcome)
	s.metrics.ObserveRecommendLatency(elapsed)
}

func (s *Service) observeBranches(profile *Profile) {
	for _, r := range profile.PerFinger {
		s.metrics.IncrementMatchBranch(string(r.Branch), string(r.Fit))
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	span.End()
}
