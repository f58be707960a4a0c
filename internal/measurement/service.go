package measurement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sevsizer/internal/audit"
	"sevsizer/internal/measurement/metrics"
	"sevsizer/internal/measurement/models"
	"sevsizer/pkg/domain"
	dErrors "sevsizer/pkg/domain-errors"
	"sevsizer/pkg/platform/sentinel"
	pstrings "sevsizer/pkg/platform/strings"
	"sevsizer/pkg/requestcontext"
)

var tracer = otel.Tracer("sevsizer/measurement")

const (
	listDefaultLimit = 20
	listMaxLimit     = 100
)

// Store persists measurements.
type Store interface {
	Insert(ctx context.Context, m *models.Measurement) error
	Get(ctx context.Context, id domain.MeasurementID) (*models.Measurement, error)
	List(ctx context.Context, limit int) ([]models.Summary, error)
}

// TxRunner executes a function as one atomic unit. The postgres runner
// opens a transaction that stores join through the context; memory
// deployments use a passthrough.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditPublisher records audit events for measurement writes.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns the measurement lifecycle: ingest from the photo
// pipeline, retrieval, and merging a thumb capture with a four-finger
// capture into one whole-hand record.
type Service struct {
	store   Store
	tx      TxRunner
	logger  *slog.Logger
	audit   AuditPublisher
	metrics *metrics.Metrics
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
func New(store Store, tx TxRunner, opts ...Option) *Service {
	s := &Service{store: store, tx: tx}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestInput carries the pipeline output for one processed photo.
type IngestInput struct {
	Hand              models.Hand
	PhotoType         models.PhotoType
	PxPerMm           float64
	Fingers           map[domain.FingerName]models.FingerMeasurement
	OverallConfidence float64
	Warnings          []string
}

// Ingest validates and stores one pipeline measurement. Merged records
// cannot be ingested; they only exist as Merge results.
func (s *Service) Ingest(ctx context.Context, input IngestInput) (*models.Measurement, error) {
	ctx, span := tracer.Start(ctx, "measurement.Ingest")
	span.SetAttributes(attribute.String("photo_type", input.PhotoType.String()))

	m, err := s.ingest(ctx, input)

	s.observeIngest(input.PhotoType, err)
	endSpan(span, err)
	return m, err
}

func (s *Service) ingest(ctx context.Context, input IngestInput) (*models.Measurement, error) {
	if !input.PhotoType.Ingestable() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "photo_type %q cannot be ingested directly", input.PhotoType)
	}

	m, err := models.NewMeasurement(
		input.Hand,
		input.PhotoType,
		input.PxPerMm,
		input.Fingers,
		input.OverallConfidence,
		pstrings.MergeWarnings(input.Warnings),
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid measurement")
	}

	if err := s.store.Insert(ctx, m); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record measurement")
	}

	s.logAudit(ctx, audit.Event{
		Action:        audit.ActionMeasurementIngested,
		Subject:       m.ID.String(),
		MeasurementID: m.ID,
		Detail:        fmt.Sprintf("%s %s", m.Hand, m.PhotoType),
	})

	return m, nil
}

// Get returns a stored measurement.
func (s *Service) Get(ctx context.Context, id domain.MeasurementID) (*models.Measurement, error) {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "measurement not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load measurement")
	}
	return m, nil
}

// List returns recent measurement summaries, newest first. A
// non-positive limit means the default; limits above the ceiling are
// clamped to it.
func (s *Service) List(ctx context.Context, limit int) ([]models.Summary, error) {
	if limit <= 0 {
		limit = listDefaultLimit
	}
	if limit > listMaxLimit {
		limit = listMaxLimit
	}
	summaries, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list measurements")
	}
	return summaries, nil
}

// Merge combines a thumb measurement and a four-finger measurement of
// the same hand into one whole-hand record. The thumb record contributes
// the thumb, the four-finger record the other four; the merged row and
// its audit event commit in one transaction.
func (s *Service) Merge(ctx context.Context, thumbID, fourFingerID domain.MeasurementID) (*models.Measurement, error) {
	ctx, span := tracer.Start(ctx, "measurement.Merge")
	span.SetAttributes(
		attribute.String("thumb_id", thumbID.String()),
		attribute.String("four_finger_id", fourFingerID.String()),
	)

	m, err := s.merge(ctx, thumbID, fourFingerID)

	s.observeMerge(err)
	endSpan(span, err)
	return m, err
}

func (s *Service) merge(ctx context.Context, thumbID, fourFingerID domain.MeasurementID) (*models.Measurement, error) {
	thumb, err := s.source(ctx, thumbID)
	if err != nil {
		return nil, err
	}
	four, err := s.source(ctx, fourFingerID)
	if err != nil {
		return nil, err
	}

	if thumb.PhotoType != models.PhotoTypeThumb {
		return nil, dErrors.Newf(dErrors.CodeValidation, "measurement %s must have photo_type='thumb', got '%s'", thumbID, thumb.PhotoType)
	}
	if four.PhotoType != models.PhotoTypeFourFinger {
		return nil, dErrors.Newf(dErrors.CodeValidation, "measurement %s must have photo_type='four_finger', got '%s'", fourFingerID, four.PhotoType)
	}
	if thumb.Hand != four.Hand {
		return nil, dErrors.Newf(dErrors.CodeValidation, "measurements are for different hands: '%s' vs '%s'", thumb.Hand, four.Hand)
	}

	fingers := make(map[domain.FingerName]models.FingerMeasurement, len(domain.FingerOrder))
	fingers[domain.FingerThumb] = thumb.Fingers[domain.FingerThumb]
	for _, finger := range models.PhotoTypeFourFinger.Fingers() {
		fingers[finger] = four.Fingers[finger]
	}

	// Both scales should be similar; the thumb's wins.
	pxPerMm := thumb.PxPerMm
	if pxPerMm <= 0 {
		pxPerMm = four.PxPerMm
	}

	merged, err := models.NewMeasurement(
		thumb.Hand,
		models.PhotoTypeMerged,
		pxPerMm,
		fingers,
		round3((thumb.OverallConfidence+four.OverallConfidence)/2),
		pstrings.MergeWarnings(thumb.Warnings, four.Warnings),
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "merged measurement failed validation")
	}
	merged.ThumbSourceID = &thumbID
	merged.FourFingerSourceID = &fourFingerID

	event := audit.Event{
		Action:        audit.ActionMeasurementsMerged,
		Subject:       merged.ID.String(),
		MeasurementID: merged.ID,
		RequestID:     requestcontext.RequestID(ctx),
		Detail:        fmt.Sprintf("thumb=%s four_finger=%s", thumbID, fourFingerID),
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Insert(ctx, merged); err != nil {
			return fmt.Errorf("insert merged measurement: %w", err)
		}
		// The compliance event commits or rolls back with the record.
		return s.emit(ctx, event)
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record merged measurement")
	}
	s.logEvent(ctx, event)

	return merged, nil
}

// source loads a merge input, naming the missing ID on absence.
func (s *Service) source(ctx context.Context, id domain.MeasurementID) (*models.Measurement, error) {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "measurement %s not found", id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load measurement")
	}
	return m, nil
}

// round3 matches the stored precision of confidence values.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	event.RequestID = requestcontext.RequestID(ctx)
	s.logEvent(ctx, event)
	_ = s.emit(ctx, event)
}

func (s *Service) logEvent(ctx context.Context, event audit.Event) {
	if s.logger == nil {
		return
	}
	s.logger.InfoContext(ctx, string(event.Action),
		"event", string(event.Action),
		"log_type", "audit",
		"measurement_id", event.MeasurementID.String(),
		"detail", event.Detail,
		"request_id", event.RequestID,
	)
}

func (s *Service) emit(ctx context.Context, event audit.Event) error {
	if s.audit == nil {
		return nil
	}
	return s.audit.Emit(ctx, event)
}

func (s *Service) observeIngest(photoType models.PhotoType, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(dErrors.CodeOf(err))
	}
	s.metrics.IncrementIngest(photoType.String(), outcome)
}

func (s *Service) observeMerge(err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(dErrors.CodeOf(err))
	}
	s.metrics.IncrementMerge(outcome)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	span.End()
}
