// Package chart owns the admin-managed sizing configuration: size rules,
// the matching config, the catalog and curated size sets, plus the
// per-chart snapshot the engine matches against.
package chart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"sevsizer/internal/audit"
	"sevsizer/internal/chart/metrics"
	"sevsizer/internal/chart/models"
	"sevsizer/pkg/domain"
	dErrors "sevsizer/pkg/domain-errors"
	"sevsizer/pkg/platform/sentinel"
	"sevsizer/pkg/requestcontext"
)

var tracer = otel.Tracer("sevsizer/chart")

// RuleStore persists size rules.
type RuleStore interface {
	Insert(ctx context.Context, rule *models.SizeRule) error
	Get(ctx context.Context, chartID domain.ChartID, id domain.RuleID) (*models.SizeRule, error)
	Update(ctx context.Context, rule *models.SizeRule) error
	Delete(ctx context.Context, chartID domain.ChartID, id domain.RuleID) error
	ListByChart(ctx context.Context, chartID domain.ChartID) ([]models.SizeRule, error)
	ListActive(ctx context.Context, chartID domain.ChartID) ([]models.SizeRule, error)
}

// ConfigStore persists per-chart rule configs.
type ConfigStore interface {
	Get(ctx context.Context, chartID domain.ChartID) (*models.RuleConfig, error)
	Upsert(ctx context.Context, config *models.RuleConfig) error
}

// CatalogStore persists catalog sizes.
type CatalogStore interface {
	Insert(ctx context.Context, size *models.CatalogSize) error
	Delete(ctx context.Context, chartID domain.ChartID, id domain.CatalogSizeID) error
	ListByChart(ctx context.Context, chartID domain.ChartID) ([]models.CatalogSize, error)
}

// SetStore persists curated size sets.
type SetStore interface {
	Insert(ctx context.Context, set *models.SizeSet) error
	Delete(ctx context.Context, chartID domain.ChartID, id domain.SizeSetID) error
	ListByChart(ctx context.Context, chartID domain.ChartID) ([]models.SizeSet, error)
}

// SnapshotCache holds assembled snapshots between reads.
type SnapshotCache interface {
	Get(ctx context.Context, chartID domain.ChartID) (*models.ChartSnapshot, error)
	Set(ctx context.Context, snap *models.ChartSnapshot) error
	Invalidate(ctx context.Context, chartID domain.ChartID) error
}

// AuditPublisher records chart mutations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns chart administration and snapshot assembly. Every mutation
// invalidates the chart's cached snapshot, so the engine never matches
// against state older than the cache TTL.
type Service struct {
	rules   RuleStore
	configs ConfigStore
	catalog CatalogStore
	sets    SetStore

	cache   SnapshotCache
	logger  *slog.Logger
	audit   AuditPublisher
	metrics *metrics.Metrics

	flight singleflight.Group
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithCache enables snapshot caching. Without it every Snapshot call
// reads the stores.
func WithCache(cache SnapshotCache) Option {
	return func(s *Service) {
		s.cache = cache
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
func New(rules RuleStore, configs ConfigStore, catalog CatalogStore, sets SetStore, opts ...Option) *Service {
	s := &Service{rules: rules, configs: configs, catalog: catalog, sets: sets}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the chart's matching state as one consistent unit:
// active rules, config, catalog and sets. Reads go through the cache when
// one is configured; concurrent rebuilds of the same chart collapse into
// a single store read. A cache failure falls back to the stores, it never
// fails the read.
//
// Concurrent callers may receive the same snapshot value; treat it as
// read-only.
func (s *Service) Snapshot(ctx context.Context, chartID domain.ChartID) (*models.ChartSnapshot, error) {
	ctx, span := tracer.Start(ctx, "chart.Snapshot")
	span.SetAttributes(attribute.String("chart_id", chartID.String()))
	defer span.End()

	if snap := s.cached(ctx, chartID); snap != nil {
		s.observeSnapshot("cache", nil)
		return snap, nil
	}

	v, err, _ := s.flight.Do(chartID.String(), func() (any, error) {
		return s.assemble(ctx, chartID)
	})
	s.observeSnapshot("stores", err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		return nil, err
	}
	return v.(*models.ChartSnapshot), nil
}

// assemble reads the four entity stores in parallel and fills the cache.
func (s *Service) assemble(ctx context.Context, chartID domain.ChartID) (*models.ChartSnapshot, error) {
	snap := &models.ChartSnapshot{ChartID: chartID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rules, err := s.rules.ListActive(gctx, chartID)
		if err != nil {
			return fmt.Errorf("load rules: %w", err)
		}
		snap.Rules = rules
		return nil
	})
	g.Go(func() error {
		cfg, err := s.configs.Get(gctx, chartID)
		if err != nil {
			// No config row is normal; the engine substitutes defaults.
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("load config: %w", err)
		}
		snap.Config = cfg
		return nil
	})
	g.Go(func() error {
		catalog, err := s.catalog.ListByChart(gctx, chartID)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		snap.Catalog = catalog
		return nil
	})
	g.Go(func() error {
		sets, err := s.sets.ListByChart(gctx, chartID)
		if err != nil {
			return fmt.Errorf("load sets: %w", err)
		}
		snap.Sets = sets
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load size chart")
	}

	s.fillCache(ctx, snap)
	return snap, nil
}

// RuleInput carries the caller-settable fields of a size rule. Create and
// update both take the full set; a rule update is a replacement.
type RuleInput struct {
	Finger     models.FingerScope
	MinWidthMm float64
	MaxWidthMm float64
	MappedSize int
	Priority   int
	Active     bool
}

// CreateRule adds a rule to the chart.
func (s *Service) CreateRule(ctx context.Context, chartID domain.ChartID, in RuleInput) (*models.SizeRule, error) {
	rule, err := s.createRule(ctx, chartID, in)
	s.observeMutation(audit.ActionRuleCreated, err)
	return rule, err
}

func (s *Service) createRule(ctx context.Context, chartID domain.ChartID, in RuleInput) (*models.SizeRule, error) {
	rule, err := models.NewSizeRule(chartID, in.Finger, in.MinWidthMm, in.MaxWidthMm, in.MappedSize, in.Priority, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid rule")
	}
	rule.Active = in.Active

	if err := s.rules.Insert(ctx, rule); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store rule")
	}

	s.invalidate(ctx, chartID)
	s.logAudit(ctx, audit.Event{
		Action:  audit.ActionRuleCreated,
		Subject: rule.ID.String(),
		ChartID: chartID,
		Detail:  describeRule(rule),
	})
	return rule, nil
}

// ListRules returns every rule on the chart, inactive ones included.
func (s *Service) ListRules(ctx context.Context, chartID domain.ChartID) ([]models.SizeRule, error) {
	rules, err := s.rules.ListByChart(ctx, chartID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list rules")
	}
	return rules, nil
}

// UpdateRule replaces the rule's fields. CreatedAt survives the update.
func (s *Service) UpdateRule(ctx context.Context, chartID domain.ChartID, id domain.RuleID, in RuleInput) (*models.SizeRule, error) {
	rule, err := s.updateRule(ctx, chartID, id, in)
	s.observeMutation(audit.ActionRuleUpdated, err)
	return rule, err
}

func (s *Service) updateRule(ctx context.Context, chartID domain.ChartID, id domain.RuleID, in RuleInput) (*models.SizeRule, error) {
	current, err := s.rules.Get(ctx, chartID, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "rule %s not found", id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load rule")
	}

	// Revalidate through the constructor, then restore identity.
	updated, err := models.NewSizeRule(chartID, in.Finger, in.MinWidthMm, in.MaxWidthMm, in.MappedSize, in.Priority, current.CreatedAt)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid rule")
	}
	updated.ID = current.ID
	updated.Active = in.Active
	updated.UpdatedAt = requestcontext.Now(ctx)

	if err := s.rules.Update(ctx, updated); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "rule %s not found", id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store rule")
	}

	s.invalidate(ctx, chartID)
	s.logAudit(ctx, audit.Event{
		Action:  audit.ActionRuleUpdated,
		Subject: updated.ID.String(),
		ChartID: chartID,
		Detail:  describeRule(updated),
	})
	return updated, nil
}

// DeleteRule removes the rule from the chart.
func (s *Service) DeleteRule(ctx context.Context, chartID domain.ChartID, id domain.RuleID) error {
	err := s.deleteRule(ctx, chartID, id)
	s.observeMutation(audit.ActionRuleDeleted, err)
	return err
}

func (s *Service) deleteRule(ctx context.Context, chartID domain.ChartID, id domain.RuleID) error {
	if err := s.rules.Delete(ctx, chartID, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "rule %s not found", id)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete rule")
	}

	s.invalidate(ctx, chartID)
	s.logAudit(ctx, audit.Event{
		Action:  audit.ActionRuleDeleted,
		Subject: id.String(),
		ChartID: chartID,
	})
	return nil
}

// GetConfig returns the chart's tolerance config. A chart with no config
// row reports the defaults the engine would use.
func (s *Service) GetConfig(ctx context.Context, chartID domain.ChartID) (*models.RuleConfig, error) {
	cfg, err := s.configs.Get(ctx, chartID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			def := models.DefaultRuleConfig(chartID)
			return &def, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load config")
	}
	return cfg, nil
}

// PutConfig creates or replaces the chart's tolerance config.
func (s *Service) PutConfig(ctx context.Context, chartID domain.ChartID, policy models.BetweenSizesPolicy, toleranceMm float64) (*models.RuleConfig, error) {
	cfg, err := s.putConfig(ctx, chartID, policy, toleranceMm)
	s.observeMutation(audit.ActionConfigUpdated, err)
	return cfg, err
}

func (s *Service) putConfig(ctx context.Context, chartID domain.ChartID, policy models.BetweenSizesPolicy, toleranceMm float64) (*models.RuleConfig, error) {
	cfg, err := models.NewRuleConfig(chartID, policy, toleranceMm, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid config")
	}

	if err := s.configs.Upsert(ctx, cfg); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store config")
	}

	s.invalidate(ctx, chartID)
	s.logAudit(ctx, audit.Event{
		Action:  audit.ActionConfigUpdated,
		Subject: chartID.String(),
		ChartID: chartID,
		Detail:  fmt.Sprintf("policy=%s tolerance_mm=%.2f", cfg.BetweenSizesPolicy, cfg.ToleranceMm),
	})
	return cfg, nil
}

// AddCatalogSize gives a size number a display label on the chart.
func (s *Service) AddCatalogSize(ctx context.Context, chartID domain.ChartID, sizeNumber int, label string) (*models.CatalogSize, error) {
	size, err := s.addCatalogSize(ctx, chartID, sizeNumber, label)
	s.observeMutation(audit.ActionCatalogSizeCreated, err)
	return size, err
}

func (s *Service) addCatalogSize(ctx context.Context, chartID domain.ChartID, sizeNumber int, label string) (*models.CatalogSize, error) {
	size, err := models.NewCatalogSize(chartID, sizeNumber, label, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid catalog size")
	}

	if err := s.catalog.Insert(ctx, size); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeConflict, "size %d is already in the catalog", sizeNumber)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store catalog size")
	}

	s.invalidate(ctx, chartID)
	s.logAudit(ctx, audit.Event{
		Action:  audit.ActionCatalogSizeCreated,
		Subject: size.ID.String(),
		ChartID: chartID,
		Detail:  fmt.Sprintf("size %d = %q", size.SizeNumber, size.Label),
	})
	return size, nil
}

// ListCatalog returns the chart's catalog, size number ascending.
func (s *Service) ListCatalog(ctx context.Context, chartID domain.ChartID) ([]models.CatalogSize, error) {
	catalog, err := s.catalog.ListByChart(ctx, chartID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list catalog")
	}
	return catalog, nil
}

// DeleteCatalogSize removes a catalog entry. Recommendations fall back to
// the bare size number for labels no longer in the catalog.
func (s *Service) DeleteCatalogSize(ctx context.Context, chartID domain.ChartID, id domain.CatalogSizeID) error {
	err := s.deleteCatalogSize(ctx, chartID, id)
	s.observeMutation(audit.ActionCatalogSizeDeleted, err)
	return err
}

func (s *Service) deleteCatalogSize(ctx context.Context, chartID domain.ChartID, id domain.CatalogSizeID) error {
	if err := s.catalog.Delete(ctx, chartID, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "catalog size %s not found", id)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete catalog size")
	}

	s.invalidate(ctx, chartID)
	s.logAudit(ctx, audit.Event{
		Action:  audit.ActionCatalogSizeDeleted,
		Subject: id.String(),
		ChartID: chartID,
	})
	return nil
}

// SetInput carries the caller-settable fields of a size set.
type SetInput struct {
	Name       string
	Sizes      models.FingerSizes
	VariantRef string
}

// CreateSet adds a curated size set to the chart.
func (s *Service) CreateSet(ctx context.Context, chartID domain.ChartID, in SetInput) (*models.SizeSet, error) {
	set, err := s.createSet(ctx, chartID, in)
	s.observeMutation(audit.ActionSetCreated, err)
	return set, err
}

func (s *Service) createSet(ctx context.Context, chartID domain.ChartID, in SetInput) (*models.SizeSet, error) {
	set, err := models.NewSizeSet(chartID, in.Name, in.Sizes, in.VariantRef, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid size set")
	}

	if err := s.sets.Insert(ctx, set); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store size set")
	}

	s.invalidate(ctx, chartID)
	s.logAudit(ctx, audit.Event{
		Action:  audit.ActionSetCreated,
		Subject: set.ID.String(),
		ChartID: chartID,
		Detail:  set.Name,
	})
	return set, nil
}

// ListSets returns the chart's curated sets.
func (s *Service) ListSets(ctx context.Context, chartID domain.ChartID) ([]models.SizeSet, error) {
	sets, err := s.sets.ListByChart(ctx, chartID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list size sets")
	}
	return sets, nil
}

// DeleteSet removes a curated set from the chart.
func (s *Service) DeleteSet(ctx context.Context, chartID domain.ChartID, id domain.SizeSetID) error {
	err := s.deleteSet(ctx, chartID, id)
	s.observeMutation(audit.ActionSetDeleted, err)
	return err
}

func (s *Service) deleteSet(ctx context.Context, chartID domain.ChartID, id domain.SizeSetID) error {
	if err := s.sets.Delete(ctx, chartID, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "size set %s not found", id)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete size set")
	}

	s.invalidate(ctx, chartID)
	s.logAudit(ctx, audit.Event{
		Action:  audit.ActionSetDeleted,
		Subject: id.String(),
		ChartID: chartID,
	})
	return nil
}

func describeRule(r *models.SizeRule) string {
	return fmt.Sprintf("%s [%.1f, %.1f] -> size %d", r.Finger, r.MinWidthMm, r.MaxWidthMm, r.MappedSize)
}

// cached reads the snapshot cache, treating every failure as a miss.
func (s *Service) cached(ctx context.Context, chartID domain.ChartID) *models.ChartSnapshot {
	if s.cache == nil {
		return nil
	}
	snap, err := s.cache.Get(ctx, chartID)
	if err != nil {
		s.logWarn(ctx, "chart cache read failed", chartID, err)
		return nil
	}
	return snap
}

func (s *Service) fillCache(ctx context.Context, snap *models.ChartSnapshot) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, snap); err != nil {
		s.logWarn(ctx, "chart cache write failed", snap.ChartID, err)
	}
}

// invalidate drops the chart's cached snapshot after a mutation. On
// failure the stale snapshot survives at most the cache TTL.
func (s *Service) invalidate(ctx context.Context, chartID domain.ChartID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, chartID); err != nil {
		s.logWarn(ctx, "chart cache invalidation failed", chartID, err)
	}
}

func (s *Service) logWarn(ctx context.Context, msg string, chartID domain.ChartID, err error) {
	if s.logger == nil {
		return
	}
	s.logger.WarnContext(ctx, msg,
		"chart_id", chartID.String(),
		"error", err,
	)
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	event.RequestID = requestcontext.RequestID(ctx)
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event.Action),
			"event", string(event.Action),
			"log_type", "audit",
			"chart_id", event.ChartID.String(),
			"subject", event.Subject,
			"detail", event.Detail,
			"request_id", event.RequestID,
		)
	}
	if s.audit != nil {
		_ = s.audit.Emit(ctx, event)
	}
}

func (s *Service) observeMutation(action audit.Action, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(dErrors.CodeOf(err))
	}
	s.metrics.IncrementMutation(string(action), outcome)
}

func (s *Service) observeSnapshot(source string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(dErrors.CodeOf(err))
	}
	s.metrics.IncrementSnapshotLoad(source, outcome)
}
