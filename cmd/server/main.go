package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sevsizer/internal/audit"
	auditsink "sevsizer/internal/audit/sink"
	"sevsizer/internal/chart"
	chartcache "sevsizer/internal/chart/cache"
	charthandler "sevsizer/internal/chart/handler"
	chartmetrics "sevsizer/internal/chart/metrics"
	chartstore "sevsizer/internal/chart/store"
	catalogstore "sevsizer/internal/chart/store/catalog"
	configstore "sevsizer/internal/chart/store/config"
	rulestore "sevsizer/internal/chart/store/rule"
	setstore "sevsizer/internal/chart/store/sizeset"
	"sevsizer/internal/measurement"
	measurementhandler "sevsizer/internal/measurement/handler"
	measurementmetrics "sevsizer/internal/measurement/metrics"
	measurementstore "sevsizer/internal/measurement/store/measurement"
	"sevsizer/internal/platform/config"
	"sevsizer/internal/platform/httpserver"
	"sevsizer/internal/platform/logger"
	"sevsizer/internal/platform/metrics"
	"sevsizer/internal/platform/postgres"
	platformredis "sevsizer/internal/platform/redis"
	"sevsizer/internal/sizing"
	sizinghandler "sevsizer/internal/sizing/handler"
	sizingmetrics "sevsizer/internal/sizing/metrics"
	recommendationstore "sevsizer/internal/sizing/store/recommendation"
	httptransport "sevsizer/internal/transport/http"
	"sevsizer/pkg/platform/tx"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps
// the server lifecycle small. Business logic lives in the internal
// service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run opens every external resource so its defers release them in
// reverse order; main cannot defer past os.Exit.
func run(cfg config.Server, log *slog.Logger) error {
	ctx := context.Background()

	// Stores: PostgreSQL when a database is configured, in-memory with
	// the default chart seeded otherwise.
	var (
		rules           chart.RuleStore
		configs         chart.ConfigStore
		catalog         chart.CatalogStore
		sets            chart.SetStore
		measurements    measurement.Store
		recommendations sizing.RecommendationStore
		auditStore      audit.Store
		runner          measurement.TxRunner
		db              *sql.DB
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}

		rules = rulestore.NewPostgres(db)
		configs = configstore.NewPostgres(db)
		catalog = catalogstore.NewPostgres(db)
		sets = setstore.NewPostgres(db)
		measurements = measurementstore.NewPostgres(db)
		recommendations = recommendationstore.NewPostgres(db)
		auditStore = audit.NewPostgres(db)
		runner = tx.NewRunner(db)
		log.Info("using postgres stores")
	} else {
		ruleMem := rulestore.NewMemory()
		configMem := configstore.NewMemory()
		catalogMem := catalogstore.NewMemory()
		setMem := setstore.NewMemory()
		if err := chartstore.SeedDefault(ctx, ruleMem, configMem, catalogMem, setMem); err != nil {
			return fmt.Errorf("seed default chart: %w", err)
		}
		rules, configs, catalog, sets = ruleMem, configMem, catalogMem, setMem
		measurements = measurementstore.NewMemory()
		recommendations = recommendationstore.NewMemory()
		auditStore = audit.NewMemoryStore(0)
		runner = tx.Passthrough{}
		log.Info("no database configured, using in-memory stores with the default chart seeded")
	}

	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := auditsink.NewKafka(ctx, cfg.KafkaBrokers, cfg.AuditTopic, log)
		if err != nil {
			return fmt.Errorf("connect kafka audit sink: %w", err)
		}
		defer kafka.Close()
		auditStore = audit.NewFanout(auditStore, kafka)
		log.Info("audit events fan out to kafka", "topic", cfg.AuditTopic)
	}

	// The publisher stays synchronous so postgres audit rows join the
	// transaction already open on the context.
	publisher := audit.NewPublisher(auditStore, audit.WithLogger(log))
	defer publisher.Close()

	rdb, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}

	chartOpts := []chart.Option{
		chart.WithLogger(log),
		chart.WithAuditPublisher(publisher),
		chart.WithMetrics(chartmetrics.New()),
	}
	if rdb != nil {
		defer rdb.Close()
		chartOpts = append(chartOpts, chart.WithCache(chartcache.New(rdb.Client, cfg.Redis.SnapshotTTL)))
		log.Info("chart snapshots cached in redis")
	}
	chartSvc := chart.New(rules, configs, catalog, sets, chartOpts...)

	measurementSvc := measurement.New(measurements, runner,
		measurement.WithLogger(log),
		measurement.WithAuditPublisher(publisher),
		measurement.WithMetrics(measurementmetrics.New()),
	)

	sizingSvc := sizing.New(chartSvc, measurements, recommendations,
		sizing.WithLogger(log),
		sizing.WithAuditPublisher(publisher),
		sizing.WithMetrics(sizingmetrics.New()),
	)

	var checks []httptransport.HealthCheck
	if db != nil {
		checks = append(checks, httptransport.HealthCheck{Name: "postgres", Check: db.PingContext})
	}
	if rdb != nil {
		checks = append(checks, httptransport.HealthCheck{Name: "redis", Check: rdb.Health})
	}

	router := httptransport.New(httptransport.Deps{
		Logger:         log,
		Metrics:        metrics.NewHTTP(),
		Measurements:   measurementhandler.New(measurementSvc, log),
		Sizing:         sizinghandler.New(sizingSvc, log),
		Charts:         charthandler.New(chartSvc, sizingSvc, log),
		AdminToken:     cfg.AdminToken,
		RequestTimeout: cfg.RequestTimeout,
		HealthChecks:   checks,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting sevsizer", "addr", cfg.Addr, "admin_enabled", cfg.AdminToken != "")

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
