package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/woysa/marketd/internal/app"
	"github.com/woysa/marketd/internal/cache"
	"github.com/woysa/marketd/internal/config"
	"github.com/woysa/marketd/internal/report"
	"github.com/woysa/marketd/internal/server"
	"github.com/woysa/marketd/internal/storage/sqlite"
	"github.com/woysa/marketd/internal/telemetry"
	"github.com/woysa/marketd/internal/worker"
)

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	slog.Info("starting marketd", "version", version, "addr", cfg.Server.Addr)

	// Open database
	store, err := sqlite.New(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if cfg.Database.Seed {
		if err := config.Seed(ctx, store); err != nil {
			return err
		}
	}

	// Telemetry
	var (
		metrics        *telemetry.Metrics
		metricsHandler http.Handler
	)
	if cfg.Telemetry.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		metrics = telemetry.NewMetrics(reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}
	if cfg.Telemetry.Tracing.Enabled {
		shutdown, err := telemetry.SetupTracing(ctx, cfg.Telemetry.Tracing.Endpoint, cfg.Telemetry.Tracing.SampleRate)
		if err != nil {
			return err
		}
		defer shutdown(context.Background())
	}

	// Cache backend
	c, closeCache, err := buildCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	// Services
	catalog := app.NewCatalog(store, c, cfg.Cache.DefaultTTL, metrics)
	orders := app.NewOrders(store, c, cfg.Cache.DefaultTTL, metrics)

	// Report worker
	var (
		mailer  *worker.ReportMailer
		reports server.ReportRequester
	)
	if cfg.Report.Enabled {
		mailer = worker.NewReportMailer(store, buildSender(cfg), cfg.Report.Recipient, cfg.Report.Interval, metrics)
		reports = mailer
	}

	handler := server.New(server.Deps{
		Catalog:        catalog,
		Orders:         orders,
		Reports:        reports,
		Cache:          c,
		ReadyCheck:     store.Ping,
		Metrics:        metrics,
		MetricsHandler: metricsHandler,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start workers. A nil workerDone channel blocks forever in the
	// select below, so the no-worker case just never fires.
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	var workerDone chan error
	if mailer != nil {
		workerDone = make(chan error, 1)
		runner := worker.NewRunner(mailer)
		go func() { workerDone <- runner.Run(workerCtx) }()
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	slog.Info("marketd ready", "addr", cfg.Server.Addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig)
	case err := <-errCh:
		return err
	case err := <-workerDone:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	stopWorkers()
	if workerDone != nil {
		if err := <-workerDone; err != nil {
			return err
		}
	}

	slog.Info("marketd stopped")
	return nil
}

// buildCache selects the configured cache backend. The returned close
// function is a no-op for backends without a connection to release.
func buildCache(ctx context.Context, cfg *config.Config) (cache.Cache, func(), error) {
	nop := func() {}
	if !cfg.Cache.Enabled {
		slog.Info("response cache disabled")
		return cache.Nop{}, nop, nil
	}

	switch cfg.Cache.Backend {
	case "redis":
		r := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := r.Ping(ctx); err != nil {
			// Degraded mode: the cache layer treats backend errors as
			// misses, so a cold Redis only costs performance.
			slog.Warn("redis unreachable, caching degraded", "addr", cfg.Redis.Addr, "error", err)
		}
		return r, func() { r.Close() }, nil
	default:
		m, err := cache.NewMemory(cfg.Cache.MaxSize, cfg.Cache.DefaultTTL)
		if err != nil {
			return nil, nil, err
		}
		return m, nop, nil
	}
}

// buildSender picks the report delivery mechanism. Demo mode and a
// missing SMTP host both fall back to logging.
func buildSender(cfg *config.Config) report.Sender {
	if cfg.Report.DemoMode || cfg.Report.SMTP.Host == "" {
		return &report.LogSender{}
	}
	return &report.SMTPSender{
		Host:     cfg.Report.SMTP.Host,
		Port:     cfg.Report.SMTP.Port,
		Username: cfg.Report.SMTP.Username,
		Password: cfg.Report.SMTP.Password,
		From:     cfg.Report.Sender,
	}
}
