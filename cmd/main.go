package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/palmares/internal/adapters/chart"
	"github.com/okian/palmares/internal/adapters/http/api"
	"github.com/okian/palmares/internal/adapters/http/site"
	"github.com/okian/palmares/internal/adapters/http/swagger"
	"github.com/okian/palmares/internal/adapters/source"
	"github.com/okian/palmares/internal/adapters/watch"
	app "github.com/okian/palmares/internal/app"
	"github.com/okian/palmares/internal/config"
	"github.com/okian/palmares/pkg/logger"
	"github.com/okian/palmares/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging with defaults until the configuration is known
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Re-initialize logging with the configured format and level
	if err := logger.InitWithOptions(logger.Options{Format: cfg.LogFormat, Level: cfg.LogLevel}); err != nil {
		logger.Get().Warn(ctx, "invalid logging settings; keeping defaults", logger.Error(err))
		_ = logger.Init()
	}
	loggerInstance := logger.Get()

	// Rebuild the metrics registry with the configured namespace and labels
	configureMetrics(cfg)

	if err := run(ctx, cfg, loggerInstance); err != nil {
		loggerInstance.Error(ctx, "server failed", logger.Error(err))
		os.Exit(1)
	}
}

// run starts the service and serves HTTP until ctx is done.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	loader, err := source.New(cfg.Dataset, source.WithTimeout(cfg.FetchTimeout()))
	if err != nil {
		return err
	}

	// Create and start the service; a failed load leaves it degraded, not stopped
	svc := newService(cfg, loader, log)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	// Watch a local dataset file for changes when asked to
	if w := startWatcher(ctx, cfg, loader, svc, log); w != nil {
		defer func() { _ = w.Stop() }()
	}

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx, metrics.RefreshInterval())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// configureMetrics applies the metrics settings of cfg to the global manager.
func configureMetrics(cfg *config.Config) {
	metrics.Configure(
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithRefreshInterval(cfg.MetricsRefresh()),
		metrics.WithConstLabels(cfg.MetricsLabels),
	)
}

// newService builds the dashboard service from cfg.
func newService(cfg *config.Config, loader source.Loader, log logger.Logger) *app.Service {
	return app.New(
		app.WithLogger(log),
		app.WithLoader(loader),
		app.WithRankSize(cfg.RankSize),
		app.WithAllGroupsLabel(cfg.AllGroupsLabel),
		app.WithSearchDebounce(time.Duration(cfg.SearchDebounceMS)*time.Millisecond),
	)
}

// newHandler wires every route on a fresh mux.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service) http.Handler {
	mux := http.NewServeMux()

	// API docs and static assets
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)

	// Dashboard pages, JSON, charts, health and stats
	renderer := chart.New(chart.WithSize(cfg.ChartWidth, cfg.ChartHeight))
	apiServer := api.NewServer(svc, svc, renderer)
	apiServer.Register(ctx, mux)

	return api.RequestIDMiddleware(mux)
}

// startWatcher reloads the service when the dataset file changes. It returns
// nil when watching is off, the dataset is remote, or the watch fails.
func startWatcher(ctx context.Context, cfg *config.Config, loader source.Loader, svc *app.Service, log logger.Logger) *watch.Watcher {
	if !cfg.WatchDataset {
		return nil
	}
	file, ok := loader.(*source.FileLoader)
	if !ok {
		log.Warn(ctx, "watch_dataset ignored for remote dataset", logger.String("dataset", loader.Location()))
		return nil
	}
	w, err := watch.New(file.Path(), svc.Reload, watch.WithLogger(log.Named("watch")))
	if err != nil {
		log.Warn(ctx, "dataset watcher unavailable", logger.Error(err))
		return nil
	}
	if err := w.Start(ctx); err != nil {
		log.Warn(ctx, "dataset watcher unavailable", logger.Error(err))
		return nil
	}
	return w
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		// Average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
