package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/okian/clubperf/internal/adapters/cache"
	"github.com/okian/clubperf/internal/adapters/http/api"
	"github.com/okian/clubperf/internal/adapters/http/site"
	"github.com/okian/clubperf/internal/adapters/http/swagger"
	"github.com/okian/clubperf/internal/adapters/repository"
	app "github.com/okian/clubperf/internal/app"
	"github.com/okian/clubperf/internal/config"
	"github.com/okian/clubperf/pkg/logger"
	"github.com/okian/clubperf/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 15 * time.Second
	nanosecondsPerMillisecond = 1e6
	maxLeaderboardLimit       = 100
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithLevel(cfg.LogLevel)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "clubperf exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) (err error) {
	log := logger.Named("main")

	store, err := newStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	svc := newService(cfg, store)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer func() {
		err = multierr.Append(err, svc.Stop())
	}()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

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

// newStore opens Postgres when a database URL is configured and otherwise
// returns a memory store, seeded from the configured file when present.
func newStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, error) {
	if cfg.DatabaseURL != "" {
		store, err := repository.NewPostgresStore(ctx, cfg.DatabaseURL, repository.WithDefaultLimit(cfg.SampleLimit))
		if err != nil {
			return nil, fmt.Errorf("open record store: %w", err)
		}
		log.Info(ctx, "using postgres record store")
		return store, nil
	}

	store := repository.NewMemoryStore(repository.WithDefaultLimit(cfg.SampleLimit))
	if cfg.SeedFile == "" {
		log.Info(ctx, "using empty memory record store")
		return store, nil
	}

	f, err := os.Open(cfg.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	n, err := store.LoadSeed(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("load seed file %s: %w", cfg.SeedFile, err)
	}
	log.Info(ctx, "using seeded memory record store",
		logger.String("seed_file", cfg.SeedFile),
		logger.Int("samples", n),
	)
	return store, nil
}

func newService(cfg *config.Config, store repository.Store) *app.Service {
	opts := []app.Option{
		app.WithLogger(logger.Named("service")),
		app.WithStore(store),
		app.WithDefaultLanguage(cfg.Language()),
		app.WithYThreshold(cfg.YThresholdPct),
		app.WithSampleLimit(cfg.SampleLimit),
		app.WithHistogramBins(cfg.HistogramBins),
		app.WithLeaderboardTop(cfg.LeaderboardTop),
		app.WithIngestWorkers(cfg.IngestWorkers),
		app.WithIngestQueueCapacity(cfg.IngestQueueCapacity),
		app.WithDedupeSize(cfg.DedupeMaxIDs),
	}
	if cfg.ReportCacheBytes > 0 {
		ttl := time.Duration(cfg.ReportCacheTTLSeconds) * time.Second
		opts = append(opts, app.WithCache(cache.New(cfg.ReportCacheBytes, ttl)))
	}
	return app.New(opts...)
}

func newMux(ctx context.Context, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, maxLeaderboardLimit).Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
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

// startServiceMetricsUpdater refreshes the stored-sample gauge.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(ctx, svc)
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
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics updates service-level metrics. GetStats refreshes
// the stored-sample gauge as a side effect.
func updateServiceMetrics(ctx context.Context, svc *app.Service) {
	_ = svc.GetStats(ctx)
}
