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

	"github.com/okian/rinkstats/internal/adapters/http/api"
	"github.com/okian/rinkstats/internal/adapters/http/swagger"
	service "github.com/okian/rinkstats/internal/app"
	"github.com/okian/rinkstats/internal/config"
	"github.com/okian/rinkstats/pkg/logger"
	"github.com/okian/rinkstats/pkg/metrics"
)

// Server timeouts and metric sampling intervals.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	systemMetricsInterval  = 10 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "rinkstats exited", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	log := logger.Get()

	// defaults -> optional file -> env
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "unknown log level, keeping info", logger.String("log_level", cfg.LogLevel))
	}

	svc, err := newService(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	go reportMetrics(ctx, svc)

	srv := newHTTPServer(ctx, cfg.Addr, svc)

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "rinkstats listening", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}
	log.Info(ctx, "draining HTTP server", logger.Duration("timeout", shutdownTimeout))

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		log.Error(ctx, "http drain failed", logger.Error(err))
	}
	log.Info(ctx, "rinkstats stopped")
	return nil
}

// newService builds the service from the loaded configuration.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*service.Service, error) {
	opts, err := service.FromConfig(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return service.New(opts...), nil
}

func newHTTPServer(ctx context.Context, addr string, svc *service.Service) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           newMux(ctx, svc),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// newMux registers the docs and business API routes.
func newMux(ctx context.Context, svc *service.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	return mux
}

// reportMetrics refreshes runtime gauges and copies the service gauges into
// the registry until ctx ends.
func reportMetrics(ctx context.Context, svc *service.Service) {
	runtimeTick := time.NewTicker(systemMetricsInterval)
	defer runtimeTick.Stop()
	serviceTick := time.NewTicker(serviceMetricsInterval)
	defer serviceTick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-runtimeTick.C:
			sampleRuntime()
		case <-serviceTick.C:
			sampleService(svc.GetStats())
		}
	}
}

func sampleRuntime() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	metrics.UpdateSystemMemoryUsage(ms.HeapInuse)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if ms.NumGC > 0 {
		metrics.RecordSystemGCPauseTime(float64(ms.PauseTotalNs) / float64(ms.NumGC) / float64(time.Millisecond))
	}
}

func sampleService(stats map[string]any) {
	if n, ok := stats["queueLength"].(int); ok {
		if c, ok := stats["queueSize"].(int); ok {
			metrics.UpdateQueueSize(n, c)
		}
	}
	if n, ok := stats["games"].(int); ok {
		metrics.UpdateStoreGames(n)
	}
	if n, ok := stats["workerCount"].(int); ok {
		metrics.UpdateWorkerCount(n)
	}
}
