package memoservice

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/snowman-se/bad-memo-app/internal/api"
	"github.com/snowman-se/bad-memo-app/internal/config"
	"github.com/snowman-se/bad-memo-app/internal/factory"
	"github.com/snowman-se/bad-memo-app/internal/health"
	"github.com/snowman-se/bad-memo-app/internal/logger"
	"github.com/snowman-se/bad-memo-app/internal/services"
	"github.com/snowman-se/bad-memo-app/internal/store"
	"github.com/snowman-se/bad-memo-app/internal/web"
)

// Options tweak Run from the command line.
type Options struct {
	// BuildTarget overrides BUILD_TARGET when non-empty.
	BuildTarget string
}

// Run starts the memo board HTTP server and blocks until shutdown or error.
func Run(opts Options) error {
	log := logger.New("memo-service")

	cfg, err := loadConfig(opts)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	log = logger.NewWithWriter(os.Stdout, "memo-service", cfg.LogLevel)
	logger.SetGlobal(log)

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("display_timezone", cfg.DisplayTimeZone).
		Msg("Memo service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	st, db, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return err
	}
	defer closeDB(db, log)

	// Start health checkers before routing so /api/health has a source
	svcHealth := startHealthCheckers(ctx, cfg, log, st)

	handler, err := buildHandler(cfg, log, st, svcHealth)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Failed to build router")
		return err
	}

	// Block startup until dependencies report healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, handler)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

func loadConfig(opts Options) (*config.Config, error) {
	if _, err := config.LoadEnvFile(""); err != nil {
		return nil, err
	}
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if opts.BuildTarget != "" && opts.BuildTarget != cfg.BuildTarget {
		cfg.BuildTarget = opts.BuildTarget
		// Re-derive the driver from the new target.
		cfg.DBDriver = "auto"
		if err := cfg.ResolveDefaults(); err != nil {
			return nil, fmt.Errorf("invalid build-target override: %w", err)
		}
	}
	return cfg, nil
}

// buildHandler wires the memo service, the renderer and the router.
func buildHandler(cfg *config.Config, log zerolog.Logger, st store.Store, svcHealth *health.ServiceHealthChecker) (http.Handler, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	view, err := web.New(loc)
	if err != nil {
		return nil, err
	}
	return api.NewRouter(api.RouterDeps{
		Memos:  services.NewMemoService(st, cfg.PageSize),
		View:   view,
		Health: api.NewHealthHandler(svcHealth.IsHealthy, svcHealth.Components),
		Log:    log,
	}), nil
}

// startHealthCheckers starts the store checker and the service-level aggregator.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store) *health.ServiceHealthChecker {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}

	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker)
	go svcHealth.Start(ctx, interval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// startupTimeout returns the startup health window: the configured value,
// but never shorter than two health intervals.
func startupTimeout(cfg *config.Config) time.Duration {
	timeout := time.Duration(cfg.StartupTimeoutSeconds) * time.Second
	if floor := 2 * time.Duration(cfg.HealthIntervalSeconds) * time.Second; timeout < floor {
		timeout = floor
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	timeout := startupTimeout(cfg)
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		// Component checkers probe on their own schedule; re-aggregate eagerly.
		if svcHealth.Refresh() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %s", timeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func closeDB(db *sql.DB, log zerolog.Logger) {
	if err := db.Close(); err != nil {
		log.Warn().Err(err).Msg("closing database")
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
