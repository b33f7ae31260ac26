// Package main is the entry point for the quote service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quote-generator/internal/adapters/http"
	"github.com/jsamuelsen/quote-generator/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-generator/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-generator/internal/adapters/watcher"
	"github.com/jsamuelsen/quote-generator/internal/app"
	"github.com/jsamuelsen/quote-generator/internal/bootstrap"
	"github.com/jsamuelsen/quote-generator/internal/platform/config"
	"github.com/jsamuelsen/quote-generator/internal/platform/logging"
	"github.com/jsamuelsen/quote-generator/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-generator/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger, logCloser := bootstrap.Logger(cfg, os.Stdout)
	defer func() { _ = logCloser.Close() }()

	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (propagation only if disabled)
	telProvider, err := telemetry.New(ctx, telemetry.ConfigFrom(cfg))
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Open the store and wire the quote core
	core, err := bootstrap.New(ctx, cfg, bootstrap.Options{
		Logger:     logger,
		Registerer: prometheus.DefaultRegisterer,
		UserAgent:  cfg.App.Name + "/" + Version,
	})
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := core.Close(); closeErr != nil {
			logger.Error("closing quote core", slog.Any("error", closeErr))
		}
	}()

	// 6. Health checks: the store gates readiness, the remote only degrades it
	healthRegistry := ports.NewHealthRegistry(ports.WithCheckTimeout(cfg.Server.ReadinessCheckTimeout))
	for _, checker := range []ports.HealthChecker{core.Store, core.Remote} {
		if err := healthRegistry.Register(checker); err != nil {
			return fmt.Errorf("registering %s health check: %w", checker.Name(), err)
		}
	}

	// 7. Background work
	if cfg.Sync.Enabled {
		if err := core.Scheduler.Start(ctx); err != nil {
			return fmt.Errorf("starting sync scheduler: %w", err)
		}
	} else {
		logger.Info("periodic sync disabled")
	}

	watchDone, err := startWatcher(ctx, cfg, core, logger)
	if err != nil {
		return err
	}

	// 8. Handlers, router and server
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.RouterConfig{
		ServiceName: cfg.App.Name,
		Timeout:     cfg.Server.RequestTimeout,
		Session: middleware.SessionConfig{
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.Session.Secure,
		},
		HealthHandler: handlers.NewHealthHandler(healthRegistry, buildInfo, core.Syncer),
		QuoteHandler:  handlers.NewQuoteHandler(core.Service, core.Scheduler, core.Syncer),
		PageHandler:   handlers.NewPageHandler(core.Service, core.Syncer),
	})

	serverErr := server.Start()

	// 9. Wait for shutdown signal
	err = waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)

	stop()
	<-watchDone

	return err
}

// startWatcher runs the import drop-directory watcher when one is configured.
// The returned channel is closed once the watcher has stopped.
func startWatcher(ctx context.Context, cfg *config.Config, core *bootstrap.Core, logger *slog.Logger) (<-chan struct{}, error) {
	done := make(chan struct{})

	if cfg.Import.WatchDir == "" {
		close(done)
		return done, nil
	}

	w, err := watcher.New(cfg.Import.WatchDir, func(ctx context.Context, path string, contents []byte) error {
		result, err := core.Service.Import(logging.WithContext(ctx, logger.With(slog.String("file", path))), contents)
		if err != nil {
			if step, ok := app.GetExecutionStep(err); ok {
				return fmt.Errorf("import stopped at %s: %w", step, err)
			}

			return err
		}

		logger.InfoContext(ctx, "drop file imported",
			slog.String("file", path),
			slog.Int("imported", result.Imported),
			slog.Int("skipped", result.Skipped),
		)

		return nil
	}, watcher.WithLogger(logger), watcher.WithSettle(cfg.Import.Settle))
	if err != nil {
		return nil, fmt.Errorf("starting import watcher: %w", err)
	}

	go func() {
		defer close(done)

		if err := w.Run(ctx); err != nil {
			logger.Error("import watcher stopped", slog.Any("error", err))
		}
	}()

	return done, nil
}

// waitForShutdown blocks until ctx is cancelled by a signal or the server
// fails, then drains in-flight requests.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}

		return nil

	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
