// Package bootstrap assembles the quote core shared by the service and
// quotectl: the SQLite store, the repository, the quote service and the
// remote sync component.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quote-generator/internal/adapters/clients"
	"github.com/jsamuelsen/quote-generator/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-generator/internal/adapters/codec"
	"github.com/jsamuelsen/quote-generator/internal/adapters/flags"
	"github.com/jsamuelsen/quote-generator/internal/adapters/storage/memory"
	"github.com/jsamuelsen/quote-generator/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/quote-generator/internal/app"
	"github.com/jsamuelsen/quote-generator/internal/platform/config"
	"github.com/jsamuelsen/quote-generator/internal/platform/logging"
	"github.com/jsamuelsen/quote-generator/internal/platform/telemetry"
)

// Options tunes New.
type Options struct {
	Logger *slog.Logger

	// Registerer receives the quote collectors. Nil disables them.
	Registerer prometheus.Registerer

	// UserAgent is sent to the remote source.
	UserAgent string
}

// Core is the wired quote core. Close releases it.
type Core struct {
	Store      *sqlite.Store
	Cache      *memory.Cache
	Remote     *acl.RemoteSource
	Repository *app.Repository
	Service    *app.QuoteService
	Syncer     *app.Syncer
	Scheduler  *app.Scheduler
	Metrics    *telemetry.QuoteMetrics
}

// Logger builds the process logger from cfg. Console output goes to w.
func Logger(cfg *config.Config, w io.Writer) (*slog.Logger, io.Closer) {
	return logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, w)
}

// New opens the store, hydrates the repository and wires the services.
// The scheduler is created stopped.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Core, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var metrics *telemetry.QuoteMetrics
	if opts.Registerer != nil {
		metrics = telemetry.NewQuoteMetrics(opts.Registerer)
	}

	quoteCodec, err := codec.NewJSON()
	if err != nil {
		return nil, fmt.Errorf("creating codec: %w", err)
	}

	// The sync cycle does not retry within a tick; the next tick is the retry.
	retry := cfg.Client.Retry
	retry.MaxAttempts = 1

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Remote.BaseURL,
		ServiceName: cfg.Services.Remote.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		UserAgent:   opts.UserAgent,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating remote client: %w", err)
	}

	store, err := sqlite.Open(ctx, sqlite.Config{
		Path:        cfg.Storage.Path,
		BusyTimeout: cfg.Storage.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	repo := app.NewRepository(store, metrics, logger)
	if err := repo.Hydrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("hydrating repository: %w", err)
	}

	cache := memory.NewCache(cfg.Session.MaxEntries, cfg.Session.TTL)
	remote := acl.NewRemoteSource(httpClient)

	service := app.NewQuoteService(app.QuoteServiceConfig{
		Repository:     repo,
		Store:          store,
		Sessions:       memory.NewSessionStore(cache, cfg.Session.TTL),
		Codec:          quoteCodec,
		Remote:         remote,
		Flags:          flags.NewStatic(cfg.Flags),
		Metrics:        metrics,
		Logger:         logger,
		PublishTimeout: cfg.Sync.PublishTimeout,
	})

	syncer := app.NewSyncer(app.SyncerConfig{
		Repository: repo,
		Remote:     remote,
		BatchSize:  cfg.Sync.BatchSize,
		Metrics:    metrics,
		Logger:     logger,
	})

	return &Core{
		Store:      store,
		Cache:      cache,
		Remote:     remote,
		Repository: repo,
		Service:    service,
		Syncer:     syncer,
		Scheduler: app.NewScheduler(syncer, app.SchedulerConfig{
			Interval:   cfg.Sync.Interval,
			RunOnStart: cfg.Sync.RunOnStart,
			Logger:     logger,
		}),
		Metrics: metrics,
	}, nil
}

// Close stops the scheduler, waits for background publishes and releases
// the cache and the store.
func (c *Core) Close() error {
	c.Scheduler.Stop()
	c.Service.WaitPublishing()

	return errors.Join(c.Cache.Close(), c.Store.Close())
}
