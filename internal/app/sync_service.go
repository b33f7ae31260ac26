package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-generator/internal/ports"
)

// DefaultSyncBatchSize is how many remote quotes one cycle fetches.
const DefaultSyncBatchSize = 5

// SyncerConfig holds the sync component dependencies.
type SyncerConfig struct {
	Repository *Repository
	Remote     ports.RemoteQuoteSource
	BatchSize  int
	Metrics    *telemetry.QuoteMetrics
	Logger     *slog.Logger
	Now        func() time.Time
}

// Syncer reconciles the repository with the remote source. The remote batch
// always wins: a batch that differs from the local list replaces it.
//
// A user mutation that lands while a fetch is in flight is overwritten when
// the fetched batch differs from the list at apply time.
type Syncer struct {
	repo      *Repository
	remote    ports.RemoteQuoteSource
	batchSize int
	metrics   *telemetry.QuoteMetrics
	logger    *slog.Logger
	now       func() time.Time

	mu   sync.RWMutex
	last domain.SyncReport
}

// NewSyncer creates a syncer whose status starts as idle.
func NewSyncer(cfg SyncerConfig) *Syncer {
	if cfg.Repository == nil || cfg.Remote == nil {
		panic("syncer requires repository and remote source")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = DefaultSyncBatchSize
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Syncer{
		repo:      cfg.Repository,
		remote:    cfg.Remote,
		batchSize: batch,
		metrics:   cfg.Metrics,
		logger:    logger.With(slog.String("component", "sync")),
		now:       now,
		last: domain.SyncReport{
			Status:  domain.SyncStatusIdle,
			Message: domain.SyncStatusIdle.Message(),
		},
	}
}

// SyncCycle fetches one batch and applies it. Failures are reported in the
// returned report rather than as an error.
func (s *Syncer) SyncCycle(ctx context.Context) domain.SyncReport {
	start := s.now()
	report := domain.SyncReport{At: start}

	batch, err := s.remote.FetchBatch(ctx, s.batchSize)
	if err != nil {
		return s.finish(ctx, s.failed(report, s.repo.Len(), err), start)
	}

	report.RemoteCount = len(batch)

	replaced, local, err := s.repo.ReplaceIfDifferent(ctx, batch)
	if err != nil {
		return s.finish(ctx, s.failed(report, local, err), start)
	}

	report.LocalCount = local
	report.Status = domain.SyncStatusSynced

	if replaced {
		report.Status = domain.SyncStatusConflict
	}

	report.Message = report.Status.Message()

	return s.finish(ctx, report, start)
}

func (s *Syncer) failed(report domain.SyncReport, local int, err error) domain.SyncReport {
	report.Status = domain.SyncStatusFailed
	report.Message = domain.SyncStatusFailed.Message()
	report.LocalCount = local
	report.Error = err.Error()

	return report
}

func (s *Syncer) finish(ctx context.Context, report domain.SyncReport, start time.Time) domain.SyncReport {
	elapsed := s.now().Sub(start)

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()

	s.metrics.ObserveSync(string(report.Status), elapsed.Seconds())

	attrs := []any{
		slog.String("status", string(report.Status)),
		slog.Int("local", report.LocalCount),
		slog.Int("remote", report.RemoteCount),
		slog.Duration("duration", elapsed),
	}

	switch report.Status {
	case domain.SyncStatusFailed:
		s.logger.WarnContext(ctx, "sync cycle failed", append(attrs, slog.String("error", report.Error))...)
	case domain.SyncStatusConflict:
		s.logger.InfoContext(ctx, "sync replaced local quotes with server batch", attrs...)
	default:
		s.logger.DebugContext(ctx, "sync cycle completed", attrs...)
	}

	return report
}

// LastReport returns the report of the most recent cycle.
func (s *Syncer) LastReport() domain.SyncReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.last
}

// Status returns the status of the most recent cycle.
func (s *Syncer) Status() domain.SyncStatus {
	return s.LastReport().Status
}
