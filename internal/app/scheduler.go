package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jsamuelsen/quote-generator/internal/domain"
)

// DefaultSyncInterval is the period between scheduled sync cycles.
const DefaultSyncInterval = 30 * time.Second

// ErrSchedulerRunning is returned by Start on a scheduler that is already running.
var ErrSchedulerRunning = errors.New("scheduler already running")

// CycleRunner runs one sync cycle.
type CycleRunner interface {
	SyncCycle(ctx context.Context) domain.SyncReport
}

// SchedulerConfig configures a Scheduler.
type SchedulerConfig struct {
	Interval   time.Duration
	RunOnStart bool
	Logger     *slog.Logger
}

// Scheduler runs sync cycles periodically. Cycles never overlap: a tick or
// RunOnce call that arrives while a cycle is running is skipped.
type Scheduler struct {
	runner     CycleRunner
	interval   time.Duration
	runOnStart bool
	logger     *slog.Logger

	cycle sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(runner CycleRunner, cfg SchedulerConfig) *Scheduler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultSyncInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		runner:     runner,
		interval:   interval,
		runOnStart: cfg.RunOnStart,
		logger:     logger.With(slog.String("component", "scheduler")),
	}
}

// Start launches the periodic loop. It runs until Stop is called or ctx is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return ErrSchedulerRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(ctx, s.done)

	s.logger.InfoContext(ctx, "sync scheduler started", slog.Duration("interval", s.interval))

	return nil
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	if s.runOnStart {
		s.tryRun(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tryRun(ctx)
		}
	}
}

// Stop cancels the loop and waits for an in-flight scheduled cycle to finish.
// It is safe to call on a stopped scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done

	s.logger.Info("sync scheduler stopped")
}

// RunOnce runs a cycle now unless one is already running, in which case it
// returns a domain.ConflictError.
func (s *Scheduler) RunOnce(ctx context.Context) (domain.SyncReport, error) {
	report, ran := s.tryRun(ctx)
	if !ran {
		return domain.SyncReport{}, domain.NewConflictError("sync", "a sync cycle is already running")
	}

	return report, nil
}

func (s *Scheduler) tryRun(ctx context.Context) (domain.SyncReport, bool) {
	if !s.cycle.TryLock() {
		s.logger.DebugContext(ctx, "sync cycle still running, skipping")
		return domain.SyncReport{}, false
	}
	defer s.cycle.Unlock()

	return s.runner.SyncCycle(ctx), true
}
