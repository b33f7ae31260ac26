package ports

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// ErrDuplicateChecker is returned when attempting to register a health checker
// with a name that is already registered.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker is implemented by components that can report their health.
// Adapters register themselves with the HealthRegistry at startup.
//
// The SQLite store and the remote quote source both implement it:
//
//	func (s *Store) Name() string { return "sqlite" }
//
//	func (s *Store) Check(ctx context.Context) error {
//	    return s.db.PingContext(ctx)
//	}
type HealthChecker interface {
	// Name returns a unique identifier for this health check.
	// Used in health check responses to identify which component failed.
	Name() string

	// Check performs the health check and returns an error if unhealthy.
	// Implementations should respect context cancellation and deadlines.
	// A nil return indicates the component is healthy.
	Check(ctx context.Context) error
}

// OptionalChecker marks a checker whose failure degrades the service
// instead of making it unready. The remote quote source is optional since
// quotes are served from local storage while it is down.
type OptionalChecker interface {
	HealthChecker
	Optional() bool
}

// HealthRegistry aggregates health checks from multiple components.
// Components register themselves at startup, and the registry
// runs all checks when queried.
type HealthRegistry interface {
	// Register adds a health checker to the registry.
	// Returns an error if a checker with the same name is already registered.
	// Should be called during application startup.
	Register(checker HealthChecker) error

	// CheckAll runs all registered health checks and returns aggregated results.
	// Checks run concurrently with the provided context timeout.
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus represents the overall health state.
type HealthStatus string

const (
	// HealthStatusHealthy indicates all checks passed.
	HealthStatusHealthy HealthStatus = "healthy"

	// HealthStatusDegraded indicates only optional checks failed.
	HealthStatusDegraded HealthStatus = "degraded"

	// HealthStatusUnhealthy indicates critical checks failed.
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult contains the aggregated health check results.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// CheckResult is the outcome of one checker. A failed optional check
// reports HealthStatusDegraded.
type CheckResult struct {
	Status   HealthStatus  `json:"status"`
	Optional bool          `json:"optional,omitempty"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// DefaultCheckTimeout bounds a single checker when the caller's context has
// no earlier deadline.
const DefaultCheckTimeout = 2 * time.Second

type registeredCheck struct {
	checker  HealthChecker
	optional bool
}

// DefaultHealthRegistry is a thread-safe implementation of HealthRegistry.
// Checks are reported in registration order.
type DefaultHealthRegistry struct {
	mu           sync.RWMutex
	checks       []registeredCheck
	checkTimeout time.Duration
}

// RegistryOption configures a DefaultHealthRegistry.
type RegistryOption func(*DefaultHealthRegistry)

// WithCheckTimeout overrides DefaultCheckTimeout.
func WithCheckTimeout(d time.Duration) RegistryOption {
	return func(r *DefaultHealthRegistry) {
		if d > 0 {
			r.checkTimeout = d
		}
	}
}

// NewHealthRegistry creates an empty registry.
func NewHealthRegistry(opts ...RegistryOption) *DefaultHealthRegistry {
	r := &DefaultHealthRegistry{checkTimeout: DefaultCheckTimeout}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a checker. Names must be unique.
func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := checker.Name()
	for _, rc := range r.checks {
		if rc.checker.Name() == name {
			return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
		}
	}

	optional := false
	if o, ok := checker.(OptionalChecker); ok {
		optional = o.Optional()
	}

	r.checks = append(r.checks, registeredCheck{checker: checker, optional: optional})

	return nil
}

// CheckAll runs every checker concurrently, each under its own timeout.
// Any failed required check makes the result unhealthy. Failed optional
// checks only degrade it.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checks := slices.Clone(r.checks)
	r.mu.RUnlock()

	results := make([]*CheckResult, len(checks))

	var wg sync.WaitGroup
	for i, rc := range checks {
		wg.Go(func() {
			results[i] = r.run(ctx, rc)
		})
	}

	wg.Wait()

	out := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checks)),
		Timestamp: time.Now(),
	}

	for i, rc := range checks {
		out.Checks[rc.checker.Name()] = results[i]
		out.Status = worse(out.Status, results[i].Status)
	}

	return out
}

func (r *DefaultHealthRegistry) run(ctx context.Context, rc registeredCheck) *CheckResult {
	ctx, cancel := context.WithTimeout(ctx, r.checkTimeout)
	defer cancel()

	start := time.Now()
	err := rc.checker.Check(ctx)

	res := &CheckResult{
		Status:   HealthStatusHealthy,
		Optional: rc.optional,
		Duration: time.Since(start),
	}

	if err != nil {
		res.Message = err.Error()
		res.Status = HealthStatusUnhealthy

		if rc.optional {
			res.Status = HealthStatusDegraded
		}
	}

	return res
}

var statusRank = map[HealthStatus]int{
	HealthStatusHealthy:   0,
	HealthStatusDegraded:  1,
	HealthStatusUnhealthy: 2,
}

func worse(a, b HealthStatus) HealthStatus {
	if statusRank[b] > statusRank[a] {
		return b
	}

	return a
}
