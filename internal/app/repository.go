package app

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-generator/internal/ports"
)

const storeService = "quote store"

// Repository owns the ordered quote list. Every mutation is written through
// to the store before it returns; a failed write leaves the list unchanged.
type Repository struct {
	mu     sync.RWMutex
	quotes []domain.Quote

	store   ports.QuoteStore
	metrics *telemetry.QuoteMetrics
	logger  *slog.Logger
}

// NewRepository creates an empty repository. Call Hydrate before use.
func NewRepository(store ports.QuoteStore, metrics *telemetry.QuoteMetrics, logger *slog.Logger) *Repository {
	if store == nil {
		panic("quote store is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Repository{
		store:   store,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "repository")),
	}
}

// Hydrate loads the persisted list. When nothing was ever saved the default
// quotes are used and left unsaved until the first mutation.
func (r *Repository) Hydrate(ctx context.Context) error {
	quotes, found, err := r.store.LoadQuotes(ctx)
	if err != nil {
		return domain.WrapUnavailable(storeService, "loading quotes", err)
	}

	switch {
	case !found:
		quotes = domain.DefaultQuotes()
		r.logger.InfoContext(ctx, "no stored quotes, using defaults", slog.Int("count", len(quotes)))
	case quotes == nil:
		quotes = []domain.Quote{}
	}

	r.mu.Lock()
	r.quotes = slices.Clone(quotes)
	r.mu.Unlock()

	r.metrics.SetRepositorySize(len(quotes))

	return nil
}

// Snapshot returns a copy of the current list.
func (r *Repository) Snapshot() []domain.Quote {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.quotes)
}

// Len returns the number of quotes.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.quotes)
}

// Append adds quotes at the end of the list and persists the result.
func (r *Repository) Append(ctx context.Context, quotes ...domain.Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]domain.Quote, 0, len(r.quotes)+len(quotes))
	next = append(next, r.quotes...)
	next = append(next, quotes...)

	return r.commit(ctx, next)
}

// ReplaceIfDifferent swaps the whole list for batch unless the two are equal
// in content and order. The comparison and the write happen under one lock.
func (r *Repository) ReplaceIfDifferent(ctx context.Context, batch []domain.Quote) (replaced bool, previous int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous = len(r.quotes)
	if domain.SameQuotes(r.quotes, batch) {
		return false, previous, nil
	}

	if err := r.commit(ctx, slices.Clone(batch)); err != nil {
		return false, previous, err
	}

	return true, previous, nil
}

// commit must be called with mu held.
func (r *Repository) commit(ctx context.Context, next []domain.Quote) error {
	if next == nil {
		next = []domain.Quote{}
	}

	if err := r.store.SaveQuotes(ctx, next); err != nil {
		return domain.WrapUnavailable(storeService, "persisting quotes", err)
	}

	r.quotes = next
	r.metrics.SetRepositorySize(len(next))

	return nil
}
