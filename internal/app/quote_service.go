// Package app contains the application services: the quote repository, the
// quote use cases, and the remote sync component with its scheduler.
//
// Services depend on ports, never on adapters. HTTP handlers, the import
// watcher and the quotectl CLI all drive the same QuoteService.
package app

import (
	"bytes"
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/platform/logging"
	"github.com/jsamuelsen/quote-generator/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-generator/internal/ports"
)

const defaultPublishTimeout = 5 * time.Second

// Display is what the page shows in its quote region.
type Display struct {
	Quote   domain.Quote `json:"quote"`
	Empty   bool         `json:"empty"`
	Message string       `json:"message,omitempty"`
}

// AddResult is the outcome of AddQuote.
type AddResult struct {
	Quote   domain.Quote `json:"quote"`
	Display Display      `json:"display"`
}

// ImportResult counts what an import did.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
}

// PageState is everything the main page renders apart from the sync status.
type PageState struct {
	Categories []string      `json:"categories"`
	Filter     string        `json:"filter"`
	LastViewed *domain.Quote `json:"lastViewed,omitempty"`
	Count      int           `json:"count"`
}

// QuoteServiceConfig holds the service dependencies. Repository, Store,
// Sessions and Codec are required.
type QuoteServiceConfig struct {
	Repository *Repository
	Store      ports.QuoteStore
	Sessions   ports.SessionStore
	Codec      ports.QuoteCodec

	// Remote and Flags enable best-effort publishing of new quotes.
	Remote ports.RemoteQuoteSource
	Flags  ports.FeatureFlags

	Executor       *Executor
	Metrics        *telemetry.QuoteMetrics
	Logger         *slog.Logger
	PublishTimeout time.Duration

	// IntN returns a value in [0, n). Defaults to math/rand/v2.IntN.
	IntN func(n int) int
}

// QuoteService implements the quote use cases.
type QuoteService struct {
	repo     *Repository
	store    ports.QuoteStore
	sessions ports.SessionStore
	codec    ports.QuoteCodec
	remote   ports.RemoteQuoteSource
	flags    ports.FeatureFlags
	exec     *Executor
	metrics  *telemetry.QuoteMetrics
	logger   *slog.Logger
	intN     func(n int) int

	publishTimeout time.Duration
	publishing     sync.WaitGroup
}

// NewQuoteService creates the service. It panics on missing required
// dependencies since that is a wiring bug.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Repository == nil || cfg.Store == nil || cfg.Sessions == nil || cfg.Codec == nil {
		panic("quote service requires repository, store, sessions and codec")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	exec := cfg.Executor
	if exec == nil {
		exec = NewExecutor(logger)
	}

	intN := cfg.IntN
	if intN == nil {
		intN = rand.IntN
	}

	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}

	return &QuoteService{
		repo:           cfg.Repository,
		store:          cfg.Store,
		sessions:       cfg.Sessions,
		codec:          cfg.Codec,
		remote:         cfg.Remote,
		flags:          cfg.Flags,
		exec:           exec,
		metrics:        cfg.Metrics,
		logger:         logger.With(slog.String("component", "quotes")),
		intN:           intN,
		publishTimeout: timeout,
	}
}

func (s *QuoteService) log(ctx context.Context) *slog.Logger {
	if logger, ok := logging.Lookup(ctx); ok {
		return logger
	}

	return s.logger
}

// PickAndShow picks a random quote matching filter and records it as the
// session's last-viewed quote. An empty match is not an error.
func (s *QuoteService) PickAndShow(ctx context.Context, sessionID, filter string) Display {
	candidates := domain.Filter(s.repo.Snapshot(), filter)
	if len(candidates) == 0 {
		return Display{Empty: true, Message: domain.NoQuotesMessage}
	}

	picked := candidates[s.intN(len(candidates))]

	if sessionID != "" {
		if err := s.sessions.SetLastViewed(ctx, sessionID, picked); err != nil {
			s.log(ctx).WarnContext(ctx, "recording last viewed quote failed", slog.Any("error", err))
		}
	}

	return Display{Quote: picked}
}

// ShowUnderFilter picks a quote under the persisted filter, falling back to
// all categories when the filter cannot be read.
func (s *QuoteService) ShowUnderFilter(ctx context.Context, sessionID string) Display {
	return s.PickAndShow(ctx, sessionID, s.filterOrAll(ctx))
}

// AddQuote validates and appends a quote, then shows a quote under the
// current filter.
func (s *QuoteService) AddQuote(ctx context.Context, sessionID, text, category string) (AddResult, error) {
	quote, err := domain.NewQuote(text, category)
	if err != nil {
		return AddResult{}, err
	}

	if err := s.repo.Append(ctx, quote); err != nil {
		return AddResult{}, err
	}

	s.metrics.ObserveAdd()
	s.log(ctx).InfoContext(ctx, "quote added", slog.String("category", quote.Category))
	s.publish(ctx, quote)

	return AddResult{
		Quote:   quote,
		Display: s.ShowUnderFilter(ctx, sessionID),
	}, nil
}

// publish posts quote to the remote in the background when the flag is on.
// The request outlives ctx but is bounded by the publish timeout.
func (s *QuoteService) publish(ctx context.Context, quote domain.Quote) {
	if s.remote == nil || s.flags == nil || !s.flags.IsEnabled(ctx, ports.FlagPublishNewQuotes, false) {
		return
	}

	logger := s.log(ctx)
	detached := context.WithoutCancel(ctx)

	s.publishing.Go(func() {
		pctx, cancel := context.WithTimeout(detached, s.publishTimeout)
		defer cancel()

		if err := s.remote.Publish(pctx, quote); err != nil {
			logger.WarnContext(pctx, "publishing quote failed", slog.Any("error", err))
			return
		}

		logger.DebugContext(pctx, "quote published")
	})
}

// WaitPublishing blocks until background publishes have finished.
func (s *QuoteService) WaitPublishing() {
	s.publishing.Wait()
}

// Quotes returns the quotes matching filter in repository order.
func (s *QuoteService) Quotes(_ context.Context, filter string) []domain.Quote {
	return domain.Filter(s.repo.Snapshot(), filter)
}

// Categories returns the distinct categories in lexicographic order.
func (s *QuoteService) Categories(_ context.Context) []string {
	return domain.Categories(s.repo.Snapshot())
}

// Export renders the whole repository as an export file.
func (s *QuoteService) Export(_ context.Context) ([]byte, error) {
	return s.codec.Encode(s.repo.Snapshot())
}

// Import appends every valid quote in contents. Invalid elements are skipped
// and counted; a file with no valid quote changes nothing.
func (s *QuoteService) Import(ctx context.Context, contents []byte) (ImportResult, error) {
	return Execute(ctx, s.exec, Operation[[]byte, ports.DecodeResult, ports.DecodeResult, ImportResult]{
		Name: "import_quotes",
		Validate: func(_ context.Context, contents []byte) error {
			if len(bytes.TrimSpace(contents)) == 0 {
				return domain.NewValidationError("file", "invalid JSON")
			}

			return nil
		},
		Perform: func(_ context.Context, contents []byte) (ports.DecodeResult, error) {
			return s.codec.Decode(contents)
		},
		Verify: func(_ context.Context, _ []byte, decoded ports.DecodeResult) (ports.DecodeResult, error) {
			if len(decoded.Quotes) == 0 {
				return decoded, domain.NewValidationError("file", "no valid quotes found")
			}

			return decoded, nil
		},
		Archive: func(ctx context.Context, _ []byte, decoded ports.DecodeResult) error {
			return s.repo.Append(ctx, decoded.Quotes...)
		},
		Respond: func(ctx context.Context, _ []byte, decoded ports.DecodeResult) (ImportResult, error) {
			s.metrics.ObserveImport(len(decoded.Quotes), decoded.Skipped)
			s.log(ctx).InfoContext(ctx, "quotes imported",
				slog.Int("imported", len(decoded.Quotes)),
				slog.Int("skipped", decoded.Skipped),
			)

			return ImportResult{
				Imported: len(decoded.Quotes),
				Skipped:  decoded.Skipped,
				Total:    len(decoded.Quotes) + decoded.Skipped,
			}, nil
		},
	}, contents)
}

// SetFilter persists the selected category. Empty selects all categories.
func (s *QuoteService) SetFilter(ctx context.Context, category string) (string, error) {
	filter := domain.NormalizeFilter(category)

	if err := s.store.SaveSelectedCategory(ctx, filter); err != nil {
		return "", domain.WrapUnavailable(storeService, "saving selected category", err)
	}

	return filter, nil
}

// Filter returns the persisted category filter, or AllCategories.
func (s *QuoteService) Filter(ctx context.Context) (string, error) {
	filter, found, err := s.store.LoadSelectedCategory(ctx)
	if err != nil {
		return "", domain.WrapUnavailable(storeService, "loading selected category", err)
	}

	if !found {
		return domain.AllCategories, nil
	}

	return domain.NormalizeFilter(filter), nil
}

func (s *QuoteService) filterOrAll(ctx context.Context) string {
	filter, err := s.Filter(ctx)
	if err != nil {
		s.log(ctx).WarnContext(ctx, "reading filter failed, showing all categories", slog.Any("error", err))
		return domain.AllCategories
	}

	return filter
}

// LastViewed returns the session's last-viewed quote.
// Returns domain.ErrNotFound when there is none.
func (s *QuoteService) LastViewed(ctx context.Context, sessionID string) (domain.Quote, error) {
	if sessionID == "" {
		return domain.Quote{}, domain.NewNotFoundError("last viewed quote", "")
	}

	return s.sessions.LastViewed(ctx, sessionID)
}

// PageState gathers the state the main page renders.
func (s *QuoteService) PageState(ctx context.Context, sessionID string) (PageState, error) {
	lastViewed, filter, err := loadBoth(ctx,
		load[*domain.Quote]{name: "last viewed quote", fn: func(ctx context.Context) (*domain.Quote, error) {
			q, err := s.LastViewed(ctx, sessionID)
			if domain.IsNotFound(err) {
				return nil, nil
			}

			if err != nil {
				return nil, err
			}

			return &q, nil
		}},
		load[string]{name: "filter", fn: s.Filter},
	)
	if err != nil {
		return PageState{}, err
	}

	snapshot := s.repo.Snapshot()

	return PageState{
		Categories: domain.Categories(snapshot),
		Filter:     filter,
		LastViewed: lastViewed,
		Count:      len(snapshot),
	}, nil
}
