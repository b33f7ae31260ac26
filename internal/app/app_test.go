package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jsamuelsen/quote-generator/internal/adapters/codec"
	"github.com/jsamuelsen/quote-generator/internal/adapters/storage/memory"
	"github.com/jsamuelsen/quote-generator/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var errDiskFull = errors.New("disk full")

// fakeStore is an in-memory ports.QuoteStore.
type fakeStore struct {
	mu        sync.Mutex
	quotes    []domain.Quote
	hasQuotes bool
	category  string
	hasCat    bool
	saves     int
	saveErr   error
}

func (f *fakeStore) LoadQuotes(context.Context) ([]domain.Quote, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.quotes), f.hasQuotes, nil
}

func (f *fakeStore) SaveQuotes(_ context.Context, quotes []domain.Quote) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.saveErr != nil {
		return f.saveErr
	}

	f.quotes = slices.Clone(quotes)
	f.hasQuotes = true
	f.saves++

	return nil
}

func (f *fakeStore) LoadSelectedCategory(context.Context) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.category, f.hasCat, nil
}

func (f *fakeStore) SaveSelectedCategory(_ context.Context, category string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.saveErr != nil {
		return f.saveErr
	}

	f.category = category
	f.hasCat = true

	return nil
}

func (f *fakeStore) stored() ([]domain.Quote, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.quotes), f.hasQuotes
}

func (f *fakeStore) failSaves(err error) {
	f.mu.Lock()
	f.saveErr = err
	f.mu.Unlock()
}

func newRepository(t *testing.T, store *fakeStore) *Repository {
	t.Helper()

	repo := NewRepository(store, nil, discardLogger())
	require.NoError(t, repo.Hydrate(context.Background()))

	return repo
}

func seeded(quotes ...domain.Quote) *fakeStore {
	return &fakeStore{quotes: quotes, hasQuotes: true}
}

type serviceDeps struct {
	store    *fakeStore
	repo     *Repository
	sessions *memory.SessionStore
	cache    *memory.Cache
}

func newTestService(t *testing.T, store *fakeStore, mutate func(*QuoteServiceConfig)) (*QuoteService, serviceDeps) {
	t.Helper()

	repo := newRepository(t, store)
	cache := memory.NewCache(0, 0)
	t.Cleanup(func() { _ = cache.Close() })

	sessions := memory.NewSessionStore(cache, 0)

	jsonCodec, err := codec.NewJSON()
	require.NoError(t, err)

	cfg := QuoteServiceConfig{
		Repository: repo,
		Store:      store,
		Sessions:   sessions,
		Codec:      jsonCodec,
		Logger:     discardLogger(),
		IntN:       func(int) int { return 0 },
	}
	if mutate != nil {
		mutate(&cfg)
	}

	svc := NewQuoteService(cfg)
	t.Cleanup(svc.WaitPublishing)

	return svc, serviceDeps{store: store, repo: repo, sessions: sessions, cache: cache}
}
