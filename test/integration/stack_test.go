//go:build integration

package integration

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jsamuelsen/quote-generator/internal/adapters/http"
	"github.com/jsamuelsen/quote-generator/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-generator/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-generator/internal/bootstrap"
	"github.com/jsamuelsen/quote-generator/internal/platform/config"
	"github.com/jsamuelsen/quote-generator/internal/ports"
)

// fakeRemote stands in for the posts API.
type fakeRemote struct {
	server *httptest.Server

	mu        sync.Mutex
	posts     string
	status    int
	published atomic.Int32
}

func newFakeRemote(t testing.TB) *fakeRemote {
	t.Helper()

	f := &fakeRemote{posts: `[]`, status: http.StatusOK}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Method == http.MethodPost {
			f.published.Add(1)
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":101}`)

			return
		}

		f.mu.Lock()
		posts, status := f.posts, f.status
		f.mu.Unlock()

		w.WriteHeader(status)
		_, _ = io.WriteString(w, posts)
	}))
	t.Cleanup(f.server.Close)

	return f
}

func (f *fakeRemote) serve(status int, posts string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.status, f.posts = status, posts
}

// stack is the service wired in-process against a temporary database.
type stack struct {
	URL    string
	core   *bootstrap.Core
	remote *fakeRemote
}

func startStack(t testing.TB) *stack {
	t.Helper()

	remote := newFakeRemote(t)

	cfg, err := config.LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	cfg.Storage.Path = filepath.Join(t.TempDir(), "quotes.db")
	cfg.Services.Remote.BaseURL = remote.server.URL
	require.NoError(t, cfg.Validate())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	core, err := bootstrap.New(context.Background(), cfg, bootstrap.Options{
		Logger:     logger,
		Registerer: prometheus.NewRegistry(),
	})
	require.NoError(t, err)

	registry := ports.NewHealthRegistry()
	require.NoError(t, registry.Register(core.Store))
	require.NoError(t, registry.Register(core.Remote))

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	apphttp.SetupRouter(engine, apphttp.RouterConfig{
		ServiceName: "quote-generator",
		Timeout:     cfg.Server.RequestTimeout,
		Session: middleware.SessionConfig{
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
		},
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "none", "now"), core.Syncer),
		QuoteHandler:  handlers.NewQuoteHandler(core.Service, core.Scheduler, core.Syncer),
		PageHandler:   handlers.NewPageHandler(core.Service, core.Syncer),
	})

	server := httptest.NewServer(engine)

	t.Cleanup(func() {
		server.Close()
		require.NoError(t, core.Close())
	})

	return &stack{URL: server.URL, core: core, remote: remote}
}
