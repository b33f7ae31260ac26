package http

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-generator/internal/adapters/codec"
	"github.com/jsamuelsen/quote-generator/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-generator/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-generator/internal/adapters/storage/memory"
	"github.com/jsamuelsen/quote-generator/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/quote-generator/internal/app"
	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/platform/config"
	"github.com/jsamuelsen/quote-generator/internal/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serverConfig(port int, maxRequestSize int64) *config.ServerConfig {
	return &config.ServerConfig{
		Host:           "127.0.0.1",
		Port:           port,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    30 * time.Second,
		MaxRequestSize: maxRequestSize,
	}
}

type idleSync struct{}

func (idleSync) RunOnce(context.Context) (domain.SyncReport, error) {
	return domain.SyncReport{Status: domain.SyncStatusSynced}, nil
}

func (idleSync) LastReport() domain.SyncReport {
	return domain.SyncReport{Status: domain.SyncStatusIdle}
}

// newRouterConfig wires real handlers over in-memory storage.
func newRouterConfig(t *testing.T) RouterConfig {
	t.Helper()

	ctx := context.Background()

	store, err := sqlite.Open(ctx, sqlite.Config{Path: sqlite.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cache := memory.NewCache(0, 0)
	t.Cleanup(func() { _ = cache.Close() })

	jsonCodec, err := codec.NewJSON()
	require.NoError(t, err)

	repo := app.NewRepository(store, nil, discardLogger())
	require.NoError(t, repo.Hydrate(ctx))

	service := app.NewQuoteService(app.QuoteServiceConfig{
		Repository: repo,
		Store:      store,
		Sessions:   memory.NewSessionStore(cache, time.Hour),
		Codec:      jsonCodec,
		Logger:     discardLogger(),
	})

	registry := ports.NewHealthRegistry()
	require.NoError(t, registry.Register(store))

	return RouterConfig{
		ServiceName:   "quote-generator-test",
		Timeout:       5 * time.Second,
		Session:       middleware.SessionConfig{CookieName: "quote_session", TTL: time.Hour},
		HealthHandler: handlers.NewHealthHandler(registry, handlers.BuildInfo{Version: "test"}, idleSync{}),
		QuoteHandler:  handlers.NewQuoteHandler(service, idleSync{}, idleSync{}),
		PageHandler:   handlers.NewPageHandler(service, idleSync{}),
	}
}

func TestServerNew(t *testing.T) {
	cfg := serverConfig(8080, 1<<20)
	logger := discardLogger()

	srv := New(cfg, logger)

	require.NotNil(t, srv)
	assert.NotNil(t, srv.Engine())
	assert.Equal(t, cfg, srv.Config())
	assert.Equal(t, "127.0.0.1:8080", srv.Addr())
	assert.Equal(t, int64(1<<20), srv.Engine().MaxMultipartMemory)
}

func TestServerStartShutdown(t *testing.T) {
	srv := New(serverConfig(0, 1<<20), discardLogger())
	srv.Engine().GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	errCh := srv.Start()

	resp, err := http.Get("http://" + srv.Addr() + "/ping")
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	assert.Equal(t, "pong", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))

	_, open := <-errCh
	assert.False(t, open, "error channel should be closed")
}

func TestServerStartBindFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	port := ln.Addr().(*net.TCPAddr).Port

	srv := New(serverConfig(port, 1<<20), discardLogger())

	err = <-srv.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on")
}

func TestSetupRouter_Routes(t *testing.T) {
	engine := gin.New()
	SetupRouter(engine, newRouterConfig(t))

	routes := make(map[string]bool)
	for _, r := range engine.Routes() {
		routes[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /-/live", "GET /-/ready", "GET /-/build", "GET /-/metrics",
		"GET /", "POST /quotes", "POST /quotes/show", "POST /quotes/import", "GET /quotes/export",
		"GET /api/v1/quotes", "POST /api/v1/quotes", "GET /api/v1/quotes/random",
		"GET /api/v1/quotes/last-viewed", "GET /api/v1/quotes/export", "POST /api/v1/quotes/import",
		"GET /api/v1/categories", "GET /api/v1/filter", "PUT /api/v1/filter",
		"POST /api/v1/sync", "GET /api/v1/sync/status",
	} {
		assert.True(t, routes[want], "missing route: %s", want)
	}
}

func TestSetupRouter_Middleware(t *testing.T) {
	engine := gin.New()
	SetupRouter(engine, newRouterConfig(t))

	t.Run("page sets the session cookie and request ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderCorrelationID))
		assert.Contains(t, w.Header().Get("Set-Cookie"), "quote_session=")
	})

	t.Run("probes carry no session", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/ready", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Set-Cookie"))
		assert.Contains(t, w.Body.String(), `"sqlite"`)
	})

	t.Run("api answers with JSON", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"categories":["Happiness","Inspiration","Motivation"]}`, w.Body.String())
	})
}

func TestSetupRouter_HealthOnly(t *testing.T) {
	engine := gin.New()

	require.NotPanics(t, func() {
		SetupRouter(engine, RouterConfig{
			ServiceName:   "quote-generator-test",
			HealthHandler: handlers.NewHealthHandler(ports.NewHealthRegistry(), handlers.BuildInfo{}, nil),
		})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMaxBodySize(t *testing.T) {
	srv := New(serverConfig(0, 64), discardLogger())
	cfg := newRouterConfig(t)
	SetupRouter(srv.Engine(), cfg)

	t.Run("small body passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(`{"text":"Hi.","category":"x"}`))

		w := httptest.NewRecorder()
		srv.Engine().ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("oversized body is rejected", func(t *testing.T) {
		big := `{"text":"` + strings.Repeat("a", 200) + `","category":"x"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(big))

		w := httptest.NewRecorder()
		srv.Engine().ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
