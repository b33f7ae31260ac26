package bootstrap

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/platform/config"
)

type fakeRemote struct {
	server    *httptest.Server
	published atomic.Int32
}

func newFakeRemote(t *testing.T, posts string) *fakeRemote {
	t.Helper()

	f := &fakeRemote{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, posts)
		case http.MethodPost:
			f.published.Add(1)
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":101}`)
		}
	}))
	t.Cleanup(f.server.Close)

	return f
}

func testConfig(t *testing.T, remoteURL string) *config.Config {
	t.Helper()

	cfg, err := config.LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	cfg.Storage.Path = filepath.Join(t.TempDir(), "quotes.db")
	cfg.Services.Remote.BaseURL = remoteURL

	return cfg
}

func newCore(t *testing.T, cfg *config.Config) *Core {
	t.Helper()

	core, err := New(context.Background(), cfg, Options{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Registerer: prometheus.NewRegistry(),
	})
	require.NoError(t, err)

	return core
}

func TestNew_HydratesDefaults(t *testing.T) {
	remote := newFakeRemote(t, `[]`)
	core := newCore(t, testConfig(t, remote.server.URL))
	defer func() { require.NoError(t, core.Close()) }()

	assert.Equal(t, domain.DefaultQuotes(), core.Repository.Snapshot())
	assert.Equal(t, domain.SyncStatusIdle, core.Syncer.Status())
	assert.True(t, core.Remote.Optional())
}

func TestNew_PersistsAcrossRestart(t *testing.T) {
	remote := newFakeRemote(t, `[]`)
	cfg := testConfig(t, remote.server.URL)
	ctx := context.Background()

	core := newCore(t, cfg)
	_, err := core.Service.AddQuote(ctx, "", "Stay hungry.", "motivation")
	require.NoError(t, err)
	_, err = core.Service.SetFilter(ctx, "motivation")
	require.NoError(t, err)
	require.NoError(t, core.Close())

	assert.Equal(t, int32(1), remote.published.Load(), "close waits for the publish")

	reopened := newCore(t, cfg)
	defer func() { require.NoError(t, reopened.Close()) }()

	quotes := reopened.Repository.Snapshot()
	require.NotEmpty(t, quotes)
	assert.Equal(t, domain.Quote{Text: "Stay hungry.", Category: "motivation"}, quotes[len(quotes)-1])

	filter, err := reopened.Service.Filter(ctx)
	require.NoError(t, err)
	assert.Equal(t, "motivation", filter)
}

func TestNew_SyncReplacesFromRemote(t *testing.T) {
	remote := newFakeRemote(t, `[{"userId":1,"id":1,"title":"From the server","body":"x"}]`)
	core := newCore(t, testConfig(t, remote.server.URL))
	defer func() { require.NoError(t, core.Close()) }()

	report, err := core.Scheduler.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.SyncStatusConflict, report.Status)
	assert.Equal(t, []domain.Quote{{Text: "From the server", Category: domain.ServerCategory}}, core.Repository.Snapshot())
}

func TestNew_BadStorePath(t *testing.T) {
	remote := newFakeRemote(t, `[]`)
	cfg := testConfig(t, remote.server.URL)
	cfg.Storage.Path = filepath.Join(t.TempDir(), "missing", "\x00", "quotes.db")

	_, err := New(context.Background(), cfg, Options{})
	require.Error(t, err)
}

func TestLogger(t *testing.T) {
	cfg, err := config.LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	var buf bytes.Buffer

	logger, closer := Logger(cfg, &buf)
	logger.Info("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.NoError(t, closer.Close())
}
