package handlers

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-generator/internal/adapters/codec"
	"github.com/jsamuelsen/quote-generator/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-generator/internal/adapters/storage/memory"
	"github.com/jsamuelsen/quote-generator/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/quote-generator/internal/app"
	"github.com/jsamuelsen/quote-generator/internal/domain"
)

// fakeSync records manual sync requests.
type fakeSync struct {
	report domain.SyncReport
	err    error
	runs   int
}

func (f *fakeSync) RunOnce(context.Context) (domain.SyncReport, error) {
	f.runs++
	return f.report, f.err
}

func (f *fakeSync) LastReport() domain.SyncReport { return f.report }

type testServer struct {
	router  *gin.Engine
	service *app.QuoteService
	store   *sqlite.Store
	sync    *fakeSync
	cookie  *http.Cookie
}

// newTestServer wires the real service over in-memory SQLite and serves
// both the API and the page.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := sqlite.Open(ctx, sqlite.Config{Path: sqlite.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cache := memory.NewCache(0, 0)
	t.Cleanup(func() { _ = cache.Close() })

	jsonCodec, err := codec.NewJSON()
	require.NoError(t, err)

	repo := app.NewRepository(store, nil, logger)
	require.NoError(t, repo.Hydrate(ctx))

	service := app.NewQuoteService(app.QuoteServiceConfig{
		Repository: repo,
		Store:      store,
		Sessions:   memory.NewSessionStore(cache, time.Hour),
		Codec:      jsonCodec,
		Logger:     logger,
		IntN:       func(int) int { return 0 },
	})

	sync := &fakeSync{report: domain.SyncReport{Status: domain.SyncStatusIdle}}

	router := gin.New()
	router.Use(middleware.Session(middleware.SessionConfig{CookieName: "quote_session", TTL: time.Hour}))
	NewQuoteHandler(service, sync, sync).RegisterQuoteRoutes(router.Group("/api/v1"))
	NewPageHandler(service, sync).RegisterPageRoutes(router)

	return &testServer{router: router, service: service, store: store, sync: sync}
}

// do serves req, carrying the session cookie across calls.
func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == "quote_session" {
			s.cookie = c
		}
	}

	return w
}

func multipartBody(t *testing.T, field, filename string, contents []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)

	_, err = fw.Write(contents)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}
