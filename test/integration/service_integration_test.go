//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-generator/internal/domain"
)

func postQuote(t *testing.T, baseURL, text, category string) int {
	t.Helper()

	body := fmt.Sprintf(`{"text":%q,"category":%q}`, text, category)

	resp, err := http.Post(baseURL+"/api/v1/quotes", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	return resp.StatusCode
}

func exported(t *testing.T, baseURL string) []domain.Quote {
	t.Helper()

	resp, err := http.Get(baseURL + "/api/v1/quotes/export")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "quotes.json")

	var quotes []domain.Quote
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&quotes))

	return quotes
}

func TestConcurrent_AddsAreAllKept(t *testing.T) {
	s := startStack(t)

	const writers = 20

	var wg sync.WaitGroup
	for i := range writers {
		wg.Go(func() {
			assert.Equal(t, http.StatusCreated, postQuote(t, s.URL, fmt.Sprintf("quote %d", i), "load"))
		})
	}
	wg.Wait()

	quotes := exported(t, s.URL)
	assert.Len(t, quotes, len(domain.DefaultQuotes())+writers)
	assert.Len(t, domain.Filter(quotes, "load"), writers)

	s.core.Service.WaitPublishing()
	assert.Equal(t, int32(writers), s.remote.published.Load())
}

func TestConcurrent_SyncAndAddsLeaveStoreConsistent(t *testing.T) {
	s := startStack(t)
	s.remote.serve(http.StatusOK, `[{"userId":1,"id":1,"title":"Server one","body":""},{"userId":1,"id":2,"title":"Server two","body":""}]`)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Go(func() {
			postQuote(t, s.URL, fmt.Sprintf("racing %d", i), "race")
		})
		wg.Go(func() {
			_, _ = s.core.Scheduler.RunOnce(context.Background())
		})
	}
	wg.Wait()

	stored, found, err := s.core.Store.LoadQuotes(context.Background())
	require.NoError(t, err)
	require.True(t, found)

	if diff := cmp.Diff(s.core.Repository.Snapshot(), stored); diff != "" {
		t.Errorf("store differs from repository (-repo +store):\n%s", diff)
	}

	assert.Equal(t, stored, exported(t, s.URL))
}

func TestExportImport_RoundTrip(t *testing.T) {
	s := startStack(t)
	require.Equal(t, http.StatusCreated, postQuote(t, s.URL, "Round and round", "loops"))

	before := exported(t, s.URL)
	data, err := json.Marshal(before)
	require.NoError(t, err)

	target := startStack(t)
	_, _, err = target.core.Repository.ReplaceIfDifferent(context.Background(), []domain.Quote{})
	require.NoError(t, err)

	resp, err := http.Post(target.URL+"/api/v1/quotes/import", "application/json", strings.NewReader(string(data)))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	if diff := cmp.Diff(before, exported(t, target.URL)); diff != "" {
		t.Errorf("round trip mismatch (-before +after):\n%s", diff)
	}
}

func TestReadiness_RemoteDownIsDegraded(t *testing.T) {
	s := startStack(t)
	s.remote.serve(http.StatusServiceUnavailable, `{}`)

	for range 6 {
		_, _ = s.core.Scheduler.RunOnce(context.Background())
	}

	resp, err := http.Get(s.URL + "/-/ready")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "degraded", body.Status)
}
