package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-generator/internal/domain"
)

type harness struct {
	t      *testing.T
	config string
	db     string
}

func newHarness(t *testing.T, posts string) *harness {
	t.Helper()

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":101}`)

			return
		}

		_, _ = io.WriteString(w, posts)
	}))
	t.Cleanup(remote.Close)

	t.Setenv("APP_SERVICES_REMOTE_BASE_URL", remote.URL)
	t.Setenv("APP_LOG_LEVEL", "error")

	return &harness{
		t:      t,
		config: t.TempDir(),
		db:     filepath.Join(t.TempDir(), "quotes.db"),
	}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()

	var out, errOut bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config-dir", h.config, "--profile", "", "--db", h.db}, args...))

	err := cmd.Execute()

	return out.String(), err
}

func TestQuotectl_AddShowCategories(t *testing.T) {
	h := newHarness(t, `[]`)

	out, err := h.run("add", "--text", "  Less is more.  ", "--category", "design")
	require.NoError(t, err)
	assert.Equal(t, "Quote added successfully! [design] Less is more.\n", out)

	out, err = h.run("show", "--category", "design")
	require.NoError(t, err)
	assert.Equal(t, "\"Less is more.\"\n  (design)\n", out)

	out, err = h.run("show", "--category", "nothing-here")
	require.NoError(t, err)
	assert.Equal(t, domain.NoQuotesMessage+"\n", out)

	out, err = h.run("categories")
	require.NoError(t, err)
	assert.Contains(t, out, "design\n")
}

func TestQuotectl_AddRejectsBlankText(t *testing.T) {
	h := newHarness(t, `[]`)

	_, err := h.run("add", "--text", "   ", "--category", "design")
	require.Error(t, err)

	_, err = h.run("add", "--category", "design")
	require.Error(t, err, "text is a required flag")
}

func TestQuotectl_ExportImportRoundTrip(t *testing.T) {
	h := newHarness(t, `[]`)
	exportPath := filepath.Join(t.TempDir(), "quotes.json")

	out, err := h.run("export", "-o", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported")

	var exported []domain.Quote
	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Equal(t, domain.DefaultQuotes(), exported)

	importPath := filepath.Join(t.TempDir(), "more.json")
	require.NoError(t, os.WriteFile(importPath, []byte(`[{"text":"A","category":"b"},{"notAQuote":1}]`), 0o600))

	out, err = h.run("import", importPath)
	require.NoError(t, err)
	assert.Equal(t, "Quotes imported successfully! 1 imported, 1 skipped.\n", out)

	out, err = h.run("export")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	assert.Equal(t, append(domain.DefaultQuotes(), domain.Quote{Text: "A", Category: "b"}), exported)
}

func TestQuotectl_ImportErrors(t *testing.T) {
	h := newHarness(t, `[]`)

	_, err := h.run("import", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"nope":true}]`), 0o600))

	_, err = h.run("import", bad)
	require.EqualError(t, err, "no valid quotes found")
}

func TestQuotectl_Sync(t *testing.T) {
	h := newHarness(t, `[{"userId":1,"id":1,"title":"Server wisdom","body":"x"}]`)

	out, err := h.run("sync")
	require.NoError(t, err)
	assert.Contains(t, out, domain.SyncStatusConflict.Message())

	out, err = h.run("sync")
	require.NoError(t, err)
	assert.Contains(t, out, domain.SyncStatusSynced.Message())

	out, err = h.run("categories")
	require.NoError(t, err)
	assert.Equal(t, domain.ServerCategory+"\n", out)
}

func TestQuotectl_SyncFailure(t *testing.T) {
	h := newHarness(t, `not json`)

	out, err := h.run("sync")
	require.Error(t, err)
	assert.Contains(t, out, domain.SyncStatusFailed.Message())
}
