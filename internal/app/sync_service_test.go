package app

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/mocks"
	"github.com/jsamuelsen/quote-generator/internal/platform/telemetry"
)

var syncTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func serverQuotes(texts ...string) []domain.Quote {
	out := make([]domain.Quote, 0, len(texts))
	for _, text := range texts {
		out = append(out, domain.Quote{Text: text, Category: domain.ServerCategory})
	}

	return out
}

func newSyncer(t *testing.T, store *fakeStore, remote *mocks.MockRemoteQuoteSource) (*Syncer, *Repository) {
	t.Helper()

	repo := newRepository(t, store)

	return NewSyncer(SyncerConfig{
		Repository: repo,
		Remote:     remote,
		BatchSize:  5,
		Logger:     discardLogger(),
		Now:        func() time.Time { return syncTime },
	}), repo
}

func TestSyncer_InitialStatusIsIdle(t *testing.T) {
	syncer, _ := newSyncer(t, seeded(), mocks.NewMockRemoteQuoteSource(t))

	assert.Equal(t, domain.SyncStatusIdle, syncer.Status())
	assert.Equal(t, "Not synced yet.", syncer.LastReport().Message)
}

func TestSyncer_SyncCycle(t *testing.T) {
	batch := serverQuotes("one", "two", "three")

	tests := []struct {
		name      string
		local     []domain.Quote
		remote    []domain.Quote
		fetchErr  error
		status    domain.SyncStatus
		wantLocal []domain.Quote
		wantSaved bool
	}{
		{
			name:      "differs so server wins",
			local:     []domain.Quote{quoteA},
			remote:    batch,
			status:    domain.SyncStatusConflict,
			wantLocal: batch,
			wantSaved: true,
		},
		{
			name:      "equal batch is synced without a write",
			local:     batch,
			remote:    batch,
			status:    domain.SyncStatusSynced,
			wantLocal: batch,
		},
		{
			name:      "fetch failure leaves local untouched",
			local:     []domain.Quote{quoteA},
			fetchErr:  domain.NewUnavailableError("quote-remote", "connection refused"),
			status:    domain.SyncStatusFailed,
			wantLocal: []domain.Quote{quoteA},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seeded(tt.local...)
			remote := mocks.NewMockRemoteQuoteSource(t)
			remote.EXPECT().FetchBatch(mock.Anything, 5).Return(tt.remote, tt.fetchErr)

			syncer, repo := newSyncer(t, store, remote)

			report := syncer.SyncCycle(context.Background())

			assert.Equal(t, tt.status, report.Status)
			assert.Equal(t, tt.status.Message(), report.Message)
			assert.Equal(t, syncTime, report.At)
			assert.Equal(t, len(tt.local), report.LocalCount)
			assert.Equal(t, len(tt.remote), report.RemoteCount)
			assert.Equal(t, tt.wantLocal, repo.Snapshot())
			assert.Equal(t, report, syncer.LastReport())

			if tt.fetchErr != nil {
				assert.Contains(t, report.Error, "connection refused")
			}

			assert.Equal(t, tt.wantSaved, store.saves > 0)
		})
	}
}

func TestSyncer_PersistFailure(t *testing.T) {
	store := seeded(quoteA)
	remote := mocks.NewMockRemoteQuoteSource(t)
	remote.EXPECT().FetchBatch(mock.Anything, 5).Return(serverQuotes("one"), nil)

	syncer, repo := newSyncer(t, store, remote)
	store.failSaves(errDiskFull)

	report := syncer.SyncCycle(context.Background())

	assert.Equal(t, domain.SyncStatusFailed, report.Status)
	assert.Contains(t, report.Error, "disk full")
	assert.Equal(t, []domain.Quote{quoteA}, repo.Snapshot())
}

func TestSyncer_ComparesAgainstStateAtApplyTime(t *testing.T) {
	store := seeded(quoteA)
	batch := serverQuotes("one")

	remote := mocks.NewMockRemoteQuoteSource(t)
	syncer, repo := newSyncer(t, store, remote)

	remote.EXPECT().FetchBatch(mock.Anything, 5).
		RunAndReturn(func(ctx context.Context, _ int) ([]domain.Quote, error) {
			require.NoError(t, repo.Append(ctx, quoteB))
			return batch, nil
		})

	report := syncer.SyncCycle(context.Background())

	assert.Equal(t, domain.SyncStatusConflict, report.Status)
	assert.Equal(t, 2, report.LocalCount)
	assert.Equal(t, batch, repo.Snapshot(), "last fetch wins over the concurrent add")
}

func TestSyncer_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := telemetry.NewQuoteMetrics(reg)

	remote := mocks.NewMockRemoteQuoteSource(t)
	remote.EXPECT().FetchBatch(mock.Anything, DefaultSyncBatchSize).Return(serverQuotes("one"), nil).Twice()

	repo := NewRepository(seeded(), metrics, discardLogger())
	require.NoError(t, repo.Hydrate(context.Background()))

	syncer := NewSyncer(SyncerConfig{Repository: repo, Remote: remote, Metrics: metrics, Logger: discardLogger()})

	syncer.SyncCycle(context.Background())
	syncer.SyncCycle(context.Background())

	count, err := testutil.GatherAndCount(reg, "quotes_sync_cycles_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per status")
}
