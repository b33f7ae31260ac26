package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "quotes"

// QuoteMetrics holds the Prometheus collectors for repository and sync activity.
// A nil *QuoteMetrics is valid and records nothing.
type QuoteMetrics struct {
	syncCycles     *prometheus.CounterVec
	syncDuration   prometheus.Histogram
	repositorySize prometheus.Gauge
	imported       prometheus.Counter
	skipped        prometheus.Counter
	added          prometheus.Counter
}

// NewQuoteMetrics registers the collectors with reg.
// Pass prometheus.DefaultRegisterer to expose them on /-/metrics.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	f := promauto.With(reg)

	return &QuoteMetrics{
		syncCycles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sync_cycles_total",
			Help:      "Sync cycles by outcome status.",
		}, []string{"status"}),
		syncDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "sync_cycle_duration_seconds",
			Help:      "Duration of sync cycles.",
			Buckets:   prometheus.DefBuckets,
		}),
		repositorySize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "repository_size",
			Help:      "Number of quotes currently held.",
		}),
		imported: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "imported_total",
			Help:      "Quotes appended by imports.",
		}),
		skipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "import_skipped_total",
			Help:      "Import records discarded as invalid.",
		}),
		added: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "added_total",
			Help:      "Quotes added through the form or API.",
		}),
	}
}

// ObserveSync records one completed sync cycle.
func (m *QuoteMetrics) ObserveSync(status string, seconds float64) {
	if m == nil {
		return
	}

	m.syncCycles.WithLabelValues(status).Inc()
	m.syncDuration.Observe(seconds)
}

// SetRepositorySize records the current number of quotes.
func (m *QuoteMetrics) SetRepositorySize(n int) {
	if m == nil {
		return
	}

	m.repositorySize.Set(float64(n))
}

// ObserveImport records the outcome of one import.
func (m *QuoteMetrics) ObserveImport(imported, skipped int) {
	if m == nil {
		return
	}

	m.imported.Add(float64(imported))
	m.skipped.Add(float64(skipped))
}

// ObserveAdd records one added quote.
func (m *QuoteMetrics) ObserveAdd() {
	if m == nil {
		return
	}

	m.added.Inc()
}
