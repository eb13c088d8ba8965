package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the Prometheus instruments for transcript imports.
type Metrics struct {
	Imports        *prometheus.CounterVec
	Pairs          *prometheus.CounterVec
	LinesSkipped   prometheus.Counter
	ImportDuration prometheus.Histogram
}

// NewMetrics registers the instruments with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Imports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Transcript imports by final status.",
		}, []string{"status"}),
		Pairs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_pairs_total",
			Help:      "Imported prompt/reply pairs by outcome.",
		}, []string{"outcome"}),
		LinesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_lines_skipped_total",
			Help:      "Transcript lines dropped by the parser.",
		}),
		ImportDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_duration_ms",
			Help:      "Wall time of a transcript import in milliseconds.",
			Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
	}
}

// ObserveImport records the result of one import call. status is "ok",
// "partial" or "failed".
func (m *Metrics) ObserveImport(status string, created, updated, skipped, failed, linesSkipped int, d time.Duration) {
	m.Imports.WithLabelValues(status).Inc()
	m.Pairs.WithLabelValues("created").Add(float64(created))
	m.Pairs.WithLabelValues("updated").Add(float64(updated))
	m.Pairs.WithLabelValues("skipped").Add(float64(skipped))
	m.Pairs.WithLabelValues("error").Add(float64(failed))
	m.LinesSkipped.Add(float64(linesSkipped))
	m.ImportDuration.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
