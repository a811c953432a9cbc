package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "qsolog"

// Drop reasons used as the "reason" label of RecordsDropped.
const (
	ReasonMalformed = "malformed"
	ReasonCoercion  = "coercion"
	ReasonSyntax    = "syntax"
)

// Metrics holds the Prometheus counters, histograms, and gauges for log loading and merging.
type Metrics struct {
	FilesLoaded     prometheus.Counter
	RecordsParsed   prometheus.Counter
	RecordsDropped  *prometheus.CounterVec // labels: reason={malformed,coercion,syntax}
	RecordsSkipped  prometheus.Counter
	RecordsAbsorbed prometheus.Counter
	QSOsMerged      prometheus.Gauge

	LoadDuration prometheus.Histogram

	// Kafka publishing.
	MessagesProduced prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all metrics and registers them with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.FilesLoaded,
		m.RecordsParsed,
		m.RecordsDropped,
		m.RecordsSkipped,
		m.RecordsAbsorbed,
		m.QSOsMerged,
		m.LoadDuration,
		m.MessagesProduced,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so that tests can build
// as many as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FilesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_loaded_total",
			Help:      "Total ADIF source files read.",
		}),
		RecordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_parsed_total",
			Help:      "Total records normalized into QSOs.",
		}),
		RecordsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_dropped_total",
			Help:      "Records dropped during loading, by reason.",
		}, []string{"reason"}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Records from later sources skipped for an unknown callsign.",
		}),
		RecordsAbsorbed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_absorbed_total",
			Help:      "Records folded into a neighbor by the fuzzy merge.",
		}),
		QSOsMerged: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "qsos_merged",
			Help:      "QSOs in the most recent merged set.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Duration of a complete load-and-merge run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Total QSO messages written to Kafka.",
		}),
	}
}
