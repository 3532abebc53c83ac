package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	EventsReplayed    prometheus.Counter
	RebuildDuration   prometheus.Histogram
	RegisteredOracles prometheus.Gauge
	OracleResponses   prometheus.Counter
	ErrorsCount       *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		EventsReplayed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_replayed_total",
			Help:      "The total number of ledger events folded into state",
		}),
		RebuildDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "state_rebuild_duration_seconds",
			Help:      "Time taken to rebuild state from the event log",
			Buckets:   prometheus.DefBuckets,
		}),
		RegisteredOracles: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registered_oracles",
			Help:      "The number of oracle workers in the roster",
		}),
		OracleResponses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_responses_total",
			Help:      "The total number of oracle responses submitted",
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
