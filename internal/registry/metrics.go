package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricsRegistry = prometheus.NewRegistry()
	factory         = promauto.With(metricsRegistry)

	loadDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bundlex_registry_load_duration_seconds",
			Help:    "Duration of registry document loads in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	loadTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bundlex_registry_load_total",
			Help: "Total number of registry loads by outcome",
		},
		[]string{"status"}, // ok, partial, missing, corrupt, error
	)

	saveDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bundlex_registry_save_duration_seconds",
			Help:    "Duration of registry document saves in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	saveTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bundlex_registry_save_total",
			Help: "Total number of registry saves by outcome",
		},
		[]string{"status"}, // ok or error
	)

	operationTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bundlex_registry_operations_total",
			Help: "Total number of registry mutations by operation and result",
		},
		[]string{"operation", "result"},
	)

	skippedRecordsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bundlex_registry_skipped_records_total",
			Help: "Document records skipped during load because they failed validation",
		},
		[]string{"record"}, // bundle or asset
	)

	sizeGauge = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bundlex_registry_size",
			Help: "Number of entries in the registry after the last load or save",
		},
		[]string{"kind"}, // bundles or assets
	)
)

func recordOp(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	operationTotal.WithLabelValues(op, result).Inc()
}

func (r *Registry) recordSize() {
	sizeGauge.WithLabelValues("bundles").Set(float64(len(r.bundles)))
	sizeGauge.WithLabelValues("assets").Set(float64(len(r.assets)))
}

// WriteMetrics writes the registry metrics to path in the Prometheus text
// exposition format, suitable for a node exporter textfile collector.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, metricsRegistry)
}
