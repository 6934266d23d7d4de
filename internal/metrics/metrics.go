package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/weather-query/internal/weather"
)

// Metrics tracks query and dataset reload activity.
//
// Metrics:
//   - <ns>_queries_total: queries by outcome (ok, empty, not_found, invalid, unavailable)
//   - <ns>_query_duration_seconds: parse + evaluation time
//   - <ns>_result_records: records returned per successful query
//   - <ns>_dataset_records: records in the published dataset
//   - <ns>_reloads_total: dataset reloads by status (ok, error)
type Metrics struct {
	registry *prometheus.Registry

	queriesTotal   *prometheus.CounterVec
	queryDuration  prometheus.Histogram
	resultRecords  prometheus.Histogram
	datasetRecords prometheus.Gauge
	reloadsTotal   *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a private registry.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Total number of weather queries by outcome",
			},
			[]string{"outcome"},
		),

		queryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Time spent parsing and evaluating queries",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
			},
		),

		resultRecords: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "result_records",
				Help:      "Number of records returned per query",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
		),

		datasetRecords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_records",
				Help:      "Number of records in the published dataset",
			},
		),

		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reloads_total",
				Help:      "Total number of dataset reloads by status",
			},
			[]string{"status"},
		),
	}

	m.registry.MustRegister(
		m.queriesTotal,
		m.queryDuration,
		m.resultRecords,
		m.datasetRecords,
		m.reloadsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveQuery records one query.
func (m *Metrics) ObserveQuery(outcome string, results int, elapsed time.Duration) {
	m.queriesTotal.WithLabelValues(outcome).Inc()
	m.queryDuration.Observe(elapsed.Seconds())
	if outcome == weather.OutcomeOK || outcome == weather.OutcomeEmpty {
		m.resultRecords.Observe(float64(results))
	}
}

// ObserveReload records one reload attempt. The dataset gauge only moves on
// success since a failed reload keeps the previous dataset.
func (m *Metrics) ObserveReload(err error, records int) {
	if err != nil {
		m.reloadsTotal.WithLabelValues("error").Inc()
		return
	}
	m.reloadsTotal.WithLabelValues("ok").Inc()
	m.datasetRecords.Set(float64(records))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
