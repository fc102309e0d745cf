// Package metrics exposes Prometheus collectors for prediction calls.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "agify"

// OutcomeSuccess labels a call that produced a 200 envelope. Failures are
// labelled with the errs.Op of the stage that failed.
const OutcomeSuccess = "success"

// durationBuckets are in seconds.
var durationBuckets = []float64{
	0.025, 0.05, 0.1, // fast
	0.25, 0.5, 1, // normal
	2.5, 5, 10, 30, // slow or timing out
}

// Metrics holds the collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	predictionsTotal *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
}

// New creates a Metrics instance backed by its own registry, with the Go
// runtime and process collectors attached.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		predictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "predictions_total",
				Help:      "Total number of prediction calls by outcome",
			},
			[]string{"outcome"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Duration of the outbound age-prediction call by outcome",
				Buckets:   durationBuckets,
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		m.predictionsTotal,
		m.upstreamDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// RecordPrediction counts one prediction call. A nil receiver is a no-op.
func (m *Metrics) RecordPrediction(outcome string) {
	if m == nil {
		return
	}
	m.predictionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveUpstream records the duration of one outbound call. A nil receiver
// is a no-op.
func (m *Metrics) ObserveUpstream(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.upstreamDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
