// Package metrics provides Prometheus metrics for the submission and
// moderation pipeline.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all Prometheus metrics exposed by the server.
type Metrics struct {
	SubmissionsTotal    *prometheus.CounterVec
	ModerationTotal     *prometheus.CounterVec
	AssistantRequests   *prometheus.CounterVec
	AssistantLatency    prometheus.Histogram
	NormalizerFallbacks prometheus.Counter
	ModerationQueueSize prometheus.Gauge

	registry *prometheus.Registry
}

// New creates and registers the server metrics on the given registry.
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.SubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "submissions_total",
		Help: "Total number of submissions by mode and outcome",
	}, []string{"mode", "outcome"})

	m.ModerationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_decisions_total",
		Help: "Total number of moderation decisions by action and outcome",
	}, []string{"action", "outcome"})

	m.AssistantRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_requests_total",
		Help: "Total number of assistant calls by kind and outcome",
	}, []string{"kind", "outcome"})

	m.AssistantLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "assistant_request_duration_seconds",
		Help:    "Latency of assistant calls",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	m.NormalizerFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "normalizer_fallbacks_total",
		Help: "Total number of submissions stored unnormalized because the normalizer was unavailable",
	})

	m.ModerationQueueSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "moderation_queue_size",
		Help: "Number of entries currently awaiting moderation",
	})
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.SubmissionsTotal.Describe(ch)
	m.ModerationTotal.Describe(ch)
	m.AssistantRequests.Describe(ch)
	m.AssistantLatency.Describe(ch)
	m.NormalizerFallbacks.Describe(ch)
	m.ModerationQueueSize.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.SubmissionsTotal.Collect(ch)
	m.ModerationTotal.Collect(ch)
	m.AssistantRequests.Collect(ch)
	m.AssistantLatency.Collect(ch)
	m.NormalizerFallbacks.Collect(ch)
	m.ModerationQueueSize.Collect(ch)
}

// RecordSubmission counts one submission attempt.
func (m *Metrics) RecordSubmission(mode, outcome string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(mode, outcome).Inc()
}

// RecordModeration counts one moderation decision.
func (m *Metrics) RecordModeration(action, outcome string) {
	if m == nil {
		return
	}
	m.ModerationTotal.WithLabelValues(action, outcome).Inc()
}

// RecordAssistant counts one assistant call and its latency.
func (m *Metrics) RecordAssistant(kind, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.AssistantRequests.WithLabelValues(kind, outcome).Inc()
	m.AssistantLatency.Observe(seconds)
}

// RecordNormalizerFallback counts one unnormalized passthrough.
func (m *Metrics) RecordNormalizerFallback() {
	if m == nil {
		return
	}
	m.NormalizerFallbacks.Inc()
}
