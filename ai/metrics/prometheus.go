// Package metrics provides Prometheus metrics export for the travel assistant.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusExporter exports assistant metrics in Prometheus format.
type PrometheusExporter struct {
	registry *prometheus.Registry

	// Turn metrics
	turns       *prometheus.CounterVec
	turnLatency *prometheus.HistogramVec
	confidence  *prometheus.HistogramVec

	// Session metrics
	evictions      prometheus.Counter
	activeSessions prometheus.Gauge
	rejected       *prometheus.CounterVec
}

// Config configures the Prometheus exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns default Prometheus configuration.
// Turns never leave the process, so buckets start at 10µs.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	}
}

// confidenceBuckets line up with the keyword-count steps: 1/3, 1/2 (no match), 2/3, 1.
var confidenceBuckets = []float64{0.34, 0.5, 0.67, 1}

// NewPrometheusExporter creates a new Prometheus metrics exporter.
func NewPrometheusExporter(cfg Config) *PrometheusExporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &PrometheusExporter{registry: registry}

	e.turns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelmate",
			Subsystem: "assistant",
			Name:      "turns_total",
			Help:      "Total number of processed conversation turns",
		},
		[]string{"intent"},
	)

	e.turnLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "travelmate",
			Subsystem: "assistant",
			Name:      "turn_latency_seconds",
			Help:      "Turn processing latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"intent"},
	)

	e.confidence = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "travelmate",
			Subsystem: "assistant",
			Name:      "intent_confidence",
			Help:      "Confidence of detected intents",
			Buckets:   confidenceBuckets,
		},
		[]string{"intent"},
	)

	e.evictions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "travelmate",
			Subsystem: "session",
			Name:      "history_evictions_total",
			Help:      "Messages dropped by the conversation history cap",
		},
	)

	e.activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "travelmate",
			Subsystem: "session",
			Name:      "active",
			Help:      "Number of live sessions",
		},
	)

	e.rejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelmate",
			Subsystem: "session",
			Name:      "rejected_updates_total",
			Help:      "Context updates rejected by validation",
		},
		[]string{"reason"},
	)

	registry.MustRegister(
		e.turns,
		e.turnLatency,
		e.confidence,
		e.evictions,
		e.activeSessions,
		e.rejected,
	)

	return e
}

// RecordTurn records one processed turn.
func (e *PrometheusExporter) RecordTurn(intent string, confidence float64, latency time.Duration) {
	e.turns.WithLabelValues(intent).Inc()
	e.turnLatency.WithLabelValues(intent).Observe(latency.Seconds())
	e.confidence.WithLabelValues(intent).Observe(confidence)
}

// RecordEvictions adds n evicted history messages.
func (e *PrometheusExporter) RecordEvictions(n int) {
	if n > 0 {
		e.evictions.Add(float64(n))
	}
}

// RecordRejectedUpdate records a context update rejected for reason.
func (e *PrometheusExporter) RecordRejectedUpdate(reason string) {
	e.rejected.WithLabelValues(reason).Inc()
}

// SetActiveSessions sets the number of live sessions.
func (e *PrometheusExporter) SetActiveSessions(count int) {
	e.activeSessions.Set(float64(count))
}

// Handler returns the HTTP handler for the metrics endpoint.
func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// ServeHTTP implements http.Handler for the metrics endpoint.
func (e *PrometheusExporter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.Handler().ServeHTTP(w, r)
}

// ExportText exports counters and gauges as "name{labels} value" lines.
// Histograms report their sample count. The chat REPL prints this for /metrics.
func (e *PrometheusExporter) ExportText() (string, error) {
	families, err := e.registry.Gather()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				value = float64(m.GetHistogram().GetSampleCount())
			default:
				continue
			}

			sb.WriteString(mf.GetName())
			if labels := m.GetLabel(); len(labels) > 0 {
				sb.WriteString("{")
				for i, lp := range labels {
					if i > 0 {
						sb.WriteString(",")
					}
					sb.WriteString(lp.GetName())
					sb.WriteString("=\"")
					sb.WriteString(lp.GetValue())
					sb.WriteString("\"")
				}
				sb.WriteString("}")
			}
			sb.WriteString(" ")
			sb.WriteString(strconv.FormatFloat(value, 'g', -1, 64))
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}
