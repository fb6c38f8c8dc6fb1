package mcp

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Tool call results recorded in metrics.
const (
	resultSuccess = "success"
	resultError   = "error"
)

// Metrics counts tool calls served by the MCP server.
type Metrics struct {
	registry *prometheus.Registry
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates tool call metrics on a private registry.
func NewMetrics() *Metrics {
	metrics := &Metrics{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "obsail",
			Subsystem: "mcp",
			Name:      "tool_calls_total",
			Help:      "Tool calls handled, by tool and result.",
		}, []string{"tool", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "obsail",
			Subsystem: "mcp",
			Name:      "tool_call_duration_seconds",
			Help:      "Wall time of tool calls, by tool.",
			Buckets:   []float64{0.1, 1, 5, 30, 60, 300, 600},
		}, []string{"tool"}),
	}

	metrics.registry.MustRegister(metrics.calls, metrics.duration)

	return metrics
}

// Registry exposes the registry for scraping.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observe(tool string, started time.Time, err error) {
	if m == nil {
		return
	}

	result := resultSuccess
	if err != nil {
		result = resultError
	}

	m.calls.WithLabelValues(tool, result).Inc()
	m.duration.WithLabelValues(tool).Observe(time.Since(started).Seconds())
}
