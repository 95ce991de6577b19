// Package telemetry registers the Prometheus metrics exported on /metrics.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "web_agent"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	// Invocations counts handled invocations by outcome
	// (success, error, no_input).
	Invocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invocations_total",
		Help:      "Agent invocations by outcome.",
	}, []string{"outcome"})

	InvocationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "invocation_duration_seconds",
		Help:      "Wall time of a full agent invocation.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 900},
	})

	ModelCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "model_calls_total",
		Help:      "Model completions by provider and outcome.",
	}, []string{"provider", "outcome"})

	ToolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tool_calls_total",
		Help:      "Tool executions by tool and outcome.",
	}, []string{"tool", "outcome"})

	BrowserSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "browser_steps_total",
		Help:      "Browsing sub-agent actions by action and outcome.",
	}, []string{"action", "outcome"})

	SessionsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "browser_sessions_opened_total",
		Help:      "Remote browser sessions opened.",
	})

	SessionsClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "browser_sessions_closed_total",
		Help:      "Remote browser sessions released by outcome.",
	}, []string{"outcome"})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "browser_sessions_active",
		Help:      "Remote browser sessions currently held.",
	})
)

// Outcome maps an error to an outcome label.
func Outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
