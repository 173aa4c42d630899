// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studio_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// SSEConnections tracks open studio streams.
	SSEConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "studio_sse_connections",
			Help: "Number of open studio event streams",
		},
	)

	// GatewayDuration tracks outbound calls to the generation service.
	GatewayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_call_duration_seconds",
			Help:    "Generation service call duration",
			Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"operation", "outcome"},
	)

	// GatewayErrorsTotal tracks normalized gateway failures by kind.
	GatewayErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_errors_total",
			Help: "Generation service failures by kind",
		},
		[]string{"operation", "kind"},
	)

	// QuestionsGeneratedTotal tracks questions committed to the store.
	QuestionsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questions_generated_total",
			Help: "Total questions generated",
		},
		[]string{"source"},
	)

	// HistorySessions tracks the number of retained generation sessions.
	HistorySessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "history_sessions",
			Help: "Generation sessions retained in history",
		},
	)

	// RefinementTurnsTotal tracks refinement exchanges by outcome.
	RefinementTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refinement_turns_total",
			Help: "Refinement exchanges by outcome",
		},
		[]string{"outcome"},
	)

	// RefinementEditDistance tracks how much question text changes per refinement.
	RefinementEditDistance = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "refinement_text_edit_distance",
			Help:    "Levenshtein distance between question text before and after refinement",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 250, 500},
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordGatewayCall records metrics for one outbound call.
func RecordGatewayCall(operation, outcome string, duration float64) {
	GatewayDuration.WithLabelValues(operation, outcome).Observe(duration)
}

// RecordGatewayError counts a normalized failure.
func RecordGatewayError(operation, kind string) {
	GatewayErrorsTotal.WithLabelValues(operation, kind).Inc()
}

// RecordRefinement records the outcome of one refinement exchange.
func RecordRefinement(outcome string, editDistance int) {
	RefinementTurnsTotal.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		RefinementEditDistance.Observe(float64(editDistance))
	}
}

// IncrementSSEConnections increments the open stream gauge.
func IncrementSSEConnections() {
	SSEConnections.Inc()
}

// DecrementSSEConnections decrements the open stream gauge.
func DecrementSSEConnections() {
	SSEConnections.Dec()
}
