// Package metrics provides Prometheus metrics for the splitbills service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "splitbills"

// Custom registry to avoid the default Go collector noise.
var registry = prometheus.NewRegistry()

var (
	proposals = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proposals_total",
		Help:      "Proposals handled by the merge gate, by kind and outcome.",
	}, []string{"kind", "outcome"})

	assistantCalls = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assistant_calls_total",
		Help:      "Calls to the Gemini-backed services, by call and outcome.",
	}, []string{"call", "outcome"})

	assistantLatency = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "assistant_call_seconds",
		Help:      "Latency of Gemini-backed service calls.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 30},
	}, []string{"call"})

	httpRequests = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests, by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})

	httpDuration = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method"})
)

// RecordProposal counts a merge-gate decision.
func RecordProposal(kind string, accepted bool) {
	outcome := "accepted"
	if !accepted {
		outcome = "rejected"
	}
	proposals.WithLabelValues(kind, outcome).Inc()
}

// RecordAssistantCall counts one Gemini call and observes its latency.
func RecordAssistantCall(call string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	assistantCalls.WithLabelValues(call, outcome).Inc()
	assistantLatency.WithLabelValues(call).Observe(elapsed.Seconds())
}

// RecordHTTPRequest counts one served request and observes its latency.
func RecordHTTPRequest(endpoint, method string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(endpoint, method).Observe(elapsed.Seconds())
}

// Handler exposes the registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
