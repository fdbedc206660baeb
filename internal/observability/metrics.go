// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the watcher.
type Metrics struct {
	// Polling metrics
	PollCycles         *prometheus.CounterVec
	PollErrors         *prometheus.CounterVec
	RecordsEvaluated   *prometheus.CounterVec
	LastSuccessfulPoll *prometheus.GaugeVec

	// Detection metrics
	ListingsDetected *prometheus.CounterVec

	// Delivery metrics
	NotifyFailures prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered
// on the default registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "criptabot"
	}

	return &Metrics{
		PollCycles: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "cycles_total",
			Help:      "Total number of completed poll cycles by exchange and source kind",
		}, []string{"exchange", "kind"}),
		PollErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "errors_total",
			Help:      "Total number of failed poll cycles by exchange and source kind",
		}, []string{"exchange", "kind"}),
		RecordsEvaluated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "records_evaluated_total",
			Help:      "Total number of candidate records evaluated by exchange and source kind",
		}, []string{"exchange", "kind"}),
		LastSuccessfulPoll: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "last_successful_poll_timestamp_seconds",
			Help:      "Unix timestamp of the last successful poll cycle",
		}, []string{"exchange", "kind"}),
		ListingsDetected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "listings_detected_total",
			Help:      "Total number of new listings detected by exchange and source kind",
		}, []string{"exchange", "kind"}),
		NotifyFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "notify_failures_total",
			Help:      "Total number of notification deliveries that failed",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
