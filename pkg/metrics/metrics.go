package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smpeduli",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests served, by route pattern.",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "smpeduli",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by route pattern.",
			Buckets: []float64{
				0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2, 5,
			},
		},
		[]string{"route"},
	)

	WizardActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smpeduli",
			Name:      "wizard_actions_total",
			Help:      "Donation wizard actions, by action and outcome.",
		},
		[]string{"action", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration, WizardActionsTotal)
}

// IncRequest records one served request.
func IncRequest(route, method, status string) {
	HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
}

// ObserveDuration records request latency for a route.
func ObserveDuration(route string, seconds float64) {
	HTTPRequestDuration.WithLabelValues(route).Observe(seconds)
}

// IncWizardAction records a donation wizard action outcome.
func IncWizardAction(action, outcome string) {
	WizardActionsTotal.WithLabelValues(action, outcome).Inc()
}
