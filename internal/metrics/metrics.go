// Package metrics defines Prometheus metrics for the Convivio session core.
//
// Metrics are registered on a package-level Registry rather than the global
// default one, so embedding applications choose whether to expose them.
//
// Naming follows Prometheus conventions:
//   - convivio_ prefix for all metrics
//   - _total suffix for counters
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds every Convivio metric.
	Registry = prometheus.NewRegistry()

	// SessionTransitionsTotal counts completed session transitions by target state.
	SessionTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "convivio_session_transitions_total",
			Help: "Total number of session state transitions by target state.",
		},
		[]string{"to"},
	)

	// LoginAttemptsTotal counts client login attempts by outcome.
	LoginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "convivio_login_attempts_total",
			Help: "Total number of login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// StorageSelfHealsTotal counts corrupt persisted sessions that were cleared.
	StorageSelfHealsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "convivio_storage_self_heals_total",
			Help: "Total number of corrupt persisted sessions cleared at startup.",
		},
	)

	// GuardDecisionsTotal counts route guard decisions.
	GuardDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "convivio_guard_decisions_total",
			Help: "Total number of route guard decisions by result.",
		},
		[]string{"decision"},
	)

	// APIRequestsTotal counts requests served by the stub API by route and status.
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "convivio_stub_api_requests_total",
			Help: "Total number of stub API requests by route and status code.",
		},
		[]string{"route", "status"},
	)
)

func init() {
	Registry.MustRegister(
		SessionTransitionsTotal,
		LoginAttemptsTotal,
		StorageSelfHealsTotal,
		GuardDecisionsTotal,
		APIRequestsTotal,
	)
}

// RecordTransition records a completed session transition.
func RecordTransition(to string) {
	SessionTransitionsTotal.WithLabelValues(to).Inc()
}

// RecordLoginAttempt records the outcome of a login attempt.
func RecordLoginAttempt(outcome string) {
	LoginAttemptsTotal.WithLabelValues(outcome).Inc()
}

// RecordSelfHeal records a cleared corrupt session.
func RecordSelfHeal() {
	StorageSelfHealsTotal.Inc()
}

// RecordGuardDecision records a guard decision ("allow", "login", "unauthorized").
func RecordGuardDecision(decision string) {
	GuardDecisionsTotal.WithLabelValues(decision).Inc()
}

// RecordAPIRequest records a request served by the stub API.
func RecordAPIRequest(route, status string) {
	APIRequestsTotal.WithLabelValues(route, status).Inc()
}

// Handler serves the Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
