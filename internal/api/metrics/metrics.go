// Package metrics defines and registers the custom Prometheus metrics of the
// feedback portal. It is the single source of truth for metric names,
// labels, and help strings. All metrics register with the default registry
// on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "feedback_portal"

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestsTotal counts data-access calls.
// Labels:
//   - operation: backend operation (e.g. "list_feedback", "acknowledge_feedback")
//   - outcome: "ok", "auth_failed", "expired", "forbidden", "not_found", "conflict", "transport", "error"
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of backend calls, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// BackendRequestDuration measures backend call latency, including the
// simulated delay in demo mode.
// Label:
//   - operation: backend operation
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of backend calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginAttemptsTotal counts sign-in attempts.
// Label:
//   - result: "success", "rejected" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionInvalidationsTotal counts sessions cleared because the backend
// rejected their token.
// Label:
//   - mode: "live" or "demo"
var SessionInvalidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_invalidations_total",
		Help:      "Total number of sessions invalidated after an unauthorized response.",
	},
	[]string{"mode"},
)

// GuardDecisionsTotal counts route guard verdicts.
// Label:
//   - state: "unauthenticated", "unauthorized" or "authorized"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by resulting state.",
	},
	[]string{"state"},
)

// FormRejectionsTotal counts submissions blocked by client-side validation.
// Label:
//   - form: "login", "feedback", "feedback_edit", "register"
var FormRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "form_rejections_total",
		Help:      "Total number of form submissions rejected before reaching the backend.",
	},
	[]string{"form"},
)
