// Package metrics defines and registers all custom Prometheus metrics for
// the dearecho API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dearecho"

// SignInsTotal counts credential exchanges.
// Labels:
//   - method: "password" or "federated"
//   - result: "success" or the failed credential error family
//     (e.g. "wrong_password", "user_not_found", "popup_closed")
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ins_total",
		Help:      "Total number of sign-in attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// RegistrationsTotal counts account registrations.
// Label:
//   - result: "success", "email_in_use", "weak_password", "invalid", "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// GuardDecisionsTotal counts route-guard evaluations.
// Labels:
//   - guard: "forward" or "reverse"
//   - decision: "allow", "redirect", "hold"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard evaluations, by guard and decision.",
	},
	[]string{"guard", "decision"},
)

// SessionTransitionsTotal counts session store transitions.
// Label:
//   - state: "authenticated" or "unauthenticated"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions, by resulting state.",
	},
	[]string{"state"},
)
