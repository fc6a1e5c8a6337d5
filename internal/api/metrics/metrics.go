// Package metrics defines and registers all custom Prometheus metrics for the
// Uventlo event-platform API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "uventlo"

// ── Account lifecycle metrics ─────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "rejected", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "locked", "inactive", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ActivationsTotal counts activation attempts.
// Label:
//   - result: "activated", "resent", "invalid_code", or "error"
var ActivationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activations_total",
		Help:      "Total number of account activation attempts, by result.",
	},
	[]string{"result"},
)

// PasswordResetsTotal counts password-reset steps.
// Labels:
//   - step:   "request", "verify", or "confirm"
//   - result: "ok" or "rejected"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password reset steps, by step and result.",
	},
	[]string{"step", "result"},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsCreatedTotal counts event creation attempts.
// Label:
//   - result: "created", "quota_exceeded", or "error"
var EventsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_created_total",
		Help:      "Total number of event creation attempts, by result.",
	},
	[]string{"result"},
)
