// Package metrics defines the portal's custom Prometheus metrics. It is
// the single source of truth for metric names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "leaveportal"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionsInvalidatedTotal counts sessions force-cleared by the upstream
// 401 policy.
var SessionsInvalidatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_invalidated_total",
		Help:      "Total number of sessions cleared after an upstream 401.",
	},
)

// GuardDecisionsTotal counts route-guard outcomes per protected path.
// Labels:
//   - path: the protected route (e.g. "/all-requests")
//   - decision: "resolving", "login", "forbidden", or "allow"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total route-guard evaluations, by path and decision.",
	},
	[]string{"path", "decision"},
)

// UpstreamRequestsTotal counts calls to the leave backend.
// Labels:
//   - path: upstream path with numeric segments collapsed to ":id"
//   - status: HTTP status code returned by the backend
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total requests sent to the leave backend, by path and status.",
	},
	[]string{"path", "status"},
)
