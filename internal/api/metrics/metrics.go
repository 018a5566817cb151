// Package metrics declares the custom Prometheus collectors of the archive
// API. HTTP request metrics come from echoprometheus; the counters here
// cover authentication and provisioning outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "video_archive"

// ── Authentication ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Labels:
//   - kind: "admin", "user" or "unknown" (failed before an identity was known)
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts by identity kind and result.",
	},
	[]string{"kind", "result"},
)

// TokenVerificationsTotal counts bearer token checks made by the auth middleware.
// Label:
//   - result: "valid", "expired", "invalid" or "missing"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications by result.",
	},
	[]string{"result"},
)

// AccessDeniedTotal counts requests rejected by role checks.
var AccessDeniedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of authenticated requests rejected for insufficient role.",
	},
)

// PasswordResetsTotal counts password reset requests.
// Label:
//   - result: "success", "not_found", "invalid" or "error"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password reset requests by result.",
	},
	[]string{"result"},
)

// ── Provisioning ─────────────────────────────────────────────────────────────

// UsersProvisionedTotal counts admin account creation attempts.
// Label:
//   - result: "created", "conflict", "invalid", "notify_failed" or "error"
var UsersProvisionedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_provisioned_total",
		Help:      "Total number of account provisioning attempts by result.",
	},
	[]string{"result"},
)
