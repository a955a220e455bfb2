// Package metrics defines and registers all custom Prometheus metrics for the
// clinic portal API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import via
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic"

// ── Authorization ─────────────────────────────────────────────────────────────

// PolicyDenialsTotal counts user-management actions refused by the user policy.
// Label:
//   - action: the policy action (e.g. "create", "update", "view_stats")
var PolicyDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "policy_denials_total",
		Help:      "Total number of user-management actions denied by policy.",
	},
	[]string{"action"},
)

// ── User metrics ──────────────────────────────────────────────────────────────

// UsersCreatedTotal counts accounts provisioned by administrators.
// Label:
//   - role: the role of the new account (e.g. "agent", "patient")
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user accounts created, by role.",
	},
	[]string{"role"},
)

// PasswordResetsTotal counts password reset flow steps.
// Labels:
//   - stage: "requested" or "completed"
//   - result: "ok" or "error"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password reset requests and completions.",
	},
	[]string{"stage", "result"},
)

// ── Document metrics ──────────────────────────────────────────────────────────

// DocumentsRenderedTotal counts quote documents produced.
// Labels:
//   - sink: "http" (streamed to the client) or "archive" (stored in object storage)
//   - result: "ok", "missing_field", or "error"
var DocumentsRenderedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_rendered_total",
		Help:      "Total number of quote documents rendered, by sink and result.",
	},
	[]string{"sink", "result"},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// MailSentTotal counts delivery attempts made by the mail workers.
// Label:
//   - result: "ok", "error", or "dropped" (queue full)
var MailSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_sent_total",
		Help:      "Total number of outgoing emails, labelled by delivery result.",
	},
	[]string{"result"},
)

// MailQueueDepth tracks the number of emails waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of emails pending in each mail worker channel.",
	},
	[]string{"worker_id"},
)

// MailDeliveryDuration measures how long a single SMTP delivery takes.
var MailDeliveryDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mail_delivery_duration_seconds",
		Help:      "Duration of a single outgoing email delivery.",
		Buckets:   prometheus.DefBuckets,
	},
)
