// Package metrics defines the custom Prometheus metrics of the messaging API.
// It is the single source of truth for metric names, labels, and help strings.
//
// All metrics register with the default Prometheus registry on package
// initialisation and are exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "messagely"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "accepted" or "rejected"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts that reached the store.
// Label:
//   - result: "created" or "duplicate"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registrations, by result.",
	},
	[]string{"result"},
)

// GuardRejectionsTotal counts requests turned away by the auth guard.
// Label:
//   - reason: "missing_token", "invalid_token" or "wrong_user"
var GuardRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_rejections_total",
		Help:      "Total number of requests rejected by the authorization guard.",
	},
	[]string{"reason"},
)

// ── Login recorder metrics ────────────────────────────────────────────────────

// LoginUpdatesTotal counts asynchronous last-login updates.
// Label:
//   - result: "applied", "failed" or "dropped"
var LoginUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_updates_total",
		Help:      "Total number of last-login timestamp updates, by result.",
	},
	[]string{"result"},
)

// LoginQueueDepth tracks pending updates in each recorder worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var LoginQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "login_queue_depth",
		Help:      "Current number of last-login updates pending in each recorder worker channel.",
	},
	[]string{"worker_id"},
)

// ── Message metrics ───────────────────────────────────────────────────────────

// MessagesSentTotal counts created messages.
var MessagesSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Total number of messages sent.",
	},
)

// MessagesReadTotal counts messages transitioning from unread to read.
var MessagesReadTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_read_total",
		Help:      "Total number of messages marked read for the first time.",
	},
)
