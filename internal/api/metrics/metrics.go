// Package metrics defines and registers all custom Prometheus metrics for the
// aquifer console API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry via promauto at
// package initialisation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aquifer"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "rejected"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts bearer token verifications performed by the
// auth middleware.
// Label:
//   - result: "ok", "invalid_signature", "expired", "malformed", "unknown_subject"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)

// UsersCreatedTotal counts accounts created through the admin endpoint.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of directory accounts created.",
	},
)

// ── Simulation metrics ────────────────────────────────────────────────────────

// SimulationsCreatedTotal counts newly created simulation runs.
// Label:
//   - type: the simulation type (e.g. "forward_run", "optimization")
var SimulationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulations_created_total",
		Help:      "Total number of simulation runs created, by type.",
	},
	[]string{"type"},
)

// RunEventsProcessedTotal counts worker status events that completed processing.
// Label:
//   - status: the new simulation status applied by the event
var RunEventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "run_events_processed_total",
		Help:      "Total number of simulation run events successfully processed.",
	},
	[]string{"status"},
)

// RunEventsErrorsTotal counts worker status events that failed processing.
// Label:
//   - reason: short description of the failure (e.g. "invalid_transition", "simulation_not_found")
var RunEventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "run_events_errors_total",
		Help:      "Total number of simulation run events that failed processing.",
	},
	[]string{"reason"},
)

// RunEventsDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new event, processed)
var RunEventsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "run_events_dedup_total",
		Help:      "Total number of deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// RunEventsQueueDepth tracks the current number of events waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var RunEventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "run_events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// RunEventProcessingDuration measures how long a single event takes to process
// end-to-end.
// Label:
//   - status: the resulting simulation status, or "error" on failure
var RunEventProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_event_processing_duration_seconds",
		Help:      "Duration of run event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"status"},
)
