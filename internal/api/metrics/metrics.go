// Package metrics defines and registers all custom Prometheus metrics for the
// storefront command bridge. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default registry at package init through
// promauto; RegisterWorkerPool is the only call made at startup.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Command metrics ───────────────────────────────────────────────────────────

// CommandsTotal counts command invocations.
// Labels:
//   - command: the requested command name, or "unknown" when not registered
//   - outcome: "ok" or the failure kind (validation, constraint, connectivity, ...)
var CommandsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commands_total",
		Help:      "Total number of commands invoked, by command and outcome.",
	},
	[]string{"command", "outcome"},
)

// CommandDuration measures a command from dispatch to result, decode included.
// Label:
//   - command: the registered command name
var CommandDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "command_duration_seconds",
		Help:      "Duration of command execution including decoding and the store round trip.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"command"},
)

// ── Entity metrics ────────────────────────────────────────────────────────────

// EntitiesCreatedTotal counts rows inserted through the services.
// Label:
//   - entity: "user", "product" or "order"
var EntitiesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entities_created_total",
		Help:      "Total number of entities created, by entity type.",
	},
	[]string{"entity"},
)

// ListCacheTotal counts list cache lookups.
// Labels:
//   - entity: "users", "products" or "orders"
//   - result: "hit", "miss" or "error"
var ListCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "list_cache_total",
		Help:      "Total number of list cache lookups, labelled by result (hit/miss/error).",
	},
	[]string{"entity", "result"},
)

// ── Worker pool metrics ───────────────────────────────────────────────────────

// RegisterWorkerPool exposes the command worker pool occupancy. Call once.
func RegisterWorkerPool(running, waiting func() int) {
	promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "worker_pool_running",
			Help:      "Number of command workers currently executing a job.",
		},
		func() float64 { return float64(running()) },
	)
	promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "worker_pool_waiting",
			Help:      "Number of command jobs blocked waiting for a free worker.",
		},
		func() float64 { return float64(waiting()) },
	)
}
