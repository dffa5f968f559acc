// Package metrics defines and registers all custom Prometheus metrics for
// the task API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskapi"

// TasksCreatedTotal counts newly created tasks.
// Label:
//   - priority: "low", "medium", or "high"
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created, by priority.",
	},
	[]string{"priority"},
)

// TasksUpdatedTotal counts successful task updates.
var TasksUpdatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_updated_total",
		Help:      "Total number of tasks updated.",
	},
)

// TasksDeletedTotal counts explicit task deletions (cascade deletions from
// user removal are not counted here).
var TasksDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_deleted_total",
		Help:      "Total number of tasks deleted via the API.",
	},
)

// AuthLoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var AuthLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
