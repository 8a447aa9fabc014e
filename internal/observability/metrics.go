// Package observability exposes the service's Prometheus counters.
// All metrics live under the "backhaul" namespace and are registered
// against the default registry, served from /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SchedulerCyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "backhaul",
		Name:      "scheduler_cycles_total",
		Help:      "Number of auto-scheduler cycles executed.",
	})

	SchedulerMatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "backhaul",
		Name:      "scheduler_matches_total",
		Help:      "Number of profitable load matches found by the auto-scheduler.",
	})

	SchedulerAssignmentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "backhaul",
		Name:      "scheduler_assignments_total",
		Help:      "Number of loads committed to trips by the auto-scheduler.",
	})

	AllocationsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "backhaul",
		Name:      "allocations_created_total",
		Help:      "Number of manual truck/load allocations created.",
	})

	AllocationsCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "backhaul",
		Name:      "allocations_cancelled_total",
		Help:      "Number of manual truck/load allocations cancelled.",
	})
)
