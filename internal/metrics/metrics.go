// Package metrics exposes prometheus counters for ledger mutations and
// snapshot persistence.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultNotFound = "not_found"
	ResultFallback = "fallback"
)

var (
	Mutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finance_pro_mutations_total",
			Help: "Total number of ledger mutations by operation and outcome",
		},
		[]string{"op", "result"},
	)

	SnapshotSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finance_pro_snapshot_saves_total",
			Help: "Total number of snapshot saves by outcome",
		},
		[]string{"result"},
	)

	SnapshotLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finance_pro_snapshot_loads_total",
			Help: "Total number of snapshot loads by outcome",
		},
		[]string{"result"},
	)
)

// ObserveMutation counts one mutation attempt.
func ObserveMutation(op string, accepted bool) {
	result := ResultRejected
	if accepted {
		result = ResultAccepted
	}
	Mutations.WithLabelValues(op, result).Inc()
}
