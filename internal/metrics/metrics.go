// Package metrics exposes prometheus counters for run outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iwatcher_runs_total",
		Help: "Finished runs by terminal state.",
	}, []string{"state"})

	StageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iwatcher_stage_failures_total",
		Help: "Run failures by pipeline stage.",
	}, []string{"stage"})

	DeliveryOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iwatcher_delivery_outcomes_total",
		Help: "Per-sink delivery results.",
	}, []string{"sink", "result"})

	SummaryFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "iwatcher_summary_fallbacks_total",
		Help: "Runs that finished with a placeholder summary.",
	})
)
