// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CallsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_calls_started_total",
			Help: "Total number of intake calls answered at the entry step",
		},
	)

	CallsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_calls_completed_total",
			Help: "Total number of intake calls reaching a terminal state",
		},
		[]string{"outcome"},
	)

	StepsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_steps_processed_total",
			Help: "Total number of interview steps processed",
		},
		[]string{"step", "result"},
	)

	UpstreamFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_upstream_failures_total",
			Help: "Total number of upstream collaborator failures",
		},
		[]string{"service", "error_code"},
	)

	StepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "intake_step_duration_seconds",
			Help: "Duration of step handling in seconds",
		},
		[]string{"step"},
	)
)
