// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	SimulationsEvaluated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticpe_simulations_evaluated_total",
			Help: "Total number of eligibility simulations evaluated",
		},
		[]string{"confidence_level"},
	)

	SimulationRecoveryAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticpe_simulation_recovery_eur",
			Help:    "Distribution of estimated recovery amounts in EUR",
			Buckets: []float64{0, 500, 1000, 2500, 5000, 10000, 25000, 50000, 100000},
		},
	)

	RefDataFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticpe_refdata_fallbacks_total",
			Help: "Times the engine fell back to compiled default tables",
		},
		[]string{"table"},
	)
)
