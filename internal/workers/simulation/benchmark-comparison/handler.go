// internal/workers/simulation/benchmark-comparison/handler.go
package benchmarkcomparison

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"profitum-workers/internal/common/errors"
	"profitum-workers/internal/common/logger"
	"profitum-workers/internal/common/metrics"
	"profitum-workers/internal/models"
	"profitum-workers/internal/refdata"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "compare-ticpe-benchmark"

const (
	PositionBelow  = "below"
	PositionWithin = "within"
	PositionAbove  = "above"
)

type Handler struct {
	config       *Config
	store        *refdata.Store
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, store *refdata.Store, log logger.Logger) *Handler {
	workerLog := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		store:        store,
		logger:       workerLog,
		errorHandler: errors.NewErrorHandler(workerLog),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.ErrCodeSimulationInputInvalid)).Inc()
		h.errorHandler.HandleJobError(ctx, client, job,
			errors.NewSimulationInputInvalidError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "COMPARISON_FAILED").Inc()
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Sector == "" {
		return nil, errors.NewSimulationInputInvalidError("sector is required for benchmark comparison")
	}
	if input.EstimatedRecovery < 0 {
		return nil, errors.NewSimulationInputInvalidError("estimatedRecovery must not be negative")
	}

	benchmark, err := h.store.Benchmark(ctx, input.Sector)
	if err != nil {
		return nil, err
	}

	comparison := compare(input.EstimatedRecovery, benchmark)

	h.logger.Info("benchmark comparison complete", map[string]interface{}{
		"simulationId": input.SimulationID,
		"sector":       input.Sector,
		"position":     comparison.Position,
		"deltaPercent": comparison.DeltaPercent,
	})

	return &Output{
		SimulationID:        input.SimulationID,
		Comparison:          comparison,
		SampleSize:          benchmark.SampleSize,
		BenchmarkConfidence: benchmark.ConfidenceLevel,
	}, nil
}

// compare positions an estimate against the sector's observed recovery band.
// The delta is relative to the sector average; the position uses the min/max
// band so an estimate can sit above average yet still be "within".
func compare(estimate float64, benchmark *models.SectorBenchmark) models.BenchmarkComparison {
	position := PositionWithin
	switch {
	case estimate < benchmark.MinRecovery:
		position = PositionBelow
	case estimate > benchmark.MaxRecovery:
		position = PositionAbove
	}

	deltaPercent := 0.0
	if benchmark.AverageRecovery > 0 {
		deltaPercent = (estimate - benchmark.AverageRecovery) / benchmark.AverageRecovery * 100
	}

	return models.BenchmarkComparison{
		Sector:            benchmark.Sector,
		EstimatedRecovery: estimate,
		SectorAverage:     benchmark.AverageRecovery,
		DeltaPercent:      deltaPercent,
		Position:          position,
	}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err = cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// Execute exposes the comparison for tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
