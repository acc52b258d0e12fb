// internal/workers/simulation/evaluate-eligibility/handler.go
package evaluateeligibility

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"profitum-workers/internal/common/database"
	"profitum-workers/internal/common/errors"
	"profitum-workers/internal/common/logger"
	"profitum-workers/internal/common/metrics"
	"profitum-workers/internal/common/observability"
	"profitum-workers/internal/models"
	"profitum-workers/internal/refdata"
	"profitum-workers/internal/ticpe"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

const TaskType = "evaluate-ticpe-eligibility"

const resultCacheKeyFmt = "simulation:result:%s"

// inputSchema rejects malformed answers before they reach the engine. The
// value must be a string or a string array; anything else is a modeling
// error in the calling process, not something retries can fix.
var inputSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"answers"},
	"properties": map[string]interface{}{
		"simulationId":     map[string]interface{}{"type": "string"},
		"clientId":         map[string]interface{}{"type": "string"},
		"includeMultiYear": map[string]interface{}{"type": "boolean"},
		"answers": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"question_id", "value"},
				"properties": map[string]interface{}{
					"question_id": map[string]interface{}{"type": "string"},
					"value": map[string]interface{}{
						"oneOf": []interface{}{
							map[string]interface{}{"type": "string"},
							map[string]interface{}{
								"type":  "array",
								"items": map[string]interface{}{"type": "string"},
							},
						},
					},
				},
			},
		},
	},
}

type Handler struct {
	config       *Config
	store        *refdata.Store
	redis        *database.RedisClient
	es           *database.ElasticsearchClient
	obs          *observability.Observability
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	schema       *gojsonschema.Schema
}

// NewHandler builds the worker handler. The Elasticsearch client and the
// observability recorder may be nil; analytics indexing and OTel metrics are
// optional.
func NewHandler(config *Config, store *refdata.Store, redis *database.RedisClient, es *database.ElasticsearchClient, obs *observability.Observability, log logger.Logger) *Handler {
	workerLog := log.WithFields(map[string]interface{}{"taskType": TaskType})
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(inputSchema))
	if err != nil {
		// The schema is a compile-time literal; failing to compile it is a
		// programming error.
		panic(fmt.Sprintf("compile input schema: %v", err))
	}
	return &Handler{
		config:       config,
		store:        store,
		redis:        redis,
		es:           es,
		obs:          obs,
		logger:       workerLog,
		errorHandler: errors.NewErrorHandler(workerLog),
		schema:       schema,
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

	input, err := h.parseInput(job.Variables)
	if err != nil {
		code := string(errors.ErrCodeSimulationInputInvalid)
		if stdErr, ok := err.(*errors.StandardError); ok {
			code = string(stdErr.Code)
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
		h.obs.RecordJobProcessed(ctx, "invalid_input")
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "EXECUTION_FAILED").Inc()
		h.obs.RecordJobProcessed(ctx, "failed")
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(ctx, "completed")
	h.obs.RecordJobDuration(ctx, time.Since(start), "completed")
}

// parseInput validates the raw variables against the input schema before
// unmarshaling, so a wrong answer shape surfaces as a business error with a
// precise description instead of a generic decode failure.
func (h *Handler) parseInput(variables string) (*Input, error) {
	result, err := h.schema.Validate(gojsonschema.NewStringLoader(variables))
	if err != nil {
		return nil, errors.NewSimulationInputInvalidError(fmt.Sprintf("variables are not valid JSON: %v", err))
	}
	if !result.Valid() {
		descs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			descs[i] = desc.String()
			// A bad value shape gets its own code so process models can
			// route it separately from a missing answers list.
			if strings.HasSuffix(desc.Field(), ".value") {
				return nil, errors.NewAnswerShapeInvalidError(desc.Field(), desc.Description())
			}
		}
		return nil, errors.NewSimulationInputInvalidError(strings.Join(descs, "; "))
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewSimulationInputInvalidError(err.Error())
	}
	if input.SimulationID == "" {
		input.SimulationID = uuid.NewString()
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if cached := h.cachedResult(ctx, input.SimulationID); cached != nil {
		cached.FromCache = true
		return cached, nil
	}

	tables := h.store.Tables(ctx)
	engine := ticpe.NewEngine(tables)

	profile := engine.Extract(input.Answers)

	var signal *ticpe.BenchmarkSignal
	if benchmark, err := h.store.Benchmark(ctx, profile.Sector); err == nil {
		signal = &ticpe.BenchmarkSignal{ConfidenceLevel: benchmark.ConfidenceLevel}
	}

	result := engine.EvaluateProfile(profile, signal)

	output := &Output{
		SimulationID:      input.SimulationID,
		EligibilityScore:  result.EligibilityScore,
		EstimatedRecovery: result.EstimatedRecovery,
		ConfidenceLevel:   string(result.ConfidenceLevel),
		MaturityScore:     result.MaturityScore,
		Recommendations:   result.Recommendations,
		RiskFactors:       result.RiskFactors,
	}
	if input.IncludeMultiYear {
		multiYear := engine.EstimateMultiYear(input.Answers)
		output.MultiYear = &multiYear
	}

	metrics.SimulationsEvaluated.WithLabelValues(string(result.ConfidenceLevel)).Inc()
	metrics.SimulationRecoveryAmount.Observe(result.EstimatedRecovery)
	h.obs.RecordSimulationRecovery(ctx, result.EstimatedRecovery, string(result.ConfidenceLevel))

	h.cacheResult(ctx, output)
	h.indexResult(ctx, input, result, output)

	h.logger.Info("simulation evaluated", map[string]interface{}{
		"simulationId":      input.SimulationID,
		"eligibilityScore":  result.EligibilityScore,
		"estimatedRecovery": result.EstimatedRecovery,
		"confidenceLevel":   string(result.ConfidenceLevel),
	})

	return output, nil
}

func (h *Handler) cachedResult(ctx context.Context, simulationID string) *Output {
	if h.redis == nil || simulationID == "" {
		return nil
	}
	raw, err := h.redis.Get(ctx, fmt.Sprintf(resultCacheKeyFmt, simulationID))
	if err != nil {
		return nil
	}
	var output Output
	if err := json.Unmarshal([]byte(raw), &output); err != nil {
		return nil
	}
	return &output
}

func (h *Handler) cacheResult(ctx context.Context, output *Output) {
	if h.redis == nil {
		return
	}
	raw, err := json.Marshal(output)
	if err != nil {
		return
	}
	key := fmt.Sprintf(resultCacheKeyFmt, output.SimulationID)
	if err := h.redis.Set(ctx, key, raw, h.config.ResultCacheTTL); err != nil {
		h.logger.Warn("failed to cache simulation result", map[string]interface{}{
			"simulationId": output.SimulationID,
			"error":        errors.NewCacheWriteFailedError(key, err).Error(),
		})
	}
}

// indexResult pushes the full result document to Elasticsearch for
// analytics. Indexing failures are logged, never propagated: the evaluation
// already succeeded.
func (h *Handler) indexResult(ctx context.Context, input *Input, result ticpe.EligibilityResult, output *Output) {
	if h.es == nil || !h.config.IndexResults {
		return
	}
	doc := models.SimulationResult{
		SimulationID: input.SimulationID,
		ClientID:     input.ClientID,
		Result:       result,
		MultiYear:    output.MultiYear,
		EvaluatedAt:  time.Now().UTC(),
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return
	}
	if err := h.es.Index(ctx, h.config.ResultIndex, input.SimulationID, raw); err != nil {
		h.logger.Warn("failed to index simulation result", map[string]interface{}{
			"simulationId": input.SimulationID,
			"index":        h.config.ResultIndex,
			"error":        errors.NewResultIndexFailedError(input.SimulationID, err).Error(),
		})
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

// Execute exposes the core evaluation for tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
