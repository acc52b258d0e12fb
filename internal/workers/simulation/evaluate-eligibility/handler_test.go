// internal/workers/simulation/evaluate-eligibility/handler_test.go
package evaluateeligibility

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitum-workers/internal/common/database"
	"profitum-workers/internal/common/logger"
	"profitum-workers/internal/refdata"
	"profitum-workers/internal/ticpe"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	store := refdata.NewStore(refdata.StoreOptions{Logger: logger.NewTestLogger(t)})
	return NewHandler(LoadConfig(), store, nil, nil, nil, logger.NewTestLogger(t))
}

func transportAnswers() []ticpe.Answer {
	return []ticpe.Answer{
		{QuestionID: ticpe.QuestionSector, Value: ticpe.StringValue(ticpe.SectorFreightTransport)},
		{QuestionID: ticpe.QuestionHasVehicles, Value: ticpe.StringValue("Oui")},
		{QuestionID: ticpe.QuestionVehicleTypes, Value: ticpe.ListValue(ticpe.VehicleHeavyTruck)},
		{QuestionID: ticpe.QuestionConsumption, Value: ticpe.StringValue("15 000 à 50 000 litres")},
		{QuestionID: ticpe.QuestionFuelTypes, Value: ticpe.ListValue(ticpe.FuelProfessionalDiesel)},
		{QuestionID: ticpe.QuestionFuelInvoices, Value: ticpe.StringValue("Oui, 3 dernières années complètes")},
		{QuestionID: ticpe.QuestionUsage, Value: ticpe.StringValue("100% professionnel")},
		{QuestionID: ticpe.QuestionFuelCards, Value: ticpe.StringValue("Oui, toutes les stations")},
		{QuestionID: ticpe.QuestionNamedInvoices, Value: ticpe.StringValue("Oui, systématiquement")},
		{QuestionID: ticpe.QuestionCompanyRegistration, Value: ticpe.StringValue("Oui, 100%")},
		{QuestionID: ticpe.QuestionTICPEDeclarations, Value: ticpe.StringValue("Oui, régulièrement")},
	}
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name           string
		input          *Input
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name: "transport company with full records",
			input: &Input{
				SimulationID: "sim-transport-1",
				Answers:      transportAnswers(),
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.GreaterOrEqual(t, output.EligibilityScore, 80)
				assert.InEpsilon(t, 6000.0, output.EstimatedRecovery, 0.30)
				assert.Equal(t, 80, output.MaturityScore)
				assert.NotEmpty(t, output.Recommendations)
				assert.Empty(t, output.RiskFactors)
				assert.Nil(t, output.MultiYear)
			},
		},
		{
			name: "retailer without professional vehicles",
			input: &Input{
				SimulationID: "sim-commerce-1",
				Answers: []ticpe.Answer{
					{QuestionID: ticpe.QuestionSector, Value: ticpe.StringValue("Commerce")},
					{QuestionID: ticpe.QuestionHasVehicles, Value: ticpe.StringValue("Non")},
				},
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 0, output.EligibilityScore)
				assert.Zero(t, output.EstimatedRecovery)
				assert.Equal(t, string(ticpe.ConfidenceLow), output.ConfidenceLevel)
				assert.Len(t, output.Recommendations, 1)
				assert.Empty(t, output.RiskFactors)
			},
		},
		{
			name: "multi-year projection requested",
			input: &Input{
				SimulationID:     "sim-transport-2",
				Answers:          transportAnswers(),
				IncludeMultiYear: true,
			},
			validateOutput: func(t *testing.T, output *Output) {
				require.NotNil(t, output.MultiYear)
				assert.Len(t, output.MultiYear.Years, 4)
				assert.Greater(t, output.MultiYear.Total, output.EstimatedRecovery)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t)

			output, err := h.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			require.NotNil(t, output)
			assert.Equal(t, tt.input.SimulationID, output.SimulationID)
			tt.validateOutput(t, output)
		})
	}
}

func TestHandler_ParseInput(t *testing.T) {
	h := newTestHandler(t)

	t.Run("accepts string and array answer values", func(t *testing.T) {
		input, err := h.parseInput(`{
			"simulationId": "sim-1",
			"answers": [
				{"question_id": "secteur_activite", "value": "Taxi / VTC"},
				{"question_id": "types_vehicules", "value": ["Véhicules utilitaires légers"]}
			]
		}`)
		require.NoError(t, err)
		assert.Equal(t, "sim-1", input.SimulationID)
		require.Len(t, input.Answers, 2)
		assert.Equal(t, "Taxi / VTC", input.Answers[0].Value.First())
		assert.Equal(t, []string{"Véhicules utilitaires légers"}, input.Answers[1].Value.List())
	})

	t.Run("rejects numeric answer value with a shape error", func(t *testing.T) {
		_, err := h.parseInput(`{
			"answers": [{"question_id": "consommation_carburant", "value": 30000}]
		}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ANSWER_SHAPE_INVALID")
	})

	t.Run("rejects missing answers field", func(t *testing.T) {
		_, err := h.parseInput(`{"simulationId": "sim-2"}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SIMULATION_INPUT_INVALID")
	})

	t.Run("generates a simulation id when absent", func(t *testing.T) {
		input, err := h.parseInput(`{"answers": []}`)
		require.NoError(t, err)
		assert.NotEmpty(t, input.SimulationID)
	})
}

func TestHandler_Execute_CacheHit(t *testing.T) {
	t.Run("cache hit returns cached result", func(t *testing.T) {
		redisClient, redisMock := redismock.NewClientMock()

		cached := Output{
			SimulationID:      "sim-cached",
			EligibilityScore:  75,
			EstimatedRecovery: 4200,
			ConfidenceLevel:   string(ticpe.ConfidenceMedium),
		}
		raw, err := json.Marshal(cached)
		require.NoError(t, err)
		redisMock.ExpectGet("simulation:result:sim-cached").SetVal(string(raw))

		store := refdata.NewStore(refdata.StoreOptions{Logger: logger.NewTestLogger(t)})
		h := NewHandler(LoadConfig(), store, &database.RedisClient{Client: redisClient}, nil, nil, logger.NewTestLogger(t))

		output, err := h.Execute(context.Background(), &Input{SimulationID: "sim-cached"})
		require.NoError(t, err)
		assert.True(t, output.FromCache)
		assert.Equal(t, 75, output.EligibilityScore)
		assert.InDelta(t, 4200.0, output.EstimatedRecovery, 0.01)

		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("cache miss evaluates and stores the result", func(t *testing.T) {
		redisClient, redisMock := redismock.NewClientMock()

		redisMock.ExpectGet("simulation:result:sim-fresh").RedisNil()
		redisMock.Regexp().ExpectSet("simulation:result:sim-fresh", `.*`, time.Hour).SetVal("OK")

		store := refdata.NewStore(refdata.StoreOptions{Logger: logger.NewTestLogger(t)})
		h := NewHandler(LoadConfig(), store, &database.RedisClient{Client: redisClient}, nil, nil, logger.NewTestLogger(t))

		output, err := h.Execute(context.Background(), &Input{
			SimulationID: "sim-fresh",
			Answers:      transportAnswers(),
		})
		require.NoError(t, err)
		assert.False(t, output.FromCache)
		assert.Greater(t, output.EstimatedRecovery, 0.0)

		assert.NoError(t, redisMock.ExpectationsWereMet())
	})
}
