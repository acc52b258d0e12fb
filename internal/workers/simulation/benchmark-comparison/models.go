// internal/workers/simulation/benchmark-comparison/models.go
package benchmarkcomparison

import "profitum-workers/internal/models"

type Input struct {
	SimulationID      string  `json:"simulationId"`
	Sector            string  `json:"sector"`
	EstimatedRecovery float64 `json:"estimatedRecovery"`
}

type Output struct {
	SimulationID        string                     `json:"simulationId,omitempty"`
	Comparison          models.BenchmarkComparison `json:"benchmarkComparison"`
	SampleSize          int                        `json:"sampleSize"`
	BenchmarkConfidence float64                    `json:"benchmarkConfidence"`
}
