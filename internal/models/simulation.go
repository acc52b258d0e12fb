// internal/models/simulation.go
package models

import (
	"time"

	"profitum-workers/internal/ticpe"
)

// SimulationResult is what the worker writes back to the process instance
// and into the result cache.
type SimulationResult struct {
	SimulationID string                   `json:"simulationId"`
	ClientID     string                   `json:"clientId,omitempty"`
	Result       ticpe.EligibilityResult  `json:"result"`
	MultiYear    *ticpe.MultiYearRecovery `json:"multiYear,omitempty"`
	EvaluatedAt  time.Time                `json:"evaluatedAt"`
}

// SectorBenchmark is one row of the TICPEBenchmarks reference table.
type SectorBenchmark struct {
	Sector          string  `json:"sector"`
	AverageRecovery float64 `json:"averageRecovery"`
	MinRecovery     float64 `json:"minRecovery"`
	MaxRecovery     float64 `json:"maxRecovery"`
	SampleSize      int     `json:"sampleSize"`
	ConfidenceLevel float64 `json:"confidenceLevel"`
}

// BenchmarkComparison positions an estimate against its sector benchmark.
type BenchmarkComparison struct {
	Sector            string  `json:"sector"`
	EstimatedRecovery float64 `json:"estimatedRecovery"`
	SectorAverage     float64 `json:"sectorAverage"`
	DeltaPercent      float64 `json:"deltaPercent"`
	Position          string  `json:"position"` // below, within, above
}
