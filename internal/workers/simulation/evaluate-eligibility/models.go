// internal/workers/simulation/evaluate-eligibility/models.go
package evaluateeligibility

import "profitum-workers/internal/ticpe"

type Input struct {
	SimulationID     string         `json:"simulationId"`
	ClientID         string         `json:"clientId"`
	Answers          []ticpe.Answer `json:"answers"`
	IncludeMultiYear bool           `json:"includeMultiYear,omitempty"`
}

// Output carries the evaluation back into the process as flat variables.
type Output struct {
	SimulationID      string                   `json:"simulationId"`
	EligibilityScore  int                      `json:"eligibilityScore"`
	EstimatedRecovery float64                  `json:"estimatedRecovery"`
	ConfidenceLevel   string                   `json:"confidenceLevel"`
	MaturityScore     int                      `json:"maturityScore"`
	Recommendations   []string                 `json:"recommendations"`
	RiskFactors       []string                 `json:"riskFactors"`
	MultiYear         *ticpe.MultiYearRecovery `json:"multiYear,omitempty"`
	FromCache         bool                     `json:"fromCache,omitempty"`
}
