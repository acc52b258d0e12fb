// internal/ticpe/maturity.go
package ticpe

// scoreMaturity rates administrative readiness 0-100 from four independent
// documentation signals. Each weight map keys on the raw answer, so a level
// the tables don't know contributes nothing.
func scoreMaturity(t *Tables, p Profile) int {
	score := t.FuelCardWeights[p.FuelCards]
	score += t.NamedInvoiceWeights[p.NamedInvoices]
	score += t.RegistrationWeights[p.CompanyRegistration]
	score += t.DeclarationWeights[p.TICPEDeclarations]
	return clampScore(score)
}

// BenchmarkSignal carries the sector benchmark's own confidence rating, used
// to firm up the classification when benchmark data is available.
type BenchmarkSignal struct {
	ConfidenceLevel float64
}

// classifyConfidence blends maturity with two completeness checks and an
// optional benchmark bonus. A simple weighted blend, reproducible exactly
// from the same inputs, not a statistical model.
func classifyConfidence(t *Tables, p Profile, maturity int, benchmark *BenchmarkSignal) ConfidenceLevel {
	confidence := float64(maturity) / 100 * (t.MaturityBlendWeight * 100)

	if p.ConsumptionDeclared {
		confidence += t.ConsumptionKnownBonus
	}
	if len(p.FuelTypes) > 0 {
		confidence += t.FuelTypeKnownBonus
	}

	if benchmark != nil {
		if benchmark.ConfidenceLevel > t.StrongBenchmarkCutoff {
			confidence += t.StrongBenchmarkBonus
		} else {
			confidence += t.WeakBenchmarkBonus
		}
	}

	switch {
	case confidence >= t.HighConfidenceFloor:
		return ConfidenceHigh
	case confidence >= t.MediumConfidenceFloor:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
