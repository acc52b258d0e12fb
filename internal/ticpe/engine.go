// internal/ticpe/engine.go

// Package ticpe implements the TICPE fuel-tax recovery simulation engine:
// questionnaire answers go in, an eligibility score, an estimated refundable
// amount, a confidence tier, and actionable guidance come out.
//
// The engine is a pure, synchronous computation. Every evaluation extracts a
// fresh immutable Profile and runs four independent read-only evaluators over
// it, so an Engine is safe for concurrent use from any number of goroutines.
package ticpe

import "math"

// Engine evaluates questionnaire answers against a table set.
type Engine struct {
	tables    *Tables
	extractor *Extractor
}

// NewEngine builds an engine over the given tables. Passing nil uses the
// compiled-in defaults.
func NewEngine(tables *Tables) *Engine {
	if tables == nil {
		tables = DefaultTables()
	}
	return &Engine{
		tables:    tables,
		extractor: NewExtractor(tables),
	}
}

// Tables exposes the active table set, mainly for diagnostics.
func (e *Engine) Tables() *Tables {
	return e.tables
}

// Extract normalizes raw answers into a Profile.
func (e *Engine) Extract(answers []Answer) Profile {
	return e.extractor.Extract(answers)
}

// Evaluate runs the full pipeline without benchmark data.
func (e *Engine) Evaluate(answers []Answer) EligibilityResult {
	return e.EvaluateWithBenchmark(answers, nil)
}

// EvaluateWithBenchmark runs the full pipeline. The benchmark signal, when
// present, only firms up the confidence classification; it never changes the
// numbers.
func (e *Engine) EvaluateWithBenchmark(answers []Answer, benchmark *BenchmarkSignal) EligibilityResult {
	profile := e.extractor.Extract(answers)
	return e.EvaluateProfile(profile, benchmark)
}

// EvaluateProfile evaluates an already-extracted profile.
func (e *Engine) EvaluateProfile(profile Profile, benchmark *BenchmarkSignal) EligibilityResult {
	eligibility := scoreEligibility(e.tables, profile)
	recovery, details := estimateRecovery(e.tables, profile)
	maturity := scoreMaturity(e.tables, profile)
	confidence := classifyConfidence(e.tables, profile, maturity, benchmark)
	recommendations, riskFactors := generateAdvisory(e.tables, profile, recovery, maturity)

	// Ineligible profiles report the floor of everything, matching the
	// short-circuit the gate implies.
	if !profile.HasProfessionalVehicles {
		confidence = ConfidenceLow
		maturity = 0
	}

	return EligibilityResult{
		EligibilityScore:  eligibility,
		EstimatedRecovery: math.Round(recovery),
		ConfidenceLevel:   confidence,
		MaturityScore:     maturity,
		Recommendations:   recommendations,
		RiskFactors:       riskFactors,
		Details:           details,
	}
}

// EstimateMultiYear spreads the annual estimate of the given answers over
// the statutory claim window.
func (e *Engine) EstimateMultiYear(answers []Answer) MultiYearRecovery {
	profile := e.extractor.Extract(answers)
	annual, _ := estimateRecovery(e.tables, profile)
	return estimateMultiYear(e.tables, profile, annual)
}
