// internal/ticpe/maturity_test.go
package ticpe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreMaturity(t *testing.T) {
	tables := DefaultTables()

	tests := []struct {
		name     string
		profile  Profile
		expected int
	}{
		{
			name: "all signals at their best level",
			profile: Profile{
				FuelCards:           "Oui, toutes les stations",
				NamedInvoices:       "Oui, systématiquement",
				CompanyRegistration: "Oui, 100%",
				TICPEDeclarations:   "Oui, régulièrement",
			},
			expected: 80,
		},
		{
			name: "intermediate levels",
			profile: Profile{
				FuelCards:           "Oui, partiellement",
				NamedInvoices:       "Oui, partiellement",
				CompanyRegistration: "Oui, majoritairement",
				TICPEDeclarations:   "Oui, occasionnellement",
			},
			expected: 45,
		},
		{
			name: "unknown levels contribute nothing",
			profile: Profile{
				FuelCards:           "Non",
				NamedInvoices:       "Je ne sais pas",
				CompanyRegistration: "",
				TICPEDeclarations:   "Peut-être",
			},
			expected: 0,
		},
		{
			name: "single signal",
			profile: Profile{
				TICPEDeclarations: "Oui, régulièrement",
			},
			expected: 25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, scoreMaturity(tables, tt.profile))
		})
	}
}

func TestClassifyConfidence(t *testing.T) {
	tables := DefaultTables()

	fullProfile := Profile{
		ConsumptionDeclared: true,
		FuelTypes:           []string{FuelProfessionalDiesel},
	}

	tests := []struct {
		name      string
		profile   Profile
		maturity  int
		benchmark *BenchmarkSignal
		expected  ConfidenceLevel
	}{
		{
			name:     "full profile without benchmark stays medium",
			profile:  fullProfile,
			maturity: 80,
			// 32 + 15 + 15 = 62
			expected: ConfidenceMedium,
		},
		{
			name:      "weak benchmark lifts a full profile to high",
			profile:   fullProfile,
			maturity:  80,
			benchmark: &BenchmarkSignal{ConfidenceLevel: 0.6},
			// 62 + 15 = 77
			expected: ConfidenceHigh,
		},
		{
			name:      "strong benchmark lifts to high",
			profile:   fullProfile,
			maturity:  80,
			benchmark: &BenchmarkSignal{ConfidenceLevel: 0.85},
			// 62 + 30 = 92
			expected: ConfidenceHigh,
		},
		{
			name:      "cutoff itself counts as weak",
			profile:   Profile{},
			maturity:  80,
			benchmark: &BenchmarkSignal{ConfidenceLevel: 0.8},
			// 32 + 15 = 47
			expected: ConfidenceMedium,
		},
		{
			name:     "low maturity alone is low",
			profile:  Profile{},
			maturity: 20,
			// 8
			expected: ConfidenceLow,
		},
		{
			name: "medium floor is inclusive",
			profile: Profile{
				ConsumptionDeclared: true,
				FuelTypes:           []string{FuelOffRoadDiesel},
			},
			maturity: 25,
			// 10 + 15 + 15 = 40
			expected: ConfidenceMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyConfidence(tables, tt.profile, tt.maturity, tt.benchmark)
			assert.Equal(t, tt.expected, got)
		})
	}
}
