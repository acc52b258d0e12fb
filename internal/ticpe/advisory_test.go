// internal/ticpe/advisory_test.go
package ticpe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAdvisory(t *testing.T) {
	tables := DefaultTables()

	t.Run("ineligible profile gets only the notice", func(t *testing.T) {
		recs, risks := generateAdvisory(tables, Profile{}, 0, 0)
		assert.Equal(t, []string{adviceNotEligible}, recs)
		assert.Empty(t, risks)
	})

	t.Run("best-practice profile gets only the headline", func(t *testing.T) {
		profile := Profile{
			Sector:                  SectorFreightTransport,
			HasProfessionalVehicles: true,
			UsagePercent:            100,
			UsageDeclared:           true,
			FuelCards:               fuelCardsBestLevel,
			NamedInvoices:           namedInvoicesBest,
			TICPEDeclarations:       declarationsBest,
		}
		recs, risks := generateAdvisory(tables, profile, 5310, 80)
		assert.Equal(t, []string{"🎯 ÉLIGIBILITÉ CONFIRMÉE ! Gain potentiel de 5 310€"}, recs)
		assert.Empty(t, risks)
	})

	t.Run("each lapsed signal adds one recommendation in order", func(t *testing.T) {
		profile := Profile{
			HasProfessionalVehicles: true,
			FuelCards:               "Oui, partiellement",
			NamedInvoices:           "Non",
			TICPEDeclarations:       "Oui, occasionnellement",
		}
		recs, _ := generateAdvisory(tables, profile, 920, 45)
		assert.Equal(t, []string{
			"🎯 ÉLIGIBILITÉ CONFIRMÉE ! Gain potentiel de 920€",
			adviceFuelCards,
			adviceNamedInvoices,
			adviceDeclarations,
		}, recs)
	})

	t.Run("zero recovery suppresses the headline but not the advice", func(t *testing.T) {
		profile := Profile{
			HasProfessionalVehicles: true,
			UsagePercent:            50,
			UsageDeclared:           true,
		}
		recs, _ := generateAdvisory(tables, profile, 0, 0)
		assert.Equal(t, []string{adviceFuelCards, adviceNamedInvoices, adviceDeclarations}, recs)
	})

	t.Run("all three risk factors can stack", func(t *testing.T) {
		profile := Profile{
			Sector:                  SectorConstruction,
			HasProfessionalVehicles: true,
			UsagePercent:            70,
			UsageDeclared:           true,
		}
		_, risks := generateAdvisory(tables, profile, 500, 20)
		assert.Equal(t, []string{riskLowMaturity, riskLimitedUsage, riskWeakSector}, risks)
	})

	t.Run("undeclared usage never flags limited usage", func(t *testing.T) {
		profile := Profile{
			Sector:                  SectorAgriculture,
			HasProfessionalVehicles: true,
		}
		_, risks := generateAdvisory(tables, profile, 1000, 80)
		assert.Equal(t, []string{riskWeakSector}, risks)
	})
}

func TestFormatEUR(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{9000, "9 000"},
		{13275, "13 275"},
		{100000, "100 000"},
		{1234567, "1 234 567"},
		{920.4, "920"},
		{920.6, "921"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatEUR(tt.amount), "amount=%v", tt.amount)
	}
}
