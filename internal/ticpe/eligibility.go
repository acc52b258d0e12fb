// internal/ticpe/eligibility.go
package ticpe

// scoreEligibility computes the 0-100 eligibility score.
//
// The professional-vehicle flag is the single hard gate of the whole engine:
// without it the score is 0 no matter what else was answered. Past the gate
// the score accumulates sector points, the flat ownership bonus, capped
// vehicle-type points, consumption tier points, and the complete-invoice
// bonus.
func scoreEligibility(t *Tables, p Profile) int {
	if !p.HasProfessionalVehicles {
		return 0
	}

	score := t.SectorPoints[p.Sector]
	score += t.VehicleOwnershipFlat
	score += vehicleTypeScore(t, p.VehicleTypes)

	if p.ConsumptionDeclared {
		score += consumptionTierPoints(t, p.ConsumptionLiters)
	}

	if hasCompleteInvoices(p.FuelInvoices) {
		score += t.CompleteInvoiceBonus
	}

	return clampScore(score)
}

// vehicleTypeScore sums the per-type weights, capped so a large mixed fleet
// cannot dominate the score.
func vehicleTypeScore(t *Tables, vehicleTypes []string) int {
	score := 0
	for _, vt := range vehicleTypes {
		score += t.VehicleTypePoints[vt]
	}
	if score > t.VehicleTypeCap {
		score = t.VehicleTypeCap
	}
	return score
}

// consumptionTierPoints awards points for the highest tier the declared
// consumption strictly exceeds.
func consumptionTierPoints(t *Tables, liters float64) int {
	for _, tier := range t.ConsumptionTiers {
		if liters > tier.MinLiters {
			return tier.Points
		}
	}
	return 0
}

func clampScore(score int) int {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}
