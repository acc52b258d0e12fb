// internal/ticpe/recovery.go
package ticpe

import "time"

// estimateRecovery computes the annual refundable amount in EUR together
// with the factors that produced it.
//
// amount = rate × consumption × vehicleCoefficient × usageCoefficient,
// clamped into [floor, ceiling]. Clamping order matters: a zero raw amount
// (hard gate failed, or usage share below the statutory threshold) stays
// exactly 0. The floor only lifts positive estimates.
func estimateRecovery(t *Tables, p Profile) (float64, CalculationDetails) {
	details := CalculationDetails{TablesVersion: t.Version}

	if !p.HasProfessionalVehicles {
		return 0, details
	}

	rate := t.rateForFuel(p.FuelTypes, p.Sector)

	consumption := p.ConsumptionLiters
	if !p.ConsumptionDeclared {
		consumption = t.consumptionForSector(p.Sector)
	}

	vehicleCoeff := t.vehicleCoefficient(p.VehicleTypes)

	usageCoeff := t.UndeclaredUsageCoeff
	if p.UsageDeclared {
		usageCoeff = t.usageCoefficient(p.UsagePercent)
	}

	raw := rate * consumption * vehicleCoeff * usageCoeff

	details.FuelRate = rate
	details.ConsumptionLiters = consumption
	details.VehicleCoefficient = vehicleCoeff
	details.UsageCoefficient = usageCoeff
	details.RawAmount = raw

	if raw == 0 {
		return 0, details
	}

	amount := raw
	if amount < t.RecoveryFloor {
		amount = t.RecoveryFloor
		details.Clamped = true
	}
	if amount > t.RecoveryCeiling {
		amount = t.RecoveryCeiling
		details.Clamped = true
	}

	return amount, details
}

// estimateMultiYear spreads the annual estimate over the statutory claim
// window: current year, the two years before it, and the projected next
// year. The two past years degrade with weaker invoice coverage.
func estimateMultiYear(t *Tables, p Profile, annual float64) MultiYearRecovery {
	currentYear := time.Now().Year()
	coverage := t.coverageFactor(p.FuelInvoices)

	years := []YearAmount{
		{
			Year:   currentYear,
			Amount: annual * t.CurrentYearFactor,
			Factor: t.CurrentYearFactor,
		},
		{
			Year:    currentYear - 1,
			Amount:  annual * coverage.PreviousYear,
			Factor:  coverage.PreviousYear,
			Partial: coverage.PreviousYear < 0.9,
		},
		{
			Year:    currentYear - 2,
			Amount:  annual * coverage.YearBefore,
			Factor:  coverage.YearBefore,
			Partial: coverage.YearBefore < 0.9,
		},
		{
			Year:   currentYear + 1,
			Amount: annual * t.NextYearFactor,
			Factor: t.NextYearFactor,
		},
	}

	total := 0.0
	for _, y := range years {
		total += y.Amount
	}

	return MultiYearRecovery{
		AnnualReference: annual,
		Years:           years,
		Total:           total,
	}
}
