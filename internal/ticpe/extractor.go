// internal/ticpe/extractor.go
package ticpe

import "strings"

// Question identifiers from the TICPE questionnaire catalogue.
const (
	QuestionSector              = "secteur_activite"
	QuestionRevenue             = "chiffre_affaires"
	QuestionHasVehicles         = "vehicules_professionnels"
	QuestionVehicleCount        = "nombre_vehicules"
	QuestionVehicleTypes        = "types_vehicules"
	QuestionChronotachygraph    = "chronotachygraphe"
	QuestionConsumption         = "consommation_carburant"
	QuestionFuelTypes           = "types_carburant"
	QuestionFuelInvoices        = "factures_carburant"
	QuestionUsage               = "usage_professionnel"
	QuestionKilometers          = "kilometrage_annuel"
	QuestionFuelCards           = "cartes_carburant"
	QuestionNamedInvoices       = "factures_nominatives"
	QuestionCompanyRegistration = "immatriculation_societe"
	QuestionTICPEDeclarations   = "declarations_ticpe"
)

// Extractor normalizes raw answers into a Profile using the bucket tables.
type Extractor struct {
	tables *Tables
}

// NewExtractor builds an extractor over the given table set.
func NewExtractor(tables *Tables) *Extractor {
	return &Extractor{tables: tables}
}

// Extract folds the answer list into a Profile. Unknown question ids are
// ignored so the engine stays forward-compatible with a growing
// questionnaire; duplicate ids follow last-write-wins. A missing
// professional-vehicles answer defaults to false: unknown means ineligible,
// never the other way around.
func (e *Extractor) Extract(answers []Answer) Profile {
	var p Profile

	for _, a := range answers {
		switch a.QuestionID {
		case QuestionSector:
			p.Sector = a.Value.First()
		case QuestionRevenue:
			p.RevenueBucket = a.Value.First()
		case QuestionHasVehicles:
			p.HasProfessionalVehicles = isYes(a.Value.First())
		case QuestionVehicleCount:
			p.VehicleCountBucket = a.Value.First()
		case QuestionVehicleTypes:
			p.VehicleTypes = a.Value.List()
		case QuestionChronotachygraph:
			p.HasChronotachygraph = isYes(a.Value.First())
		case QuestionConsumption:
			p.ConsumptionLiters = e.consumptionLiters(a.Value.First())
			p.ConsumptionDeclared = !a.Value.IsEmpty()
		case QuestionFuelTypes:
			p.FuelTypes = a.Value.List()
		case QuestionFuelInvoices:
			p.FuelInvoices = a.Value.First()
		case QuestionUsage:
			p.UsagePercent = e.usagePercent(a.Value.First())
			p.UsageDeclared = !a.Value.IsEmpty()
		case QuestionKilometers:
			p.KilometersBucket = a.Value.First()
		case QuestionFuelCards:
			p.FuelCards = a.Value.First()
		case QuestionNamedInvoices:
			p.NamedInvoices = a.Value.First()
		case QuestionCompanyRegistration:
			p.CompanyRegistration = a.Value.First()
		case QuestionTICPEDeclarations:
			p.TICPEDeclarations = a.Value.First()
		}
	}

	// No usage answer at all: assume a mostly-professional fleet rather
	// than zeroing the estimate. The estimator applies its own softer
	// coefficient for this case.
	if !p.UsageDeclared {
		p.UsagePercent = e.tables.FallbackUsage
	}

	return p
}

// consumptionLiters maps a consumption bucket answer to annual liters.
// Unrecognized buckets fall back to a conservative default; that fallback is
// a documented policy, not an accident.
func (e *Extractor) consumptionLiters(bucket string) float64 {
	if liters, ok := e.tables.ConsumptionBuckets[bucket]; ok {
		return liters
	}
	return e.tables.FallbackBucket
}

// usagePercent maps a usage bucket answer to a percentage.
func (e *Extractor) usagePercent(bucket string) float64 {
	if pct, ok := e.tables.UsageBuckets[bucket]; ok {
		return pct
	}
	return e.tables.FallbackUsage
}

// isYes matches the questionnaire's affirmative answers ("Oui",
// "Oui, tous", ...).
func isYes(value string) bool {
	return strings.HasPrefix(value, "Oui")
}

// hasCompleteInvoices reports whether the fuel-invoice answer indicates a
// complete archive.
func hasCompleteInvoices(invoices string) bool {
	return strings.Contains(invoices, "complètes")
}
