// internal/ticpe/tables.go
package ticpe

// Tables holds every weight, rate, and coefficient the engine consumes.
// Keeping the numbers in data instead of control flow lets domain experts
// audit and extend them without touching the scoring logic, and lets the
// refdata store override individual tables from Postgres.
type Tables struct {
	Version string `json:"version"`

	// Eligibility scoring
	SectorPoints         map[string]int `json:"sector_points"`
	VehicleOwnershipFlat int            `json:"vehicle_ownership_flat"`
	VehicleTypePoints    map[string]int `json:"vehicle_type_points"`
	VehicleTypeCap       int            `json:"vehicle_type_cap"`
	ConsumptionTiers     []PointsTier   `json:"consumption_tiers"`
	CompleteInvoiceBonus int            `json:"complete_invoice_bonus"`

	// Recovery estimation
	FuelRates            map[string]float64 `json:"fuel_rates"`
	SectorDefaultRates   map[string]float64 `json:"sector_default_rates"`
	FallbackRate         float64            `json:"fallback_rate"`
	SectorConsumption    map[string]float64 `json:"sector_consumption"`
	FallbackConsumption  float64            `json:"fallback_consumption"`
	VehicleCoefficients  map[string]float64 `json:"vehicle_coefficients"`
	FallbackVehicleCoeff float64            `json:"fallback_vehicle_coeff"`
	UsageBands           []UsageBand        `json:"usage_bands"`
	UndeclaredUsageCoeff float64            `json:"undeclared_usage_coeff"`
	RecoveryFloor        float64            `json:"recovery_floor"`
	RecoveryCeiling      float64            `json:"recovery_ceiling"`

	// Answer-bucket normalization
	ConsumptionBuckets map[string]float64 `json:"consumption_buckets"`
	FallbackBucket     float64            `json:"fallback_bucket"`
	UsageBuckets       map[string]float64 `json:"usage_buckets"`
	FallbackUsage      float64            `json:"fallback_usage"`

	// Maturity scoring, one weight map per signal
	FuelCardWeights     map[string]int `json:"fuel_card_weights"`
	NamedInvoiceWeights map[string]int `json:"named_invoice_weights"`
	RegistrationWeights map[string]int `json:"registration_weights"`
	DeclarationWeights  map[string]int `json:"declaration_weights"`

	// Confidence classification
	MaturityBlendWeight    float64 `json:"maturity_blend_weight"`
	ConsumptionKnownBonus  float64 `json:"consumption_known_bonus"`
	FuelTypeKnownBonus     float64 `json:"fuel_type_known_bonus"`
	HighConfidenceFloor    float64 `json:"high_confidence_floor"`
	MediumConfidenceFloor  float64 `json:"medium_confidence_floor"`
	StrongBenchmarkBonus   float64 `json:"strong_benchmark_bonus"`
	WeakBenchmarkBonus     float64 `json:"weak_benchmark_bonus"`
	StrongBenchmarkCutoff  float64 `json:"strong_benchmark_cutoff"`

	// Advisory
	RiskSectors          []string `json:"risk_sectors"`
	LowMaturityThreshold int      `json:"low_maturity_threshold"`
	LowUsageThreshold    float64  `json:"low_usage_threshold"`

	// Multi-year recovery factors; previous/ante degrade with weaker
	// invoice coverage.
	CurrentYearFactor float64                   `json:"current_year_factor"`
	NextYearFactor    float64                   `json:"next_year_factor"`
	CoverageFactors   map[string]CoverageFactor `json:"coverage_factors"`
	FallbackCoverage  CoverageFactor            `json:"fallback_coverage"`
}

// PointsTier awards Points when a value strictly exceeds MinLiters.
// Tiers are evaluated highest first.
type PointsTier struct {
	MinLiters float64 `json:"min_liters"`
	Points    int     `json:"points"`
}

// UsageBand maps a minimum professional-usage percentage to a multiplier.
// Bands are evaluated highest first; usage below the lowest band zeroes the
// estimate entirely.
type UsageBand struct {
	MinPercent  float64 `json:"min_percent"`
	Coefficient float64 `json:"coefficient"`
}

// CoverageFactor scales the recoverable amounts of the previous year and the
// year before it, according to how far back fuel invoices are available.
type CoverageFactor struct {
	PreviousYear float64 `json:"previous_year"`
	YearBefore   float64 `json:"year_before"`
}

// Sector labels as they appear in questionnaire answers.
const (
	SectorFreightTransport   = "Transport routier de marchandises"
	SectorPassengerTransport = "Transport routier de voyageurs"
	SectorTaxi               = "Taxi / VTC"
	SectorConstruction       = "BTP / Travaux publics"
	SectorAgriculture        = "Secteur Agricole"
)

// Vehicle type labels.
const (
	VehicleHeavyTruck   = "Camions de plus de 7,5 tonnes"
	VehicleMediumTruck  = "Camions de 3,5 à 7,5 tonnes"
	VehicleSiteMachine  = "Engins de chantier"
	VehicleTractor      = "Tracteurs agricoles"
	VehicleLightUtility = "Véhicules utilitaires légers"
	VehicleService      = "Véhicules de service"
)

// Fuel type labels.
const (
	FuelProfessionalDiesel = "Gazole professionnel"
	FuelOffRoadDiesel      = "Gazole Non Routier (GNR)"
	FuelGasoline           = "Essence"
	FuelLPG                = "GPL"
)

// DefaultTables returns the compiled-in table set. The refdata store starts
// from these and overlays whatever rows Postgres has for the same version.
func DefaultTables() *Tables {
	return &Tables{
		Version: "2024.1",

		SectorPoints: map[string]int{
			SectorFreightTransport:   30,
			SectorPassengerTransport: 30,
			SectorTaxi:               25,
			SectorConstruction:       20,
			SectorAgriculture:        15,
		},
		VehicleOwnershipFlat: 25,
		VehicleTypePoints: map[string]int{
			VehicleHeavyTruck:   20,
			VehicleMediumTruck:  15,
			VehicleSiteMachine:  15,
			VehicleTractor:      15,
			VehicleLightUtility: 10,
			VehicleService:      10,
		},
		VehicleTypeCap: 20,
		ConsumptionTiers: []PointsTier{
			{MinLiters: 50000, Points: 15},
			{MinLiters: 15000, Points: 10},
			{MinLiters: 5000, Points: 5},
		},
		CompleteInvoiceBonus: 10,

		FuelRates: map[string]float64{
			FuelProfessionalDiesel: 0.177,
			FuelOffRoadDiesel:      0.150,
			FuelGasoline:           0.150,
			FuelLPG:                0.080,
		},
		SectorDefaultRates: map[string]float64{
			SectorFreightTransport:   0.177,
			SectorPassengerTransport: 0.177,
			SectorTaxi:               0.213,
			SectorConstruction:       0.150,
			SectorAgriculture:        0.150,
		},
		FallbackRate: 0.177,
		SectorConsumption: map[string]float64{
			SectorFreightTransport:   25000,
			SectorPassengerTransport: 20000,
			SectorTaxi:               8000,
			SectorConstruction:       15000,
			SectorAgriculture:        12000,
		},
		FallbackConsumption: 10000,
		VehicleCoefficients: map[string]float64{
			VehicleHeavyTruck:   1.0,
			VehicleMediumTruck:  0.8,
			VehicleSiteMachine:  0.9,
			VehicleTractor:      1.0,
			VehicleLightUtility: 0.6,
		},
		FallbackVehicleCoeff: 0.8,
		UsageBands: []UsageBand{
			{MinPercent: 100, Coefficient: 1.0},
			{MinPercent: 80, Coefficient: 0.9},
			{MinPercent: 60, Coefficient: 0.7},
		},
		UndeclaredUsageCoeff: 0.8,
		RecoveryFloor:        500,
		RecoveryCeiling:      100000,

		ConsumptionBuckets: map[string]float64{
			"Moins de 5 000 litres":   3000,
			"5 000 à 15 000 litres":   10000,
			"15 000 à 50 000 litres":  30000,
			"Plus de 50 000 litres":   75000,
		},
		FallbackBucket: 10000,
		UsageBuckets: map[string]float64{
			"100% professionnel":          100,
			"80-99% professionnel":        90,
			"60-79% professionnel":        70,
			"Moins de 60% professionnel":  50,
		},
		FallbackUsage: 80,

		FuelCardWeights: map[string]int{
			"Oui, toutes les stations": 20,
			"Oui, partiellement":       10,
		},
		NamedInvoiceWeights: map[string]int{
			"Oui, systématiquement": 20,
			"Oui, partiellement":    10,
		},
		RegistrationWeights: map[string]int{
			"Oui, 100%":            15,
			"Oui, majoritairement": 10,
		},
		DeclarationWeights: map[string]int{
			"Oui, régulièrement":      25,
			"Oui, occasionnellement": 15,
		},

		MaturityBlendWeight:   0.4,
		ConsumptionKnownBonus: 15,
		FuelTypeKnownBonus:    15,
		HighConfidenceFloor:   70,
		MediumConfidenceFloor: 40,
		StrongBenchmarkBonus:  30,
		WeakBenchmarkBonus:    15,
		StrongBenchmarkCutoff: 0.8,

		RiskSectors:          []string{SectorConstruction, SectorAgriculture},
		LowMaturityThreshold: 40,
		LowUsageThreshold:    80,

		CurrentYearFactor: 1.0,
		NextYearFactor:    1.0,
		CoverageFactors: map[string]CoverageFactor{
			"Oui, 3 dernières années complètes": {PreviousYear: 1.0, YearBefore: 1.0},
			"Oui, 2 dernières années":           {PreviousYear: 1.0, YearBefore: 0.7},
			"Oui, 1 dernière année":             {PreviousYear: 0.8, YearBefore: 0.5},
			"Partiellement":                     {PreviousYear: 0.6, YearBefore: 0.3},
		},
		FallbackCoverage: CoverageFactor{PreviousYear: 0.95, YearBefore: 0.90},
	}
}

// rateForFuel resolves the per-liter refund rate from declared fuel types,
// falling back to the sector default.
func (t *Tables) rateForFuel(fuelTypes []string, sector string) float64 {
	if len(fuelTypes) > 0 {
		if rate, ok := t.FuelRates[fuelTypes[0]]; ok {
			return rate
		}
		return t.FallbackRate
	}
	if rate, ok := t.SectorDefaultRates[sector]; ok {
		return rate
	}
	return t.FallbackRate
}

// consumptionForSector estimates annual liters when none were declared.
func (t *Tables) consumptionForSector(sector string) float64 {
	if est, ok := t.SectorConsumption[sector]; ok {
		return est
	}
	return t.FallbackConsumption
}

// vehicleCoefficient resolves the multiplier from the dominant (first
// declared) vehicle type.
func (t *Tables) vehicleCoefficient(vehicleTypes []string) float64 {
	if len(vehicleTypes) == 0 {
		return t.FallbackVehicleCoeff
	}
	if coeff, ok := t.VehicleCoefficients[vehicleTypes[0]]; ok {
		return coeff
	}
	return t.FallbackVehicleCoeff
}

// usageCoefficient resolves the multiplier from the professional-usage share.
// Usage below the lowest band disqualifies the claim outright.
func (t *Tables) usageCoefficient(usagePercent float64) float64 {
	for _, band := range t.UsageBands {
		if usagePercent >= band.MinPercent {
			return band.Coefficient
		}
	}
	return 0.0
}

// coverageFactor resolves the multi-year degradation factors from the
// invoice-coverage answer.
func (t *Tables) coverageFactor(coverage string) CoverageFactor {
	if f, ok := t.CoverageFactors[coverage]; ok {
		return f
	}
	return t.FallbackCoverage
}
