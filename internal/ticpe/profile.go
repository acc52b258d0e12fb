// internal/ticpe/profile.go
package ticpe

// Profile is the typed snapshot extracted from raw answers. It is built once
// per evaluation and never mutated afterwards; every scorer reads the same
// instance.
type Profile struct {
	Sector        string
	RevenueBucket string

	HasProfessionalVehicles bool
	VehicleCountBucket      string
	VehicleTypes            []string
	HasChronotachygraph     bool

	// ConsumptionLiters is the normalized annual consumption; it is only
	// meaningful when ConsumptionDeclared is true, otherwise the estimator
	// substitutes the sector default.
	ConsumptionLiters   float64
	ConsumptionDeclared bool

	FuelTypes []string

	// FuelInvoices is the raw coverage answer ("Oui, 3 dernières années
	// complètes", ...). It feeds the eligibility bonus and the multi-year
	// coverage factors.
	FuelInvoices string

	UsagePercent     float64
	UsageDeclared    bool
	KilometersBucket string

	// Maturity signals, kept as the raw normalized answer so the weight
	// tables can map them directly.
	FuelCards           string
	NamedInvoices       string
	CompanyRegistration string
	TICPEDeclarations   string
}

// EligibilityResult aggregates everything a caller needs to render the
// simulation outcome.
type EligibilityResult struct {
	EligibilityScore  int                `json:"eligibility_score"`
	EstimatedRecovery float64            `json:"estimated_recovery"`
	ConfidenceLevel   ConfidenceLevel    `json:"confidence_level"`
	MaturityScore     int                `json:"maturity_score"`
	Recommendations   []string           `json:"recommendations"`
	RiskFactors       []string           `json:"risk_factors"`
	Details           CalculationDetails `json:"calculation_details"`
}

// ConfidenceLevel is a coarse indicator of how trustworthy the numeric
// estimate is.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// CalculationDetails surfaces the intermediate factors of the recovery
// estimate for auditing and tracing.
type CalculationDetails struct {
	FuelRate           float64 `json:"fuel_rate"`
	ConsumptionLiters  float64 `json:"consumption_liters"`
	VehicleCoefficient float64 `json:"vehicle_coefficient"`
	UsageCoefficient   float64 `json:"usage_coefficient"`
	RawAmount          float64 `json:"raw_amount"`
	Clamped            bool    `json:"clamped"`
	TablesVersion      string  `json:"tables_version"`
}

// MultiYearRecovery breaks the recoverable amount down over the statutory
// claim window: the current year, the two years before it, and the projected
// year ahead.
type MultiYearRecovery struct {
	AnnualReference float64      `json:"annual_reference"`
	Years           []YearAmount `json:"years"`
	Total           float64      `json:"total"`
}

// YearAmount is one year's recoverable slice.
type YearAmount struct {
	Year    int     `json:"year"`
	Amount  float64 `json:"amount"`
	Factor  float64 `json:"factor"`
	Partial bool    `json:"partial"`
}
