package model

type IrrigationMethod string

const (
	MethodDrip         IrrigationMethod = "drip"
	MethodSprinkler    IrrigationMethod = "sprinkler"
	MethodPumpPipeline IrrigationMethod = "pump_pipeline"
	MethodSurface      IrrigationMethod = "surface"
	MethodManual       IrrigationMethod = "manual"
)

func (m IrrigationMethod) Valid() bool {
	switch m {
	case MethodDrip, MethodSprinkler, MethodPumpPipeline, MethodSurface, MethodManual:
		return true
	}
	return false
}

func (m IrrigationMethod) Label() string {
	switch m {
	case MethodDrip:
		return "Drip Irrigation"
	case MethodSprinkler:
		return "Sprinkler Irrigation"
	case MethodPumpPipeline:
		return "Pump & Pipeline"
	case MethodSurface:
		return "Surface / Flood"
	case MethodManual:
		return "Manual Watering"
	}
	return string(m)
}

// CostComponent is one itemized line of a method's material bill.
type CostComponent struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// CostBreakdown aggregates a recommendation's costs in INR. Operational is a
// recurring annual figure and is not folded into Total.
type CostBreakdown struct {
	Materials   float64 `json:"materials"`
	Labor       float64 `json:"labor"`
	Operational float64 `json:"operational"`
	Total       float64 `json:"total"`
}

// IrrigationRecommendation is the engine's transient output for one method.
// It is never persisted as-is; saving a plan freezes a copy of these fields.
type IrrigationRecommendation struct {
	Method            IrrigationMethod `json:"method"`
	Label             string           `json:"label"`
	SuitabilityScore  float64          `json:"suitability_score"`
	EfficiencyPercent float64          `json:"efficiency_percent"`
	Cost              CostBreakdown    `json:"cost"`
	Components        []CostComponent  `json:"components"`
	Pros              []string         `json:"pros"`
	Cons              []string         `json:"cons"`
	Warnings          []string         `json:"warnings,omitempty"`
}
