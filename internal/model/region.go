package model

// Region scales base material and labor unit prices for cost estimates.
// The catalog itself lives in internal/pricing; the engine only ever sees a
// Region value passed explicitly, never ambient state.
type Region struct {
	Code               string  `json:"code"`
	Name               string  `json:"name"`
	MaterialMultiplier float64 `json:"material_multiplier"`
	LaborMultiplier    float64 `json:"labor_multiplier"`
}
