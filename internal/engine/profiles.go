package engine

import (
	"strings"

	"irrigation-planner/internal/model"
)

type methodProfile struct {
	// Efficiency is the static water-utilization percentage for the method.
	Efficiency float64
	Pros       []string
	Cons       []string
}

var profiles = map[model.IrrigationMethod]methodProfile{
	model.MethodDrip: {
		Efficiency: 90,
		Pros: []string{
			"Highest water-use efficiency; water is metered into the root zone",
			"Supports fertigation through the same lines",
			"Suppresses weed growth between rows",
		},
		Cons: []string{
			"Highest upfront cost per hectare",
			"Emitters clog without proper filtration",
			"Laterals need seasonal flushing and repair",
		},
	},
	model.MethodSprinkler: {
		Efficiency: 75,
		Pros: []string{
			"Uniform coverage on medium and large sections",
			"Tolerates uneven terrain without land grading",
			"Substantial water savings over flooding",
		},
		Cons: []string{
			"Wind distorts the spray pattern",
			"More evaporation loss than drip",
			"Requires sustained pumping pressure",
		},
	},
	model.MethodPumpPipeline: {
		Efficiency: 80,
		Pros: []string{
			"Delivers water reliably over long distances",
			"Works with deep wells and low water tables",
			"Forms a backbone any in-field method can connect to later",
		},
		Cons: []string{
			"Recurring energy cost every season",
			"Pump set needs regular servicing",
			"Conveyance only; in-field distribution still needed",
		},
	},
	model.MethodSurface: {
		Efficiency: 45,
		Pros: []string{
			"Lowest equipment cost of all methods",
			"No energy needed where gravity flow exists",
			"Familiar practice for paddy and basin crops",
		},
		Cons: []string{
			"Lowest water-use efficiency",
			"Needs level fields or costly grading",
			"Waterlogging risk on heavy soils",
		},
	},
	model.MethodManual: {
		Efficiency: 60,
		Pros: []string{
			"Minimal investment to get started",
			"No infrastructure to maintain",
			"Well suited to nurseries and kitchen gardens",
		},
		Cons: []string{
			"Labor-intensive every single day",
			"Impractical beyond about half an acre",
			"Uneven watering hurts yields",
		},
	},
}

// cropScores maps a normalized crop name to per-method compatibility, 0-100.
var cropScores = map[string]map[model.IrrigationMethod]float64{
	"rice": {
		model.MethodSurface:      95,
		model.MethodPumpPipeline: 70,
		model.MethodSprinkler:    50,
		model.MethodManual:       45,
		model.MethodDrip:         35,
	},
	"wheat": {
		model.MethodSprinkler:    85,
		model.MethodSurface:      70,
		model.MethodPumpPipeline: 65,
		model.MethodDrip:         55,
		model.MethodManual:       50,
	},
	"cotton": {
		model.MethodDrip:         90,
		model.MethodSprinkler:    65,
		model.MethodPumpPipeline: 60,
		model.MethodSurface:      55,
		model.MethodManual:       40,
	},
	"sugarcane": {
		model.MethodDrip:         85,
		model.MethodSurface:      75,
		model.MethodPumpPipeline: 65,
		model.MethodSprinkler:    60,
		model.MethodManual:       35,
	},
	"vegetables": {
		model.MethodDrip:         95,
		model.MethodSprinkler:    70,
		model.MethodManual:       70,
		model.MethodPumpPipeline: 60,
		model.MethodSurface:      40,
	},
	"orchard": {
		model.MethodDrip:         95,
		model.MethodManual:       60,
		model.MethodSprinkler:    55,
		model.MethodPumpPipeline: 55,
		model.MethodSurface:      30,
	},
	"maize": {
		model.MethodSprinkler:    80,
		model.MethodSurface:      65,
		model.MethodDrip:         60,
		model.MethodPumpPipeline: 60,
		model.MethodManual:       45,
	},
	"pulses": {
		model.MethodSprinkler:    75,
		model.MethodDrip:         70,
		model.MethodSurface:      55,
		model.MethodPumpPipeline: 55,
		model.MethodManual:       55,
	},
}

// soilScores maps a normalized soil type to per-method compatibility, 0-100.
var soilScores = map[string]map[model.IrrigationMethod]float64{
	"sandy": {
		model.MethodDrip:         90,
		model.MethodSprinkler:    70,
		model.MethodPumpPipeline: 65,
		model.MethodManual:       55,
		model.MethodSurface:      25,
	},
	"clay": {
		model.MethodSurface:      85,
		model.MethodSprinkler:    60,
		model.MethodPumpPipeline: 60,
		model.MethodDrip:         55,
		model.MethodManual:       50,
	},
	"loam": {
		model.MethodDrip:         80,
		model.MethodSprinkler:    80,
		model.MethodSurface:      70,
		model.MethodPumpPipeline: 70,
		model.MethodManual:       60,
	},
	"silt": {
		model.MethodSprinkler:    75,
		model.MethodDrip:         75,
		model.MethodSurface:      70,
		model.MethodPumpPipeline: 65,
		model.MethodManual:       55,
	},
	"black": {
		model.MethodSurface:      75,
		model.MethodDrip:         70,
		model.MethodSprinkler:    65,
		model.MethodPumpPipeline: 60,
		model.MethodManual:       50,
	},
	"red": {
		model.MethodDrip:         80,
		model.MethodSprinkler:    70,
		model.MethodPumpPipeline: 60,
		model.MethodManual:       55,
		model.MethodSurface:      50,
	},
}

// crop and soil names arrive from a free-text UI; fold the common synonyms.
var keyAliases = map[string]string{
	"paddy":      "rice",
	"corn":       "maize",
	"vegetable":  "vegetables",
	"fruits":     "orchard",
	"fruit":      "orchard",
	"banana":     "orchard",
	"loamy":      "loam",
	"silty":      "silt",
	"black soil": "black",
	"red soil":   "red",
}

func normalizeKey(s string) string {
	k := strings.ToLower(strings.TrimSpace(s))
	if alias, ok := keyAliases[k]; ok {
		return alias
	}
	return k
}
