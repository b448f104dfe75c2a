package engine

import (
	"fmt"
	"math"
	"sort"

	"irrigation-planner/internal/model"
)

// Input carries everything a recommendation depends on. The engine is a pure
// function of this value: no ambient region, no clock, no I/O. Identical
// inputs always produce identical output.
type Input struct {
	Section model.Section
	// WaterSource may be nil when no source has been matched yet.
	WaterSource *model.WaterSource
	// DistanceMeters is nil when the section geometry is degenerate or no
	// source is known; distance-dependent terms then fall back to neutral
	// values instead of failing.
	DistanceMeters *float64
	Region         model.Region
}

// methodOrder is the canonical ordering; ties on suitability keep it.
var methodOrder = []model.IrrigationMethod{
	model.MethodDrip,
	model.MethodSprinkler,
	model.MethodPumpPipeline,
	model.MethodSurface,
	model.MethodManual,
}

// pipelineWarningMeters is the distance beyond which pressurized delivery
// gets a head-loss warning attached.
const pipelineWarningMeters = 1000.0

// fallbackAreaSquareMeters stands in for sections saved without a usable
// area so cost quantities stay finite.
const fallbackAreaSquareMeters = 5000.0

// Recommend scores every supported method for the given section, water source
// and distance, and returns the list sorted by suitability, best first.
func Recommend(in Input) []model.IrrigationRecommendation {
	recs := make([]model.IrrigationRecommendation, 0, len(methodOrder))
	for _, method := range methodOrder {
		recs = append(recs, evaluate(method, in))
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].SuitabilityScore > recs[j].SuitabilityScore
	})
	return recs
}

func evaluate(method model.IrrigationMethod, in Input) model.IrrigationRecommendation {
	area := in.Section.AreaSquareMeters
	effArea := area
	if effArea <= 0 {
		effArea = fallbackAreaSquareMeters
	}

	score := 0.30*cropScore(in.Section.CropType, method) +
		0.25*soilScore(in.Section.SoilType, method) +
		0.20*distanceScore(method, in.DistanceMeters) +
		0.15*areaScore(method, area) +
		0.10*sourceScore(method, in.WaterSource)

	components, cost := buildCosts(method, effArea, in.DistanceMeters, in.Region)
	profile := profiles[method]

	return model.IrrigationRecommendation{
		Method:            method,
		Label:             method.Label(),
		SuitabilityScore:  round1(clamp(score, 0, 100)),
		EfficiencyPercent: profile.Efficiency,
		Cost:              cost,
		Components:        components,
		Pros:              profile.Pros,
		Cons:              profile.Cons,
		Warnings:          warnings(method, in, area),
	}
}

func warnings(method model.IrrigationMethod, in Input, area float64) []string {
	var out []string

	if in.WaterSource == nil {
		out = append(out, "no water source matched; distance-dependent estimates use neutral defaults")
	} else if in.DistanceMeters == nil {
		out = append(out, "section geometry is incomplete; distance to the water source could not be computed")
	}

	if in.DistanceMeters != nil {
		d := *in.DistanceMeters
		switch method {
		case model.MethodDrip, model.MethodSprinkler, model.MethodPumpPipeline:
			if d > pipelineWarningMeters {
				out = append(out, fmt.Sprintf("water source is %.0f m away; pipeline cost and head loss grow quickly beyond %.0f m", d, pipelineWarningMeters))
			}
		case model.MethodSurface:
			if d > 300 {
				out = append(out, fmt.Sprintf("open-channel delivery over %.0f m loses substantial water to seepage and evaporation", d))
			}
		case model.MethodManual:
			if d > 200 {
				out = append(out, "water source is too far for practical manual carriage")
			}
		}
	}

	if area <= 0 {
		out = append(out, "section area is unknown; quantities assume a 0.5 ha section")
	}
	if _, known := cropScores[normalizeKey(in.Section.CropType)]; !known && in.Section.CropType != "" {
		out = append(out, fmt.Sprintf("no compatibility data for crop %q; a neutral score was used", in.Section.CropType))
	}

	return out
}

// distanceScore rewards or penalizes a method for the haul between the
// section centroid and its water source. Gravity and manual methods fall off
// quickly; pressurized pipelines are the only option that improves with
// distance, up to a cap.
func distanceScore(method model.IrrigationMethod, dist *float64) float64 {
	if dist == nil {
		return 60
	}
	d := *dist
	switch method {
	case model.MethodSurface:
		return clamp(100-d*0.2, 5, 100)
	case model.MethodManual:
		return clamp(100-d*0.35, 5, 100)
	case model.MethodDrip, model.MethodSprinkler:
		return clamp(95-d*0.05, 40, 95)
	case model.MethodPumpPipeline:
		return clamp(55+d*0.08, 55, 95)
	}
	return 60
}

// areaScore favors sprinkler and pump conveyance on big sections and
// manual/drip on small ones. Hectare thresholds, not a smooth curve: the
// jumps mirror how equipment is actually sized.
func areaScore(method model.IrrigationMethod, areaSquareMeters float64) float64 {
	if areaSquareMeters <= 0 {
		return 60
	}
	ha := areaSquareMeters / 10000

	switch method {
	case model.MethodManual:
		switch {
		case ha <= 0.2:
			return 95
		case ha <= 0.5:
			return 70
		case ha <= 1:
			return 40
		default:
			return 15
		}
	case model.MethodDrip:
		switch {
		case ha <= 2:
			return 90
		case ha <= 5:
			return 75
		default:
			return 60
		}
	case model.MethodSprinkler:
		switch {
		case ha < 0.3:
			return 50
		case ha <= 1:
			return 70
		default:
			return 90
		}
	case model.MethodPumpPipeline:
		switch {
		case ha < 0.3:
			return 45
		case ha <= 1:
			return 65
		default:
			return 85
		}
	case model.MethodSurface:
		switch {
		case ha < 0.3:
			return 55
		case ha <= 1:
			return 70
		default:
			return 80
		}
	}
	return 60
}

// sourceScore captures the affinity between a source type and a delivery
// method: wells and tanks want pumping, open channels want gravity flow.
func sourceScore(method model.IrrigationMethod, src *model.WaterSource) float64 {
	if src == nil {
		return 60
	}

	switch src.Type {
	case model.WaterSourceWell, model.WaterSourceWaterTower:
		return pick(method, map[model.IrrigationMethod]float64{
			model.MethodPumpPipeline: 95,
			model.MethodDrip:         80,
			model.MethodSprinkler:    75,
			model.MethodSurface:      20,
			model.MethodManual:       50,
		})
	case model.WaterSourceCanal, model.WaterSourceRiver, model.WaterSourceStream, model.WaterSourceWaterway:
		return pick(method, map[model.IrrigationMethod]float64{
			model.MethodSurface:      90,
			model.MethodPumpPipeline: 65,
			model.MethodDrip:         65,
			model.MethodSprinkler:    60,
			model.MethodManual:       60,
		})
	case model.WaterSourceLake, model.WaterSourcePond, model.WaterSourceReservoir, model.WaterSourceSpring:
		return pick(method, map[model.IrrigationMethod]float64{
			model.MethodPumpPipeline: 75,
			model.MethodDrip:         70,
			model.MethodSprinkler:    65,
			model.MethodSurface:      55,
			model.MethodManual:       60,
		})
	}
	return 60
}

func cropScore(crop string, method model.IrrigationMethod) float64 {
	if scores, ok := cropScores[normalizeKey(crop)]; ok {
		return pick(method, scores)
	}
	return 60
}

func soilScore(soil string, method model.IrrigationMethod) float64 {
	if scores, ok := soilScores[normalizeKey(soil)]; ok {
		return pick(method, scores)
	}
	return 60
}

func pick(method model.IrrigationMethod, scores map[model.IrrigationMethod]float64) float64 {
	if s, ok := scores[method]; ok {
		return s
	}
	return 60
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
