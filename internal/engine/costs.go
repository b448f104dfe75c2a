package engine

import (
	"math"

	"irrigation-planner/internal/model"
)

// Base unit prices are in INR. Component line totals are kept at base price;
// the regional material multiplier is applied to the aggregate so a frozen
// plan still shows the bill it was priced from.

func buildCosts(method model.IrrigationMethod, areaSquareMeters float64, dist *float64, region model.Region) ([]model.CostComponent, model.CostBreakdown) {
	// Pipe runs derive from the source distance; when it is unknown the
	// distance-dependent components are simply omitted.
	pipeLen := 0.0
	if dist != nil && *dist > 0 {
		pipeLen = *dist
	}

	var components []model.CostComponent
	add := func(name string, quantity float64, unit string, unitPrice float64) {
		if quantity <= 0 {
			return
		}
		quantity = math.Round(quantity*100) / 100
		components = append(components, model.CostComponent{
			Name:      name,
			Quantity:  quantity,
			Unit:      unit,
			UnitPrice: unitPrice,
			Total:     math.Round(quantity * unitPrice),
		})
	}

	var laborBase, laborPerSqM, opBase, opPerSqM float64

	switch method {
	case model.MethodDrip:
		add("Drip lateral (16mm LLDPE)", areaSquareMeters/1.5, "m", 9)
		add("Online emitters", areaSquareMeters/0.6, "pcs", 3)
		add("Screen filter", 1, "unit", 4500)
		add("Venturi injector", 1, "unit", 2800)
		add("Mainline PVC (63mm)", pipeLen*1.1, "m", 85)
		add("Control valves", math.Ceil(areaSquareMeters/2500)+1, "pcs", 380)
		laborBase, laborPerSqM = 5000, 1.1
		opBase, opPerSqM = 1200, 0.35

	case model.MethodSprinkler:
		sprinklers := math.Ceil(areaSquareMeters / 144)
		add("Impact sprinklers", sprinklers, "pcs", 850)
		add("Lateral pipe (HDPE 50mm)", areaSquareMeters/12, "m", 60)
		add("Mainline HDPE (75mm)", pipeLen*1.1, "m", 120)
		add("Riser pipes and fittings", sprinklers, "pcs", 220)
		add("Booster pump (3 HP)", 1, "unit", 22000)
		laborBase, laborPerSqM = 4000, 0.8
		opBase, opPerSqM = 2000, 0.6

	case model.MethodPumpPipeline:
		add("Centrifugal pump set (5 HP)", 1, "unit", 32000)
		add("HDPE pipeline (90mm)", pipeLen*1.15, "m", 160)
		add("Foot valve and strainer", 1, "unit", 1800)
		add("Starter and control panel", 1, "unit", 6500)
		add("Fittings and couplers", math.Ceil(pipeLen/50), "pcs", 400)
		laborBase, laborPerSqM = 8000, 0.4
		opBase, opPerSqM = 2500, 0.7

	case model.MethodSurface:
		add("Land grading", areaSquareMeters, "sq m", 6)
		add("Field channel shaping", math.Sqrt(areaSquareMeters)*4, "m", 55)
		add("Delivery channel lining", pipeLen, "m", 65)
		add("Check gates", math.Ceil(areaSquareMeters/2000), "pcs", 900)
		laborBase, laborPerSqM = 3000, 1.8
		opBase, opPerSqM = 500, 0.15

	case model.MethodManual:
		add("HDPE storage tank (1000 L)", math.Ceil(areaSquareMeters/2000), "unit", 5200)
		add("Delivery hose (25mm)", math.Min(pipeLen, 150), "m", 45)
		add("Watering cans and fittings", 4, "pcs", 350)
		laborBase, laborPerSqM = 1500, 0.2
		opBase, opPerSqM = 300, 0.1
	}

	var materialsBase float64
	for _, c := range components {
		materialsBase += c.Total
	}

	materials := math.Round(materialsBase * region.MaterialMultiplier)
	labor := math.Round((laborBase + laborPerSqM*areaSquareMeters) * region.LaborMultiplier)
	operational := math.Round(opBase + opPerSqM*areaSquareMeters)

	return components, model.CostBreakdown{
		Materials:   materials,
		Labor:       labor,
		Operational: operational,
		Total:       materials + labor,
	}
}
