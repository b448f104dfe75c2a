package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"irrigation-planner/internal/export"
	"irrigation-planner/internal/model"
)

func samplePlan() model.IrrigationPlan {
	return model.IrrigationPlan{
		ID:     uuid.New(),
		FarmID: uuid.New(),
		Name:   "Paddy East - Drip Irrigation",
		Section: model.PlanSectionRef{
			ID:   uuid.New(),
			Name: "Paddy East",
		},
		WaterSource: model.PlanSourceRef{
			ID:   uuid.New(),
			Name: "Village Well",
			Type: model.WaterSourceWell,
		},
		Method:            model.MethodDrip,
		DistanceMeters:    55.7,
		SuitabilityScore:  64.3,
		EfficiencyPercent: 90,
		Cost: model.CostBreakdown{
			Materials:   85000,
			Labor:       12000,
			Operational: 4000,
			Total:       97000,
		},
		Components: []model.CostComponent{
			{Name: "Drip laterals", Quantity: 5396, Unit: "m", UnitPrice: 9, Total: 48564},
			{Name: "Screen filter", Quantity: 1, Unit: "unit", UnitPrice: 4500, Total: 4500},
		},
		Pros:      []string{"Highest water-use efficiency"},
		Cons:      []string{"Highest upfront cost per hectare"},
		Warnings:  []string{"no water source matched; distance-dependent estimates use neutral defaults"},
		Status:    model.PlanStatusDraft,
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestExcelGenerator(t *testing.T) {
	data, err := export.NewExcelGenerator().Generate(samplePlan())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	assert.Contains(t, sheets, "Summary")
	assert.Contains(t, sheets, "Materials")

	rows, err := workbook.GetRows("Materials")
	require.NoError(t, err)
	var found bool
	for _, row := range rows {
		for _, cell := range row {
			if cell == "Drip laterals" {
				found = true
			}
		}
	}
	assert.True(t, found, "component rows present in the Materials sheet")
}

func TestPDFGenerator(t *testing.T) {
	data, err := export.NewPDFGenerator().Generate(samplePlan())
	require.NoError(t, err)
	require.Greater(t, len(data), 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}
