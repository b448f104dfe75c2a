package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"irrigation-planner/internal/model"
)

// ExcelGenerator renders a saved plan as an xlsx workbook with a summary
// sheet and the itemized material bill.
type ExcelGenerator struct{}

func NewExcelGenerator() *ExcelGenerator {
	return &ExcelGenerator{}
}

func (g *ExcelGenerator) Generate(plan model.IrrigationPlan) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	g.writeSummary(file, summarySheet, plan)

	componentsSheet := "Materials"
	file.NewSheet(componentsSheet)
	g.writeComponents(file, componentsSheet, plan)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *ExcelGenerator) writeSummary(file *excelize.File, sheet string, plan model.IrrigationPlan) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Plan")
	set("B1", plan.Name)
	set("A2", "Section")
	set("B2", plan.Section.Name)
	set("A3", "Water source")
	set("B3", fmt.Sprintf("%s (%s)", plan.WaterSource.Name, plan.WaterSource.Type))
	set("A4", "Method")
	set("B4", plan.Method.Label())
	set("A5", "Distance to source, m")
	set("B5", plan.DistanceMeters)
	set("A6", "Suitability score")
	set("B6", plan.SuitabilityScore)
	set("A7", "Water-use efficiency, %")
	set("B7", plan.EfficiencyPercent)
	set("A8", "Status")
	set("B8", string(plan.Status))
	set("A9", "Created")
	set("B9", plan.CreatedAt.Format("02.01.2006"))

	set("A11", "Materials, INR")
	set("B11", plan.Cost.Materials)
	set("A12", "Labor, INR")
	set("B12", plan.Cost.Labor)
	set("A13", "Total installation, INR")
	set("B13", plan.Cost.Total)
	set("A14", "Annual operation, INR")
	set("B14", plan.Cost.Operational)

	row := 16
	if len(plan.Warnings) > 0 {
		set(fmt.Sprintf("A%d", row), "Warnings")
		for i, warning := range plan.Warnings {
			set(fmt.Sprintf("B%d", row+i), warning)
		}
		row += len(plan.Warnings) + 1
	}

	set(fmt.Sprintf("A%d", row), "Pros")
	for i, pro := range plan.Pros {
		set(fmt.Sprintf("B%d", row+i), pro)
	}
	row += len(plan.Pros) + 1

	set(fmt.Sprintf("A%d", row), "Cons")
	for i, con := range plan.Cons {
		set(fmt.Sprintf("B%d", row+i), con)
	}

	_ = file.SetColWidth(sheet, "A", "A", 26)
	_ = file.SetColWidth(sheet, "B", "B", 70)
}

func (g *ExcelGenerator) writeComponents(file *excelize.File, sheet string, plan model.IrrigationPlan) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{"Component", "Quantity", "Unit", "Unit price, INR", "Total, INR"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, component := range plan.Components {
		row := i + 2
		set(fmt.Sprintf("A%d", row), component.Name)
		set(fmt.Sprintf("B%d", row), component.Quantity)
		set(fmt.Sprintf("C%d", row), component.Unit)
		set(fmt.Sprintf("D%d", row), component.UnitPrice)
		set(fmt.Sprintf("E%d", row), component.Total)
	}

	totalRow := len(plan.Components) + 3
	set(fmt.Sprintf("A%d", totalRow), "Materials subtotal (before regional multiplier)")
	var subtotal float64
	for _, component := range plan.Components {
		subtotal += component.Total
	}
	set(fmt.Sprintf("E%d", totalRow), subtotal)

	_ = file.SetColWidth(sheet, "A", "A", 42)
	_ = file.SetColWidth(sheet, "B", "E", 16)
}
