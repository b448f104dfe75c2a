package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"irrigation-planner/internal/model"
)

// PDFGenerator renders a saved plan as a one-page summary for printing or
// sharing with a bank/subsidy office.
type PDFGenerator struct{}

func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{}
}

func (g *PDFGenerator) Generate(plan model.IrrigationPlan) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Irrigation Plan", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, plan.Name, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Created %s, status %s", plan.CreatedAt.Format("02 Jan 2006"), plan.Status), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Site", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Section: %s", plan.Section.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Water source: %s (%s), %.0f m away", plan.WaterSource.Name, plan.WaterSource.Type, plan.DistanceMeters), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Method: %s, suitability %.1f/100, efficiency %.0f%%", plan.Method.Label(), plan.SuitabilityScore, plan.EfficiencyPercent), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Cost estimate", "", 1, "L", false, 0, "")

	headers := []string{"Component", "Qty", "Unit", "Unit price", "Total"}
	widths := []float64{80, 22, 18, 30, 30}
	drawRow(pdf, headers, widths, true)
	for _, component := range plan.Components {
		drawRow(pdf, []string{
			component.Name,
			fmt.Sprintf("%.2f", component.Quantity),
			component.Unit,
			fmt.Sprintf("%.0f", component.UnitPrice),
			fmt.Sprintf("%.0f", component.Total),
		}, widths, false)
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Materials: INR %.0f    Labor: INR %.0f    Total installation: INR %.0f", plan.Cost.Materials, plan.Cost.Labor, plan.Cost.Total), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Estimated annual operation: INR %.0f", plan.Cost.Operational), "", 1, "L", false, 0, "")

	if len(plan.Warnings) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Warnings", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, warning := range plan.Warnings {
			pdf.MultiCell(0, 5, "- "+warning, "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawRow(pdf *gofpdf.Fpdf, cells []string, widths []float64, header bool) {
	if header {
		pdf.SetFont("Helvetica", "B", 10)
	} else {
		pdf.SetFont("Helvetica", "", 10)
	}
	for i, cell := range cells {
		pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}
