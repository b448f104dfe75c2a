package pricing

import (
	"strings"

	"irrigation-planner/internal/model"
)

// DefaultRegionCode is used when a farm has no region preference saved.
const DefaultRegionCode = "DEFAULT"

// regions is the static pricing table. Multipliers scale the engine's base
// INR unit prices; the catalog performs no computation of its own.
var regions = []model.Region{
	{Code: "MH", Name: "Maharashtra", MaterialMultiplier: 1.00, LaborMultiplier: 1.00},
	{Code: "PB", Name: "Punjab", MaterialMultiplier: 1.05, LaborMultiplier: 1.10},
	{Code: "UP", Name: "Uttar Pradesh", MaterialMultiplier: 0.95, LaborMultiplier: 0.85},
	{Code: "GJ", Name: "Gujarat", MaterialMultiplier: 1.02, LaborMultiplier: 0.95},
	{Code: "RJ", Name: "Rajasthan", MaterialMultiplier: 1.08, LaborMultiplier: 0.90},
	{Code: "TN", Name: "Tamil Nadu", MaterialMultiplier: 1.04, LaborMultiplier: 1.05},
	{Code: "KA", Name: "Karnataka", MaterialMultiplier: 1.03, LaborMultiplier: 1.00},
	{Code: "AP", Name: "Andhra Pradesh", MaterialMultiplier: 0.98, LaborMultiplier: 0.90},
	{Code: "MP", Name: "Madhya Pradesh", MaterialMultiplier: 0.96, LaborMultiplier: 0.80},
	{Code: "WB", Name: "West Bengal", MaterialMultiplier: 0.97, LaborMultiplier: 0.88},
	{Code: "HR", Name: "Haryana", MaterialMultiplier: 1.06, LaborMultiplier: 1.08},
	{Code: "BR", Name: "Bihar", MaterialMultiplier: 0.94, LaborMultiplier: 0.75},
	{Code: DefaultRegionCode, Name: "Other / National Average", MaterialMultiplier: 1.00, LaborMultiplier: 1.00},
}

// Catalog resolves region codes to pricing multipliers.
type Catalog struct {
	byCode map[string]model.Region
}

func NewCatalog() *Catalog {
	c := &Catalog{byCode: make(map[string]model.Region, len(regions))}
	for _, r := range regions {
		c.byCode[r.Code] = r
	}
	return c
}

// Lookup returns the region for code (case-insensitive). The second return
// value is false for unknown codes.
func (c *Catalog) Lookup(code string) (model.Region, bool) {
	r, ok := c.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return r, ok
}

// Resolve is Lookup with a fallback to the default region.
func (c *Catalog) Resolve(code string) model.Region {
	if r, ok := c.Lookup(code); ok {
		return r
	}
	return c.Default()
}

func (c *Catalog) Default() model.Region {
	return c.byCode[DefaultRegionCode]
}

// List returns all regions in catalog order.
func (c *Catalog) List() []model.Region {
	out := make([]model.Region, len(regions))
	copy(out, regions)
	return out
}
