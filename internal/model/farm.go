package model

import (
	"time"

	"github.com/google/uuid"

	"irrigation-planner/internal/geo"
)

type WaterSourceType string

const (
	WaterSourceRiver      WaterSourceType = "river"
	WaterSourceLake       WaterSourceType = "lake"
	WaterSourcePond       WaterSourceType = "pond"
	WaterSourceReservoir  WaterSourceType = "reservoir"
	WaterSourceCanal      WaterSourceType = "canal"
	WaterSourceStream     WaterSourceType = "stream"
	WaterSourceWell       WaterSourceType = "well"
	WaterSourceWaterTower WaterSourceType = "water_tower"
	WaterSourceSpring     WaterSourceType = "spring"
	WaterSourceWaterway   WaterSourceType = "waterway"
)

func (t WaterSourceType) Valid() bool {
	switch t {
	case WaterSourceRiver, WaterSourceLake, WaterSourcePond, WaterSourceReservoir,
		WaterSourceCanal, WaterSourceStream, WaterSourceWell, WaterSourceWaterTower,
		WaterSourceSpring, WaterSourceWaterway:
		return true
	}
	return false
}

type WaterSourceOrigin string

const (
	WaterSourceOriginOSM    WaterSourceOrigin = "osm"
	WaterSourceOriginManual WaterSourceOrigin = "manual"
)

// SectionPalette is the cyclic color palette assigned to sections created
// without an explicit color.
var SectionPalette = [8]string{
	"#4CAF50", "#2196F3", "#FF9800", "#9C27B0",
	"#F44336", "#00BCD4", "#8BC34A", "#FFC107",
}

type FarmBoundary struct {
	Ring             []geo.LatLng `json:"ring"`
	AreaSquareMeters float64      `json:"area_sq_m"`
	Center           geo.LatLng   `json:"center"`
}

type NearestWaterSource struct {
	SourceID       uuid.UUID `json:"source_id"`
	DistanceMeters float64   `json:"distance_meters"`
}

type Section struct {
	ID                 uuid.UUID           `json:"id"`
	Name               string              `json:"name"`
	Ring               []geo.LatLng        `json:"ring"`
	AreaSquareMeters   float64             `json:"area_sq_m"`
	CropType           string              `json:"crop_type"`
	SoilType           string              `json:"soil_type"`
	IrrigationType     string              `json:"irrigation_type"`
	Color              string              `json:"color"`
	CreatedAt          time.Time           `json:"created_at"`
	NearestWaterSource *NearestWaterSource `json:"nearest_water_source,omitempty"`
}

type WaterSource struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Type           WaterSourceType   `json:"type"`
	Coordinates    geo.LatLng        `json:"coordinates"`
	Source         WaterSourceOrigin `json:"source"`
	CapacityLitres *float64          `json:"capacity_litres,omitempty"`
	Quality        *string           `json:"quality,omitempty"`
}

// FarmRecord is the single aggregate persisted per farm: boundary, sections
// and water sources live in one row so every mutation is one atomic write.
type FarmRecord struct {
	FarmID                  uuid.UUID     `gorm:"type:uuid;primaryKey" json:"farm_id"`
	Boundary                *FarmBoundary `gorm:"serializer:json" json:"farm_boundary"`
	Sections                []Section     `gorm:"serializer:json" json:"sections"`
	WaterSources            []WaterSource `gorm:"serializer:json" json:"water_sources"`
	RegionCode              string        `gorm:"type:varchar(16)" json:"region_code"`
	WaterSourcesLastFetched *time.Time    `json:"water_sources_last_fetched,omitempty"`
	LastUpdated             time.Time     `gorm:"autoUpdateTime" json:"last_updated"`
}

func (FarmRecord) TableName() string {
	return "farm_records"
}

// SectionByID returns the section with the given id, or nil.
func (r *FarmRecord) SectionByID(id uuid.UUID) *Section {
	for i := range r.Sections {
		if r.Sections[i].ID == id {
			return &r.Sections[i]
		}
	}
	return nil
}

// WaterSourceByID returns the water source with the given id, or nil.
func (r *FarmRecord) WaterSourceByID(id uuid.UUID) *WaterSource {
	for i := range r.WaterSources {
		if r.WaterSources[i].ID == id {
			return &r.WaterSources[i]
		}
	}
	return nil
}
