package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"irrigation-planner/internal/geo"
	"irrigation-planner/internal/model"
	"irrigation-planner/internal/pricing"
	"irrigation-planner/internal/repository"
)

// WaterSourceLookup fetches candidate water sources around the farm from an
// external provider (Overpass/OSM in production, a stub in tests).
type WaterSourceLookup interface {
	FindWaterSources(ctx context.Context, bounds geo.Bounds) ([]model.WaterSource, error)
}

// importSearchMarginMeters widens the boundary bounding box when querying the
// external provider, so sources just outside the farm are still found.
const importSearchMarginMeters = 2000.0

type FarmService struct {
	farms   *repository.FarmRepository
	catalog *pricing.Catalog
	lookup  WaterSourceLookup
	clock   clockwork.Clock
}

func NewFarmService(farms *repository.FarmRepository, catalog *pricing.Catalog, lookup WaterSourceLookup, clock clockwork.Clock) *FarmService {
	return &FarmService{
		farms:   farms,
		catalog: catalog,
		lookup:  lookup,
		clock:   clock,
	}
}

// GetOrInit loads the farm record, creating an empty one on first access.
func (s *FarmService) GetOrInit(ctx context.Context, farmID uuid.UUID) (*model.FarmRecord, error) {
	record, err := s.farms.Get(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}

	record = &model.FarmRecord{
		FarmID:       farmID,
		Sections:     []model.Section{},
		WaterSources: []model.WaterSource{},
		RegionCode:   pricing.DefaultRegionCode,
		LastUpdated:  s.clock.Now(),
	}
	if err := s.farms.Save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// SetRegion stores the farmer's region preference. It affects only new
// computations; saved plans keep the prices they were created with.
func (s *FarmService) SetRegion(ctx context.Context, farmID uuid.UUID, code string) (*model.FarmRecord, error) {
	region, ok := s.catalog.Lookup(code)
	if !ok {
		return nil, fmt.Errorf("%w: unknown region code %q", ErrInvalidInput, code)
	}

	record, err := s.GetOrInit(ctx, farmID)
	if err != nil {
		return nil, err
	}
	record.RegionCode = region.Code
	record.LastUpdated = s.clock.Now()
	if err := s.farms.Save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

type BoundaryInput struct {
	Ring             []geo.LatLng
	AreaSquareMeters *float64
}

// SaveBoundary replaces the farm boundary wholesale. Center is derived from
// the ring; area is recomputed when the caller does not supply it.
func (s *FarmService) SaveBoundary(ctx context.Context, farmID uuid.UUID, input BoundaryInput) (*model.FarmBoundary, error) {
	center, ok := geo.Centroid(input.Ring)
	if !ok || len(input.Ring) < 3 {
		return nil, fmt.Errorf("%w: boundary ring needs at least 3 vertices", ErrInvalidInput)
	}

	area := geo.RingAreaSquareMeters(input.Ring)
	if input.AreaSquareMeters != nil {
		area = *input.AreaSquareMeters
	}
	if area <= 0 {
		return nil, fmt.Errorf("%w: boundary area must be positive", ErrInvalidInput)
	}

	record, err := s.GetOrInit(ctx, farmID)
	if err != nil {
		return nil, err
	}
	record.Boundary = &model.FarmBoundary{
		Ring:             input.Ring,
		AreaSquareMeters: area,
		Center:           center,
	}
	record.LastUpdated = s.clock.Now()
	if err := s.farms.Save(ctx, record); err != nil {
		return nil, err
	}
	return record.Boundary, nil
}

type SectionInput struct {
	ID               *uuid.UUID
	Name             string
	Ring             []geo.LatLng
	AreaSquareMeters *float64
	CropType         string
	SoilType         string
	IrrigationType   string
	Color            string
}

// UpsertSection inserts a new section or replaces an existing one by id.
// New sections get a palette color (creation order modulo the palette size)
// and a creation timestamp; replacements keep both unless overridden.
func (s *FarmService) UpsertSection(ctx context.Context, farmID uuid.UUID, input SectionInput) (*model.Section, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: section name is required", ErrInvalidInput)
	}
	if len(input.Ring) < 3 {
		return nil, fmt.Errorf("%w: section ring needs at least 3 vertices", ErrInvalidInput)
	}

	area := geo.RingAreaSquareMeters(input.Ring)
	if input.AreaSquareMeters != nil {
		area = *input.AreaSquareMeters
	}
	if area <= 0 {
		return nil, fmt.Errorf("%w: section area must be positive", ErrInvalidInput)
	}

	record, err := s.GetOrInit(ctx, farmID)
	if err != nil {
		return nil, err
	}

	var section *model.Section
	if input.ID == nil {
		color := input.Color
		if color == "" {
			color = model.SectionPalette[len(record.Sections)%len(model.SectionPalette)]
		}
		record.Sections = append(record.Sections, model.Section{
			ID:               uuid.New(),
			Name:             input.Name,
			Ring:             input.Ring,
			AreaSquareMeters: area,
			CropType:         input.CropType,
			SoilType:         input.SoilType,
			IrrigationType:   input.IrrigationType,
			Color:            color,
			CreatedAt:        s.clock.Now(),
		})
		section = &record.Sections[len(record.Sections)-1]
	} else {
		section = record.SectionByID(*input.ID)
		if section == nil {
			return nil, fmt.Errorf("%w: section %s", ErrNotFound, *input.ID)
		}
		section.Name = input.Name
		section.Ring = input.Ring
		section.AreaSquareMeters = area
		section.CropType = input.CropType
		section.SoilType = input.SoilType
		section.IrrigationType = input.IrrigationType
		if input.Color != "" {
			section.Color = input.Color
		}
	}

	record.LastUpdated = s.clock.Now()
	if err := s.farms.Save(ctx, record); err != nil {
		return nil, err
	}
	out := *section
	return &out, nil
}

func (s *FarmService) DeleteSection(ctx context.Context, farmID, sectionID uuid.UUID) error {
	record, err := s.GetOrInit(ctx, farmID)
	if err != nil {
		return err
	}

	for i := range record.Sections {
		if record.Sections[i].ID == sectionID {
			record.Sections = append(record.Sections[:i], record.Sections[i+1:]...)
			record.LastUpdated = s.clock.Now()
			return s.farms.Save(ctx, record)
		}
	}
	return fmt.Errorf("%w: section %s", ErrNotFound, sectionID)
}

type WaterSourceInput struct {
	ID             *uuid.UUID
	Name           string
	Type           string
	Coordinates    geo.LatLng
	Source         string
	CapacityLitres *float64
	Quality        *string
}

// ReplaceWaterSources swaps the whole stored list for the given one. All
// inputs are validated before anything is written, so a bad payload leaves
// the persisted list untouched.
func (s *FarmService) ReplaceWaterSources(ctx context.Context, farmID uuid.UUID, inputs []WaterSourceInput) ([]model.WaterSource, error) {
	sources := make([]model.WaterSource, 0, len(inputs))
	for i, in := range inputs {
		srcType := model.WaterSourceType(in.Type)
		if !srcType.Valid() {
			return nil, fmt.Errorf("%w: water source %d has unknown type %q", ErrInvalidInput, i, in.Type)
		}
		if in.Name == "" {
			return nil, fmt.Errorf("%w: water source %d has no name", ErrInvalidInput, i)
		}
		if err := validateCoordinates(in.Coordinates); err != nil {
			return nil, fmt.Errorf("%w: water source %d: %v", ErrInvalidInput, i, err)
		}

		id := uuid.New()
		if in.ID != nil {
			id = *in.ID
		}
		origin := model.WaterSourceOrigin(in.Source)
		if origin != model.WaterSourceOriginOSM {
			origin = model.WaterSourceOriginManual
		}
		sources = append(sources, model.WaterSource{
			ID:             id,
			Name:           in.Name,
			Type:           srcType,
			Coordinates:    in.Coordinates,
			Source:         origin,
			CapacityLitres: in.CapacityLitres,
			Quality:        in.Quality,
		})
	}

	record, err := s.GetOrInit(ctx, farmID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	record.WaterSources = sources
	record.WaterSourcesLastFetched = &now
	record.LastUpdated = now
	if err := s.farms.Save(ctx, record); err != nil {
		return nil, err
	}
	return sources, nil
}

// ImportWaterSources queries the external provider for water features around
// the farm boundary and replaces the stored list with the result. The import
// is atomic: a fetch failure leaves the persisted list exactly as it was.
func (s *FarmService) ImportWaterSources(ctx context.Context, farmID uuid.UUID) ([]model.WaterSource, error) {
	record, err := s.GetOrInit(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if record.Boundary == nil {
		return nil, fmt.Errorf("%w: draw the farm boundary before importing water sources", ErrInvalidInput)
	}

	bounds, ok := geo.RingBounds(record.Boundary.Ring)
	if !ok {
		return nil, fmt.Errorf("%w: farm boundary has no usable geometry", ErrInvalidInput)
	}

	sources, err := s.lookup.FindWaterSources(ctx, bounds.Expand(importSearchMarginMeters))
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	record.WaterSources = sources
	record.WaterSourcesLastFetched = &now
	record.LastUpdated = now
	if err := s.farms.Save(ctx, record); err != nil {
		return nil, err
	}
	return sources, nil
}

// RefreshNearestWaterSource recomputes which stored source is closest to the
// section's centroid and stamps {id, distance} onto the section.
func (s *FarmService) RefreshNearestWaterSource(ctx context.Context, farmID, sectionID uuid.UUID) (*model.NearestWaterSource, error) {
	record, err := s.GetOrInit(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if len(record.WaterSources) == 0 {
		return nil, ErrNoWaterSources
	}

	section := record.SectionByID(sectionID)
	if section == nil {
		return nil, fmt.Errorf("%w: section %s", ErrNotFound, sectionID)
	}

	nearest, ok := nearestSource(*section, record.WaterSources)
	if !ok {
		return nil, fmt.Errorf("%w: section geometry is degenerate", ErrInvalidInput)
	}

	section.NearestWaterSource = &nearest
	record.LastUpdated = s.clock.Now()
	if err := s.farms.Save(ctx, record); err != nil {
		return nil, err
	}
	return &nearest, nil
}

type RefreshSummary struct {
	Updated int         `json:"updated"`
	Skipped []uuid.UUID `json:"skipped,omitempty"`
}

// RefreshAllNearestWaterSources applies RefreshNearestWaterSource to every
// section in one write. Sections whose geometry cannot produce a centroid
// are skipped and reported rather than failing the whole pass.
func (s *FarmService) RefreshAllNearestWaterSources(ctx context.Context, farmID uuid.UUID) (*RefreshSummary, error) {
	record, err := s.GetOrInit(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if len(record.WaterSources) == 0 {
		return nil, ErrNoWaterSources
	}

	summary := &RefreshSummary{}
	for i := range record.Sections {
		nearest, ok := nearestSource(record.Sections[i], record.WaterSources)
		if !ok {
			summary.Skipped = append(summary.Skipped, record.Sections[i].ID)
			continue
		}
		record.Sections[i].NearestWaterSource = &nearest
		summary.Updated++
	}

	record.LastUpdated = s.clock.Now()
	if err := s.farms.Save(ctx, record); err != nil {
		return nil, err
	}
	return summary, nil
}

// Export serializes the farm record as a pretty-printed JSON document,
// byte-compatible with the persisted shape so it can be re-imported.
func (s *FarmService) Export(ctx context.Context, farmID uuid.UUID) ([]byte, error) {
	record, err := s.GetOrInit(ctx, farmID)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(record, "", "  ")
}

// Import validates a previously exported document and only then replaces the
// stored record. Malformed input never mutates existing state.
func (s *FarmService) Import(ctx context.Context, farmID uuid.UUID, data []byte) (*model.FarmRecord, error) {
	var incoming model.FarmRecord
	if err := json.Unmarshal(data, &incoming); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := validateImportedRecord(&incoming); err != nil {
		return nil, err
	}

	incoming.FarmID = farmID
	if incoming.RegionCode == "" {
		incoming.RegionCode = pricing.DefaultRegionCode
	}
	incoming.LastUpdated = s.clock.Now()
	if err := s.farms.Save(ctx, &incoming); err != nil {
		return nil, err
	}
	return &incoming, nil
}

func validateImportedRecord(record *model.FarmRecord) error {
	if record.Boundary != nil && len(record.Boundary.Ring) < 3 {
		return fmt.Errorf("%w: farm boundary ring needs at least 3 vertices", ErrInvalidInput)
	}
	for i, section := range record.Sections {
		if section.ID == uuid.Nil {
			return fmt.Errorf("%w: section %d has no id", ErrInvalidInput, i)
		}
		if section.Name == "" {
			return fmt.Errorf("%w: section %d has no name", ErrInvalidInput, i)
		}
		if len(section.Ring) < 3 {
			return fmt.Errorf("%w: section %q ring needs at least 3 vertices", ErrInvalidInput, section.Name)
		}
		if section.AreaSquareMeters <= 0 {
			return fmt.Errorf("%w: section %q area must be positive", ErrInvalidInput, section.Name)
		}
	}
	for i, source := range record.WaterSources {
		if source.ID == uuid.Nil {
			return fmt.Errorf("%w: water source %d has no id", ErrInvalidInput, i)
		}
		if !source.Type.Valid() {
			return fmt.Errorf("%w: water source %d has unknown type %q", ErrInvalidInput, i, source.Type)
		}
		if err := validateCoordinates(source.Coordinates); err != nil {
			return fmt.Errorf("%w: water source %d: %v", ErrInvalidInput, i, err)
		}
	}
	return nil
}

func validateCoordinates(p geo.LatLng) error {
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("coordinates out of range (%f, %f)", p.Lat, p.Lng)
	}
	return nil
}

// nearestSource returns the stored source minimizing the haversine distance
// from the section's centroid. False when the centroid cannot be computed.
func nearestSource(section model.Section, sources []model.WaterSource) (model.NearestWaterSource, bool) {
	center, ok := geo.Centroid(section.Ring)
	if !ok {
		return model.NearestWaterSource{}, false
	}

	best := model.NearestWaterSource{DistanceMeters: math.Inf(1)}
	for _, src := range sources {
		d := geo.DistanceMeters(center.Lat, center.Lng, src.Coordinates.Lat, src.Coordinates.Lng)
		if d < best.DistanceMeters {
			best = model.NearestWaterSource{SourceID: src.ID, DistanceMeters: d}
		}
	}
	return best, true
}
