package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"irrigation-planner/internal/engine"
	"irrigation-planner/internal/geo"
	"irrigation-planner/internal/model"
	"irrigation-planner/internal/pricing"
	"irrigation-planner/internal/repository"
)

// RecommendationService resolves a section, water source, distance and region
// from stored state and feeds them to the pure engine. All pricing state is
// resolved here and passed explicitly, so the engine itself never reads
// anything ambient.
type RecommendationService struct {
	farms   *repository.FarmRepository
	catalog *pricing.Catalog
}

func NewRecommendationService(farms *repository.FarmRepository, catalog *pricing.Catalog) *RecommendationService {
	return &RecommendationService{farms: farms, catalog: catalog}
}

type RecommendInput struct {
	FarmID    uuid.UUID
	SectionID uuid.UUID
	// SourceID selects a specific water source; nil falls back to the
	// section's stored nearest source, then to the closest stored source.
	SourceID *uuid.UUID
	// RegionCode overrides the farm's saved region for this computation.
	RegionCode string
}

type RecommendResult struct {
	Section         model.Section                    `json:"section"`
	WaterSource     *model.WaterSource               `json:"water_source,omitempty"`
	DistanceMeters  *float64                         `json:"distance_meters,omitempty"`
	Region          model.Region                     `json:"region"`
	Recommendations []model.IrrigationRecommendation `json:"recommendations"`
}

func (s *RecommendationService) Recommend(ctx context.Context, in RecommendInput) (*RecommendResult, error) {
	record, err := s.farms.Get(ctx, in.FarmID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: farm %s", ErrNotFound, in.FarmID)
	}

	section := record.SectionByID(in.SectionID)
	if section == nil {
		return nil, fmt.Errorf("%w: section %s", ErrNotFound, in.SectionID)
	}

	region := s.catalog.Resolve(record.RegionCode)
	if in.RegionCode != "" {
		r, ok := s.catalog.Lookup(in.RegionCode)
		if !ok {
			return nil, fmt.Errorf("%w: unknown region code %q", ErrInvalidInput, in.RegionCode)
		}
		region = r
	}

	source, distance, err := s.resolveSource(record, section, in.SourceID)
	if err != nil {
		return nil, err
	}

	recs := engine.Recommend(engine.Input{
		Section:        *section,
		WaterSource:    source,
		DistanceMeters: distance,
		Region:         region,
	})

	return &RecommendResult{
		Section:         *section,
		WaterSource:     source,
		DistanceMeters:  distance,
		Region:          region,
		Recommendations: recs,
	}, nil
}

func (s *RecommendationService) resolveSource(record *model.FarmRecord, section *model.Section, sourceID *uuid.UUID) (*model.WaterSource, *float64, error) {
	var source *model.WaterSource

	switch {
	case sourceID != nil:
		source = record.WaterSourceByID(*sourceID)
		if source == nil {
			return nil, nil, fmt.Errorf("%w: water source %s", ErrNotFound, *sourceID)
		}
	case section.NearestWaterSource != nil:
		source = record.WaterSourceByID(section.NearestWaterSource.SourceID)
	}

	if source == nil {
		if nearest, ok := nearestSource(*section, record.WaterSources); ok && len(record.WaterSources) > 0 {
			source = record.WaterSourceByID(nearest.SourceID)
		}
	}
	if source == nil {
		return nil, nil, nil
	}

	center, ok := geo.Centroid(section.Ring)
	if !ok {
		// Degenerate ring: fall back to the stored distance when the stored
		// nearest source is the one selected.
		if section.NearestWaterSource != nil && section.NearestWaterSource.SourceID == source.ID {
			d := section.NearestWaterSource.DistanceMeters
			return source, &d, nil
		}
		return source, nil, nil
	}

	d := geo.DistanceMeters(center.Lat, center.Lng, source.Coordinates.Lat, source.Coordinates.Lng)
	return source, &d, nil
}
