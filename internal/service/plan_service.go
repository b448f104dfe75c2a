package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"irrigation-planner/internal/model"
	"irrigation-planner/internal/repository"
)

// ExcelGenerator renders a saved plan as an xlsx workbook.
type ExcelGenerator interface {
	Generate(plan model.IrrigationPlan) ([]byte, error)
}

// PDFGenerator renders a saved plan as a one-page PDF summary.
type PDFGenerator interface {
	Generate(plan model.IrrigationPlan) ([]byte, error)
}

type PlanService struct {
	plans *repository.PlanRepository
	recs  *RecommendationService
	excel ExcelGenerator
	pdf   PDFGenerator
	clock clockwork.Clock
}

func NewPlanService(plans *repository.PlanRepository, recs *RecommendationService, excel ExcelGenerator, pdf PDFGenerator, clock clockwork.Clock) *PlanService {
	return &PlanService{
		plans: plans,
		recs:  recs,
		excel: excel,
		pdf:   pdf,
		clock: clock,
	}
}

type CreatePlanInput struct {
	FarmID     uuid.UUID
	SectionID  uuid.UUID
	SourceID   *uuid.UUID
	Method     string
	RegionCode string
}

// Create freezes the recommendation matching the chosen method into a new
// draft plan. The numeric snapshot is copied verbatim: later region or
// pricing changes never alter a saved plan.
func (s *PlanService) Create(ctx context.Context, in CreatePlanInput) (*model.IrrigationPlan, error) {
	method := model.IrrigationMethod(in.Method)
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unknown irrigation method %q", ErrInvalidInput, in.Method)
	}

	result, err := s.recs.Recommend(ctx, RecommendInput{
		FarmID:     in.FarmID,
		SectionID:  in.SectionID,
		SourceID:   in.SourceID,
		RegionCode: in.RegionCode,
	})
	if err != nil {
		return nil, err
	}
	if result.WaterSource == nil {
		return nil, ErrNoWaterSources
	}

	var chosen *model.IrrigationRecommendation
	for i := range result.Recommendations {
		if result.Recommendations[i].Method == method {
			chosen = &result.Recommendations[i]
			break
		}
	}
	if chosen == nil {
		return nil, fmt.Errorf("%w: method %q was not scored", ErrInvalidInput, in.Method)
	}

	distance := 0.0
	if result.DistanceMeters != nil {
		distance = *result.DistanceMeters
	}

	plan := &model.IrrigationPlan{
		ID:     uuid.New(),
		FarmID: in.FarmID,
		Name:   fmt.Sprintf("%s - %s", result.Section.Name, method.Label()),
		Section: model.PlanSectionRef{
			ID:   result.Section.ID,
			Name: result.Section.Name,
		},
		WaterSource: model.PlanSourceRef{
			ID:   result.WaterSource.ID,
			Name: result.WaterSource.Name,
			Type: result.WaterSource.Type,
		},
		Method:            method,
		DistanceMeters:    distance,
		SuitabilityScore:  chosen.SuitabilityScore,
		EfficiencyPercent: chosen.EfficiencyPercent,
		Cost:              chosen.Cost,
		Components:        chosen.Components,
		Pros:              chosen.Pros,
		Cons:              chosen.Cons,
		Warnings:          chosen.Warnings,
		Status:            model.PlanStatusDraft,
		CreatedAt:         s.clock.Now(),
	}

	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *PlanService) Get(ctx context.Context, id uuid.UUID) (*model.IrrigationPlan, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: plan %s", ErrNotFound, id)
	}
	return plan, nil
}

// UpdateStatus moves the plan to the given status. Every state may transition
// to every other state; the lifecycle is deliberately permissive.
func (s *PlanService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.IrrigationPlan, error) {
	next := model.PlanStatus(status)
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown plan status %q", ErrInvalidInput, status)
	}

	plan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	plan.Status = next
	if err := s.plans.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *PlanService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.plans.Delete(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return fmt.Errorf("%w: plan %s", ErrNotFound, id)
	}
	return err
}

// Duplicate copies a plan under a new identity: fresh id, " (Copy)" name
// suffix, draft status and a new creation time. The frozen cost, efficiency
// and score fields carry over unchanged.
func (s *PlanService) Duplicate(ctx context.Context, id uuid.UUID) (*model.IrrigationPlan, error) {
	original, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	copied := *original
	copied.ID = uuid.New()
	copied.Name = original.Name + " (Copy)"
	copied.Status = model.PlanStatusDraft
	copied.CreatedAt = s.clock.Now()
	copied.UpdatedAt = s.clock.Now()

	if err := s.plans.Create(ctx, &copied); err != nil {
		return nil, err
	}
	return &copied, nil
}

// List returns a farm's plans, optionally narrowed by status and by a
// case-insensitive substring match on name, section name or method.
func (s *PlanService) List(ctx context.Context, farmID uuid.UUID, search, status string) ([]model.IrrigationPlan, error) {
	filter := repository.PlanListFilter{FarmID: farmID}
	if status != "" {
		st := model.PlanStatus(status)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: unknown plan status %q", ErrInvalidInput, status)
		}
		filter.Status = &st
	}

	plans, err := s.plans.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if search == "" {
		return plans, nil
	}

	needle := strings.ToLower(search)
	matched := make([]model.IrrigationPlan, 0, len(plans))
	for _, plan := range plans {
		if strings.Contains(strings.ToLower(plan.Name), needle) ||
			strings.Contains(strings.ToLower(plan.Section.Name), needle) ||
			strings.Contains(strings.ToLower(string(plan.Method)), needle) {
			matched = append(matched, plan)
		}
	}
	return matched, nil
}

// ExportJSON serializes the plan as a pretty-printed, re-importable document.
func (s *PlanService) ExportJSON(ctx context.Context, id uuid.UUID) (string, []byte, error) {
	plan, err := s.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return "", nil, err
	}
	return exportFileName(plan, "json"), data, nil
}

func (s *PlanService) ExportExcel(ctx context.Context, id uuid.UUID) (string, []byte, error) {
	plan, err := s.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	data, err := s.excel.Generate(*plan)
	if err != nil {
		return "", nil, err
	}
	return exportFileName(plan, "xlsx"), data, nil
}

func (s *PlanService) ExportPDF(ctx context.Context, id uuid.UUID) (string, []byte, error) {
	plan, err := s.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	data, err := s.pdf.Generate(*plan)
	if err != nil {
		return "", nil, err
	}
	return exportFileName(plan, "pdf"), data, nil
}

func exportFileName(plan *model.IrrigationPlan, ext string) string {
	name := sanitizeFileName(plan.Name)
	if name == "" {
		name = plan.ID.String()
	}
	return fmt.Sprintf("plan-%s-%s.%s", name, plan.CreatedAt.Format("20060102"), ext)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
