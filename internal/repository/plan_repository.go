package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"irrigation-planner/internal/model"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(ctx context.Context, plan *model.IrrigationPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *PlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.IrrigationPlan, error) {
	var plan model.IrrigationPlan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// Save upserts by id.
func (r *PlanRepository) Save(ctx context.Context, plan *model.IrrigationPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *PlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.IrrigationPlan{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type PlanListFilter struct {
	FarmID uuid.UUID
	Status *model.PlanStatus
}

// List returns plans for a farm, newest first. Free-text search is applied in
// the service layer: section and method snapshots live in JSON columns, and
// matching them in SQL would differ between the sqlite and postgres dialects.
func (r *PlanRepository) List(ctx context.Context, filter PlanListFilter) ([]model.IrrigationPlan, error) {
	var plans []model.IrrigationPlan
	query := r.db.WithContext(ctx).Model(&model.IrrigationPlan{}).
		Where("farm_id = ?", filter.FarmID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if err := query.Order("created_at DESC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}
