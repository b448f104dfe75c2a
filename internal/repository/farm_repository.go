package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"irrigation-planner/internal/model"
)

type FarmRepository struct {
	db *gorm.DB
}

func NewFarmRepository(db *gorm.DB) *FarmRepository {
	return &FarmRepository{db: db}
}

// Get returns the farm record for the given id, or nil when none exists yet.
func (r *FarmRepository) Get(ctx context.Context, farmID uuid.UUID) (*model.FarmRecord, error) {
	var record model.FarmRecord
	err := r.db.WithContext(ctx).Where("farm_id = ?", farmID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Save upserts the whole aggregate in one write, so a failed mutation never
// leaves the record half-updated.
func (r *FarmRepository) Save(ctx context.Context, record *model.FarmRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "farm_id"}},
			UpdateAll: true,
		}).
		Create(record).Error
}
