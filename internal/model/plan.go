package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlanStatus string

const (
	PlanStatusDraft      PlanStatus = "draft"
	PlanStatusApproved   PlanStatus = "approved"
	PlanStatusInProgress PlanStatus = "in_progress"
	PlanStatusCompleted  PlanStatus = "completed"
)

// Valid reports whether the status is one of the four known states. Any state
// may transition to any other; there is no enforced ordering or terminal state.
func (s PlanStatus) Valid() bool {
	switch s {
	case PlanStatusDraft, PlanStatusApproved, PlanStatusInProgress, PlanStatusCompleted:
		return true
	}
	return false
}

// PlanSectionRef is the section identity captured when the plan was created.
type PlanSectionRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// PlanSourceRef is the water-source identity captured when the plan was created.
type PlanSourceRef struct {
	ID   uuid.UUID       `json:"id"`
	Name string          `json:"name"`
	Type WaterSourceType `json:"type"`
}

// IrrigationPlan is a saved plan: a frozen snapshot of one recommendation.
// Score, efficiency, cost and components never change after creation; later
// region or pricing changes must not leak into stored plans. Duplicate resets
// identity and lifecycle fields but keeps the numeric snapshot intact.
type IrrigationPlan struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	FarmID            uuid.UUID        `gorm:"type:uuid;index" json:"farm_id"`
	Name              string           `gorm:"type:varchar(255)" json:"name"`
	Section           PlanSectionRef   `gorm:"serializer:json" json:"section"`
	WaterSource       PlanSourceRef    `gorm:"serializer:json" json:"water_source"`
	Method            IrrigationMethod `gorm:"type:varchar(32)" json:"method"`
	DistanceMeters    float64          `json:"distance_meters"`
	SuitabilityScore  float64          `json:"suitability_score"`
	EfficiencyPercent float64          `json:"efficiency_percent"`
	Cost              CostBreakdown    `gorm:"serializer:json" json:"cost"`
	Components        []CostComponent  `gorm:"serializer:json" json:"components"`
	Pros              []string         `gorm:"serializer:json" json:"pros"`
	Cons              []string         `gorm:"serializer:json" json:"cons"`
	Warnings          []string         `gorm:"serializer:json" json:"warnings"`
	Status            PlanStatus       `gorm:"type:varchar(16)" json:"status"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (IrrigationPlan) TableName() string {
	return "irrigation_plans"
}

func (p *IrrigationPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
