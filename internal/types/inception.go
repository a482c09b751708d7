package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	InceptionStatusActive   = "active"
	InceptionStatusArchived = "archived"
)

// Known step keys. The step store accepts any key; these are the ones
// the blueprint synthesis understands.
const (
	StepProductVision  = "product_vision"
	StepPersonas       = "personas"
	StepJourneyMap     = "journey_map"
	StepProductMetrics = "product_metrics"
	StepBoundaries     = "boundaries"
	StepFeatureReview  = "feature_review"
	StepExpectedResult = "expected_result"
	StepCostTimeline   = "cost_timeline"
)

type Inception struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	WorkspaceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Type        string          `gorm:"column:type;not null" json:"type"`
	Title       string          `gorm:"column:title;not null" json:"title"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	Status      string          `gorm:"column:status;not null" json:"status"`
	Steps       []InceptionStep `gorm:"constraint:OnDelete:CASCADE;foreignKey:InceptionID;references:ID" json:"steps,omitempty"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

func (Inception) TableName() string { return "inceptions" }

type InceptionStep struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	InceptionID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_inception_step_key,priority:1" json:"inception_id"`
	StepKey     string         `gorm:"column:step_key;not null;uniqueIndex:uq_inception_step_key,priority:2" json:"step_key"`
	Payload     datatypes.JSON `gorm:"column:payload;type:jsonb;not null" json:"payload"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (InceptionStep) TableName() string { return "inception_steps" }
