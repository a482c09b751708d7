package types

import "github.com/google/uuid"

const (
	FeatureStatusTodo  = "todo"
	FeatureStatusDoing = "doing"
	FeatureStatusDone  = "done"

	FeatureComplexityLow    = "low"
	FeatureComplexityMedium = "medium"
	FeatureComplexityHigh   = "high"

	StoryStatusTodo  = "todo"
	StoryStatusDoing = "doing"
	StoryStatusDone  = "done"
)

type Feature struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID        *uuid.UUID `gorm:"type:uuid;index" json:"product_id,omitempty"`
	PersonaID        *uuid.UUID `gorm:"type:uuid;index" json:"persona_id,omitempty"`
	JourneyID        *uuid.UUID `gorm:"type:uuid;index" json:"journey_id,omitempty"`
	Title            string     `gorm:"column:title;not null" json:"title"`
	Description      string     `gorm:"column:description;type:text" json:"description"`
	BusinessValue    string     `gorm:"column:business_value" json:"business_value"`
	Status           string     `gorm:"column:status;not null" json:"status"`
	Complexity       string     `gorm:"column:complexity;not null" json:"complexity"`
	BusinessEstimate *int       `gorm:"column:business_estimate" json:"business_estimate,omitempty"`
	EffortEstimate   *int       `gorm:"column:effort_estimate" json:"effort_estimate,omitempty"`
	UXEstimate       *int       `gorm:"column:ux_estimate" json:"ux_estimate,omitempty"`
}

func (Feature) TableName() string { return "features" }

type Story struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FeatureID          *uuid.UUID `gorm:"type:uuid;index" json:"feature_id,omitempty"`
	WorkspaceID        *uuid.UUID `gorm:"type:uuid;index" json:"workspace_id,omitempty"`
	Title              string     `gorm:"column:title;not null" json:"title"`
	Description        string     `gorm:"column:description;type:text" json:"description"`
	AcceptanceCriteria string     `gorm:"column:acceptance_criteria;type:text" json:"acceptance_criteria"`
	Estimate           *int       `gorm:"column:estimate" json:"estimate,omitempty"`
	Status             string     `gorm:"column:status;not null" json:"status"`
}

func (Story) TableName() string { return "stories" }
