package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProductBlueprint is the point-in-time snapshot published from an
// inception. Only Vision and Boundaries may be updated afterwards,
// through the product detail endpoint.
type ProductBlueprint struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"product_id"`
	SourceInceptionID *uuid.UUID     `gorm:"type:uuid;index" json:"source_inception_id,omitempty"`
	Vision            string         `gorm:"column:vision;type:text" json:"vision"`
	Boundaries        datatypes.JSON `gorm:"column:boundaries;type:jsonb" json:"boundaries"`
	Personas          datatypes.JSON `gorm:"column:personas;type:jsonb" json:"personas"`
	Journeys          datatypes.JSON `gorm:"column:journeys;type:jsonb" json:"journeys"`
	Metrics           datatypes.JSON `gorm:"column:metrics;type:jsonb" json:"metrics"`
	Features          datatypes.JSON `gorm:"column:features;type:jsonb" json:"features"`
	Roadmap           datatypes.JSON `gorm:"column:roadmap;type:jsonb" json:"roadmap"`
	ExpectedResult    string         `gorm:"column:expected_result;type:text" json:"expected_result"`
	CostTimeline      datatypes.JSON `gorm:"column:cost_timeline;type:jsonb" json:"cost_timeline"`
	CreatedAt         time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null" json:"updated_at"`
}

func (ProductBlueprint) TableName() string { return "product_blueprints" }
