package types

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ProblemStatusOpen      = "open"
	ProblemStatusValidated = "validated"
	ProblemStatusDiscarded = "discarded"
)

type Problem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;index" json:"workspace_id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Status      string    `gorm:"column:status;not null" json:"status"`
}

func (Problem) TableName() string { return "problems" }

type Persona struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProblemID *uuid.UUID `gorm:"type:uuid;index" json:"problem_id,omitempty"`
	Name      string     `gorm:"column:name;not null" json:"name"`
	Context   string     `gorm:"column:context;type:text" json:"context"`
	Goal      string     `gorm:"column:goal;type:text" json:"goal"`
	MainPain  string     `gorm:"column:main_pain;type:text" json:"main_pain"`
}

func (Persona) TableName() string { return "personas" }

type UserJourney struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PersonaID uuid.UUID      `gorm:"type:uuid;not null;index" json:"persona_id"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Stages    datatypes.JSON `gorm:"column:stages;type:jsonb;not null" json:"stages"`
}

func (UserJourney) TableName() string { return "user_journeys" }

type ProductOKR struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Objective  string         `gorm:"column:objective;type:text;not null" json:"objective"`
	KeyResults datatypes.JSON `gorm:"column:key_results;type:jsonb;not null" json:"key_results"`
}

func (ProductOKR) TableName() string { return "product_okrs" }
