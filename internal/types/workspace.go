package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProductStatusActive   = "active"
	ProductStatusArchived = "archived"
)

type Workspace struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;uniqueIndex;not null" json:"name"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner     *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:OwnerID;references:ID" json:"owner,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Workspace) TableName() string { return "workspaces" }

type WorkspaceMember struct {
	WorkspaceID uuid.UUID `gorm:"type:uuid;primaryKey" json:"workspace_id"`
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (WorkspaceMember) TableName() string { return "workspace_members" }

type WorkspaceProduct struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	Status      string    `gorm:"column:status;not null" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (WorkspaceProduct) TableName() string { return "workspace_products" }
