package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/types"
)

type WorkspaceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, workspaces []*types.Workspace) ([]*types.Workspace, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, workspaceIDs []uuid.UUID) ([]*types.Workspace, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Workspace, error)
	AddMembers(ctx context.Context, tx *gorm.DB, members []*types.WorkspaceMember) error
}

type workspaceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkspaceRepo(db *gorm.DB, baseLog *logger.Logger) WorkspaceRepo {
	return &workspaceRepo{db: db, log: baseLog.With("repo", "WorkspaceRepo")}
}

func (wr *workspaceRepo) Create(ctx context.Context, tx *gorm.DB, workspaces []*types.Workspace) ([]*types.Workspace, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	if len(workspaces) == 0 {
		return []*types.Workspace{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&workspaces).Error; err != nil {
		return nil, err
	}
	return workspaces, nil
}

func (wr *workspaceRepo) GetByIDs(ctx context.Context, tx *gorm.DB, workspaceIDs []uuid.UUID) ([]*types.Workspace, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	var results []*types.Workspace
	if len(workspaceIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", workspaceIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (wr *workspaceRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Workspace, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	var results []*types.Workspace
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (wr *workspaceRepo) AddMembers(ctx context.Context, tx *gorm.DB, members []*types.WorkspaceMember) error {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	if len(members) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&members).Error
}
