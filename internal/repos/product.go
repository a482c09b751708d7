package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/types"
)

type ProductRepo interface {
	Create(ctx context.Context, tx *gorm.DB, products []*types.WorkspaceProduct) ([]*types.WorkspaceProduct, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.WorkspaceProduct, error)
	ListByWorkspaceIDs(ctx context.Context, tx *gorm.DB, workspaceIDs []uuid.UUID) ([]*types.WorkspaceProduct, error)
	UpdateDescription(ctx context.Context, tx *gorm.DB, productID uuid.UUID, description string) error
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return &productRepo{db: db, log: baseLog.With("repo", "ProductRepo")}
}

func (pr *productRepo) Create(ctx context.Context, tx *gorm.DB, products []*types.WorkspaceProduct) ([]*types.WorkspaceProduct, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(products) == 0 {
		return []*types.WorkspaceProduct{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (pr *productRepo) GetByIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.WorkspaceProduct, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.WorkspaceProduct
	if len(productIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *productRepo) ListByWorkspaceIDs(ctx context.Context, tx *gorm.DB, workspaceIDs []uuid.UUID) ([]*types.WorkspaceProduct, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.WorkspaceProduct
	if len(workspaceIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("workspace_id IN ?", workspaceIDs).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *productRepo) UpdateDescription(ctx context.Context, tx *gorm.DB, productID uuid.UUID, description string) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.WorkspaceProduct{}).
		Where("id = ?", productID).
		Update("description", description).Error
}
