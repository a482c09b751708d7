package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/types"
)

type BlueprintRepo interface {
	Create(ctx context.Context, tx *gorm.DB, blueprints []*types.ProductBlueprint) ([]*types.ProductBlueprint, error)
	GetByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.ProductBlueprint, error)
	ListWithJourneys(ctx context.Context, tx *gorm.DB) ([]*types.ProductBlueprint, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.ProductBlueprint, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, blueprintID uuid.UUID, fields map[string]interface{}) error
}

type blueprintRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBlueprintRepo(db *gorm.DB, baseLog *logger.Logger) BlueprintRepo {
	return &blueprintRepo{db: db, log: baseLog.With("repo", "BlueprintRepo")}
}

func (br *blueprintRepo) Create(ctx context.Context, tx *gorm.DB, blueprints []*types.ProductBlueprint) ([]*types.ProductBlueprint, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	if len(blueprints) == 0 {
		return []*types.ProductBlueprint{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&blueprints).Error; err != nil {
		return nil, err
	}
	return blueprints, nil
}

func (br *blueprintRepo) GetByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.ProductBlueprint, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	var results []*types.ProductBlueprint
	if len(productIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (br *blueprintRepo) ListWithJourneys(ctx context.Context, tx *gorm.DB) ([]*types.ProductBlueprint, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	var results []*types.ProductBlueprint
	if err := transaction.WithContext(ctx).
		Where("journeys IS NOT NULL").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (br *blueprintRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.ProductBlueprint, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	var results []*types.ProductBlueprint
	if err := transaction.WithContext(ctx).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (br *blueprintRepo) UpdateFields(ctx context.Context, tx *gorm.DB, blueprintID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.ProductBlueprint{}).
		Where("id = ?", blueprintID).
		Updates(fields).Error
}
