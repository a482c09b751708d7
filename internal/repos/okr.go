package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/types"
)

type OKRRepo interface {
	Create(ctx context.Context, tx *gorm.DB, okrs []*types.ProductOKR) ([]*types.ProductOKR, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.ProductOKR, error)
	ListByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.ProductOKR, error)
}

type okrRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOKRRepo(db *gorm.DB, baseLog *logger.Logger) OKRRepo {
	return &okrRepo{db: db, log: baseLog.With("repo", "OKRRepo")}
}

func (or *okrRepo) Create(ctx context.Context, tx *gorm.DB, okrs []*types.ProductOKR) ([]*types.ProductOKR, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	if len(okrs) == 0 {
		return []*types.ProductOKR{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&okrs).Error; err != nil {
		return nil, err
	}
	return okrs, nil
}

func (or *okrRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.ProductOKR, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var results []*types.ProductOKR
	if err := transaction.WithContext(ctx).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (or *okrRepo) ListByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.ProductOKR, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var results []*types.ProductOKR
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
