package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/types"
)

type FeatureRepo interface {
	Create(ctx context.Context, tx *gorm.DB, features []*types.Feature) ([]*types.Feature, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Feature, error)
}

type featureRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeatureRepo(db *gorm.DB, baseLog *logger.Logger) FeatureRepo {
	return &featureRepo{db: db, log: baseLog.With("repo", "FeatureRepo")}
}

func (fr *featureRepo) Create(ctx context.Context, tx *gorm.DB, features []*types.Feature) ([]*types.Feature, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if len(features) == 0 {
		return []*types.Feature{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&features).Error; err != nil {
		return nil, err
	}
	return features, nil
}

func (fr *featureRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Feature, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.Feature
	if err := transaction.WithContext(ctx).
		Order("title ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
