package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/types"
)

type InceptionStepRepo interface {
	Create(ctx context.Context, tx *gorm.DB, steps []*types.InceptionStep) ([]*types.InceptionStep, error)
	GetByKey(ctx context.Context, tx *gorm.DB, inceptionID uuid.UUID, stepKey string) (*types.InceptionStep, error)
	ListByInceptionIDs(ctx context.Context, tx *gorm.DB, inceptionIDs []uuid.UUID) ([]*types.InceptionStep, error)
	UpdatePayload(ctx context.Context, tx *gorm.DB, stepID uuid.UUID, payload []byte) error
}

type inceptionStepRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInceptionStepRepo(db *gorm.DB, baseLog *logger.Logger) InceptionStepRepo {
	return &inceptionStepRepo{db: db, log: baseLog.With("repo", "InceptionStepRepo")}
}

func (sr *inceptionStepRepo) Create(ctx context.Context, tx *gorm.DB, steps []*types.InceptionStep) ([]*types.InceptionStep, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(steps) == 0 {
		return []*types.InceptionStep{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&steps).Error; err != nil {
		return nil, err
	}
	return steps, nil
}

func (sr *inceptionStepRepo) GetByKey(ctx context.Context, tx *gorm.DB, inceptionID uuid.UUID, stepKey string) (*types.InceptionStep, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.InceptionStep
	if err := transaction.WithContext(ctx).
		Where("inception_id = ? AND step_key = ?", inceptionID, stepKey).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (sr *inceptionStepRepo) ListByInceptionIDs(ctx context.Context, tx *gorm.DB, inceptionIDs []uuid.UUID) ([]*types.InceptionStep, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.InceptionStep
	if len(inceptionIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("inception_id IN ?", inceptionIDs).
		Order("step_key ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *inceptionStepRepo) UpdatePayload(ctx context.Context, tx *gorm.DB, stepID uuid.UUID, payload []byte) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.InceptionStep{}).
		Where("id = ?", stepID).
		Update("payload", payload).Error
}
