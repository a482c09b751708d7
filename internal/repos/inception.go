package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/types"
)

type InceptionListFilter struct {
	Type            string
	IncludeArchived bool
}

type InceptionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, inceptions []*types.Inception) ([]*types.Inception, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, inceptionIDs []uuid.UUID) ([]*types.Inception, error)
	List(ctx context.Context, tx *gorm.DB, filter InceptionListFilter) ([]*types.Inception, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, inceptionID uuid.UUID, status string) error
	Delete(ctx context.Context, tx *gorm.DB, inceptionID uuid.UUID) error
}

type inceptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInceptionRepo(db *gorm.DB, baseLog *logger.Logger) InceptionRepo {
	return &inceptionRepo{db: db, log: baseLog.With("repo", "InceptionRepo")}
}

func (ir *inceptionRepo) Create(ctx context.Context, tx *gorm.DB, inceptions []*types.Inception) ([]*types.Inception, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	if len(inceptions) == 0 {
		return []*types.Inception{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&inceptions).Error; err != nil {
		return nil, err
	}
	return inceptions, nil
}

func (ir *inceptionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, inceptionIDs []uuid.UUID) ([]*types.Inception, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var results []*types.Inception
	if len(inceptionIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", inceptionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *inceptionRepo) List(ctx context.Context, tx *gorm.DB, filter InceptionListFilter) ([]*types.Inception, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	query := transaction.WithContext(ctx).Model(&types.Inception{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if !filter.IncludeArchived {
		query = query.Where("status <> ?", types.InceptionStatusArchived)
	}
	var results []*types.Inception
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *inceptionRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, inceptionID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Inception{}).
		Where("id = ?", inceptionID).
		Update("status", status).Error
}

func (ir *inceptionRepo) Delete(ctx context.Context, tx *gorm.DB, inceptionID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	// Steps cascade through the FK; delete them explicitly as well so
	// sqlite-backed tests without FK enforcement behave the same way.
	if err := transaction.WithContext(ctx).
		Where("inception_id = ?", inceptionID).
		Delete(&types.InceptionStep{}).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).
		Where("id = ?", inceptionID).
		Delete(&types.Inception{}).Error
}
