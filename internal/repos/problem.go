package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/types"
)

type ProblemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, problems []*types.Problem) ([]*types.Problem, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Problem, error)
}

type problemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProblemRepo(db *gorm.DB, baseLog *logger.Logger) ProblemRepo {
	return &problemRepo{db: db, log: baseLog.With("repo", "ProblemRepo")}
}

func (pr *problemRepo) Create(ctx context.Context, tx *gorm.DB, problems []*types.Problem) ([]*types.Problem, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(problems) == 0 {
		return []*types.Problem{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&problems).Error; err != nil {
		return nil, err
	}
	return problems, nil
}

func (pr *problemRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Problem, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Problem
	if err := transaction.WithContext(ctx).
		Order("title ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
