package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/types"
)

type StoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, stories []*types.Story) ([]*types.Story, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Story, error)
}

type storyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStoryRepo(db *gorm.DB, baseLog *logger.Logger) StoryRepo {
	return &storyRepo{db: db, log: baseLog.With("repo", "StoryRepo")}
}

func (sr *storyRepo) Create(ctx context.Context, tx *gorm.DB, stories []*types.Story) ([]*types.Story, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(stories) == 0 {
		return []*types.Story{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&stories).Error; err != nil {
		return nil, err
	}
	return stories, nil
}

func (sr *storyRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Story, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Story
	if err := transaction.WithContext(ctx).
		Order("title ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
