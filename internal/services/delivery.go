package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discoveros/backend/internal/platform/apierr"
	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/repos"
	"github.com/discoveros/backend/internal/types"
)

type DeliveryService interface {
	CreateFeature(ctx context.Context, tx *gorm.DB, feature *types.Feature) (*types.Feature, error)
	ListFeatures(ctx context.Context, tx *gorm.DB) ([]*types.Feature, error)
	CreateStory(ctx context.Context, tx *gorm.DB, story *types.Story) (*types.Story, error)
	ListStories(ctx context.Context, tx *gorm.DB) ([]*types.Story, error)
}

type deliveryService struct {
	db          *gorm.DB
	log         *logger.Logger
	featureRepo repos.FeatureRepo
	storyRepo   repos.StoryRepo
}

func NewDeliveryService(db *gorm.DB, baseLog *logger.Logger, featureRepo repos.FeatureRepo, storyRepo repos.StoryRepo) DeliveryService {
	return &deliveryService{
		db:          db,
		log:         baseLog.With("service", "DeliveryService"),
		featureRepo: featureRepo,
		storyRepo:   storyRepo,
	}
}

func (ds *deliveryService) CreateFeature(ctx context.Context, tx *gorm.DB, feature *types.Feature) (*types.Feature, error) {
	if strings.TrimSpace(feature.Title) == "" {
		return nil, apierr.Invalid("feature title is required")
	}
	feature.ID = uuid.New()
	if feature.Status == "" {
		feature.Status = types.FeatureStatusTodo
	}
	if feature.Complexity == "" {
		feature.Complexity = types.FeatureComplexityMedium
	}
	if _, err := ds.featureRepo.Create(ctx, tx, []*types.Feature{feature}); err != nil {
		return nil, apierr.Invalid("create feature: %v", err)
	}
	return feature, nil
}

func (ds *deliveryService) ListFeatures(ctx context.Context, tx *gorm.DB) ([]*types.Feature, error) {
	return ds.featureRepo.List(ctx, tx)
}

func (ds *deliveryService) CreateStory(ctx context.Context, tx *gorm.DB, story *types.Story) (*types.Story, error) {
	if strings.TrimSpace(story.Title) == "" {
		return nil, apierr.Invalid("story title is required")
	}
	story.ID = uuid.New()
	if story.Status == "" {
		story.Status = types.StoryStatusTodo
	}
	if _, err := ds.storyRepo.Create(ctx, tx, []*types.Story{story}); err != nil {
		return nil, apierr.Invalid("create story: %v", err)
	}
	return story, nil
}

func (ds *deliveryService) ListStories(ctx context.Context, tx *gorm.DB) ([]*types.Story, error) {
	return ds.storyRepo.List(ctx, tx)
}
