package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/types"
)

type JourneyRepo interface {
	Create(ctx context.Context, tx *gorm.DB, journeys []*types.UserJourney) ([]*types.UserJourney, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.UserJourney, error)
	ListByPersonaIDs(ctx context.Context, tx *gorm.DB, personaIDs []uuid.UUID) ([]*types.UserJourney, error)
}

type journeyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJourneyRepo(db *gorm.DB, baseLog *logger.Logger) JourneyRepo {
	return &journeyRepo{db: db, log: baseLog.With("repo", "JourneyRepo")}
}

func (jr *journeyRepo) Create(ctx context.Context, tx *gorm.DB, journeys []*types.UserJourney) ([]*types.UserJourney, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}
	if len(journeys) == 0 {
		return []*types.UserJourney{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&journeys).Error; err != nil {
		return nil, err
	}
	return journeys, nil
}

func (jr *journeyRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.UserJourney, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}
	var results []*types.UserJourney
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (jr *journeyRepo) ListByPersonaIDs(ctx context.Context, tx *gorm.DB, personaIDs []uuid.UUID) ([]*types.UserJourney, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}
	var results []*types.UserJourney
	if len(personaIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("persona_id IN ?", personaIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
