package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/types"
)

type PersonaRepo interface {
	Create(ctx context.Context, tx *gorm.DB, personas []*types.Persona) ([]*types.Persona, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, personaIDs []uuid.UUID) ([]*types.Persona, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Persona, error)
}

type personaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPersonaRepo(db *gorm.DB, baseLog *logger.Logger) PersonaRepo {
	return &personaRepo{db: db, log: baseLog.With("repo", "PersonaRepo")}
}

func (pr *personaRepo) Create(ctx context.Context, tx *gorm.DB, personas []*types.Persona) ([]*types.Persona, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(personas) == 0 {
		return []*types.Persona{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&personas).Error; err != nil {
		return nil, err
	}
	return personas, nil
}

func (pr *personaRepo) GetByIDs(ctx context.Context, tx *gorm.DB, personaIDs []uuid.UUID) ([]*types.Persona, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Persona
	if len(personaIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", personaIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *personaRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Persona, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Persona
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
