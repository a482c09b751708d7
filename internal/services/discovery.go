package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discoveros/backend/internal/platform/apierr"
	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/repos"
	"github.com/discoveros/backend/internal/types"
)

type DiscoveryService interface {
	CreateProblem(ctx context.Context, tx *gorm.DB, problem *types.Problem) (*types.Problem, error)
	ListProblems(ctx context.Context, tx *gorm.DB) ([]*types.Problem, error)
	CreatePersona(ctx context.Context, tx *gorm.DB, persona *types.Persona) (*types.Persona, error)
	ListPersonas(ctx context.Context, tx *gorm.DB) ([]*types.Persona, error)
	CreateJourney(ctx context.Context, tx *gorm.DB, personaID uuid.UUID, name string, stages []string) (*types.UserJourney, error)
	ListJourneys(ctx context.Context) ([]*types.UserJourney, error)
	CreateOKR(ctx context.Context, tx *gorm.DB, productID uuid.UUID, objective string, keyResults []string) (*types.ProductOKR, error)
	ListOKRs(ctx context.Context, productID *uuid.UUID) ([]*types.ProductOKR, error)
}

type discoveryService struct {
	db          *gorm.DB
	log         *logger.Logger
	problemRepo repos.ProblemRepo
	personaRepo repos.PersonaRepo
	journeyRepo repos.JourneyRepo
	okrRepo     repos.OKRRepo
	productRepo repos.ProductRepo
	backfill    BackfillService
}

func NewDiscoveryService(
	db *gorm.DB,
	baseLog *logger.Logger,
	problemRepo repos.ProblemRepo,
	personaRepo repos.PersonaRepo,
	journeyRepo repos.JourneyRepo,
	okrRepo repos.OKRRepo,
	productRepo repos.ProductRepo,
	backfill BackfillService,
) DiscoveryService {
	return &discoveryService{
		db:          db,
		log:         baseLog.With("service", "DiscoveryService"),
		problemRepo: problemRepo,
		personaRepo: personaRepo,
		journeyRepo: journeyRepo,
		okrRepo:     okrRepo,
		productRepo: productRepo,
		backfill:    backfill,
	}
}

func (ds *discoveryService) CreateProblem(ctx context.Context, tx *gorm.DB, problem *types.Problem) (*types.Problem, error) {
	if strings.TrimSpace(problem.Title) == "" {
		return nil, apierr.Invalid("problem title is required")
	}
	problem.ID = uuid.New()
	if problem.Status == "" {
		problem.Status = types.ProblemStatusOpen
	}
	if _, err := ds.problemRepo.Create(ctx, tx, []*types.Problem{problem}); err != nil {
		return nil, apierr.Invalid("create problem: %v", err)
	}
	return problem, nil
}

func (ds *discoveryService) ListProblems(ctx context.Context, tx *gorm.DB) ([]*types.Problem, error) {
	return ds.problemRepo.List(ctx, tx)
}

func (ds *discoveryService) CreatePersona(ctx context.Context, tx *gorm.DB, persona *types.Persona) (*types.Persona, error) {
	if strings.TrimSpace(persona.Name) == "" {
		return nil, apierr.Invalid("persona name is required")
	}
	persona.ID = uuid.New()
	if _, err := ds.personaRepo.Create(ctx, tx, []*types.Persona{persona}); err != nil {
		return nil, apierr.Invalid("create persona: %v", err)
	}
	return persona, nil
}

func (ds *discoveryService) ListPersonas(ctx context.Context, tx *gorm.DB) ([]*types.Persona, error) {
	return ds.personaRepo.List(ctx, tx)
}

func (ds *discoveryService) CreateJourney(ctx context.Context, tx *gorm.DB, personaID uuid.UUID, name string, stages []string) (*types.UserJourney, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.Invalid("journey name is required")
	}
	personas, err := ds.personaRepo.GetByIDs(ctx, tx, []uuid.UUID{personaID})
	if err != nil {
		return nil, err
	}
	if len(personas) == 0 {
		return nil, apierr.NotFound("persona %s not found", personaID)
	}
	if stages == nil {
		stages = []string{}
	}
	raw, err := json.Marshal(stages)
	if err != nil {
		return nil, apierr.Invalid("encode stages: %v", err)
	}
	journey := &types.UserJourney{
		ID:        uuid.New(),
		PersonaID: personaID,
		Name:      name,
		Stages:    raw,
	}
	if _, err := ds.journeyRepo.Create(ctx, tx, []*types.UserJourney{journey}); err != nil {
		return nil, apierr.Invalid("create journey: %v", err)
	}
	return journey, nil
}

// ListJourneys runs the journey backfill before reading. A backfill
// failure is logged and the read proceeds with whatever exists.
func (ds *discoveryService) ListJourneys(ctx context.Context) ([]*types.UserJourney, error) {
	if err := ds.backfill.BackfillJourneys(ctx); err != nil {
		ds.log.Warn("journey backfill failed; serving unrepaired data", "error", err)
	}
	return ds.journeyRepo.List(ctx, nil)
}

func (ds *discoveryService) CreateOKR(ctx context.Context, tx *gorm.DB, productID uuid.UUID, objective string, keyResults []string) (*types.ProductOKR, error) {
	objective = strings.TrimSpace(objective)
	if objective == "" {
		return nil, apierr.Invalid("okr objective is required")
	}
	products, err := ds.productRepo.GetByIDs(ctx, tx, []uuid.UUID{productID})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, apierr.NotFound("product %s not found", productID)
	}
	if keyResults == nil {
		keyResults = []string{}
	}
	raw, err := json.Marshal(keyResults)
	if err != nil {
		return nil, apierr.Invalid("encode key results: %v", err)
	}
	okr := &types.ProductOKR{
		ID:         uuid.New(),
		ProductID:  productID,
		Objective:  objective,
		KeyResults: raw,
	}
	if _, err := ds.okrRepo.Create(ctx, tx, []*types.ProductOKR{okr}); err != nil {
		return nil, apierr.Invalid("create okr: %v", err)
	}
	return okr, nil
}

// ListOKRs runs the OKR backfill for the requested product scope
// before reading.
func (ds *discoveryService) ListOKRs(ctx context.Context, productID *uuid.UUID) ([]*types.ProductOKR, error) {
	if err := ds.backfill.BackfillOKRs(ctx, productID); err != nil {
		ds.log.Warn("okr backfill failed; serving unrepaired data", "error", err)
	}
	if productID != nil {
		return ds.okrRepo.ListByProductIDs(ctx, nil, []uuid.UUID{*productID})
	}
	return ds.okrRepo.List(ctx, nil)
}
