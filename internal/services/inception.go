package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/discoveros/backend/internal/platform/apierr"
	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/repos"
	"github.com/discoveros/backend/internal/types"
)

type PublishResult struct {
	ProductID   uuid.UUID `json:"product_id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Name        string    `json:"name"`
	BlueprintID uuid.UUID `json:"blueprint_id"`
}

type InceptionService interface {
	CreateInception(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID, inceptionType, title, description string) (*types.Inception, error)
	ListInceptions(ctx context.Context, tx *gorm.DB, filter repos.InceptionListFilter) ([]*types.Inception, error)
	GetInception(ctx context.Context, tx *gorm.DB, inceptionID uuid.UUID) (*types.Inception, error)
	DeleteInception(ctx context.Context, inceptionID uuid.UUID) error
	UpsertStep(ctx context.Context, tx *gorm.DB, inceptionID uuid.UUID, stepKey string, payload datatypes.JSON) (*types.InceptionStep, error)
	GetStep(ctx context.Context, tx *gorm.DB, inceptionID uuid.UUID, stepKey string) (*types.InceptionStep, error)
	ListSteps(ctx context.Context, tx *gorm.DB, inceptionID uuid.UUID) ([]*types.InceptionStep, error)
	PublishProduct(ctx context.Context, inceptionID uuid.UUID, requestedName string) (*PublishResult, error)
}

type inceptionService struct {
	db            *gorm.DB
	log           *logger.Logger
	inceptionRepo repos.InceptionRepo
	stepRepo      repos.InceptionStepRepo
	personaRepo   repos.PersonaRepo
	productRepo   repos.ProductRepo
	blueprintRepo repos.BlueprintRepo
	okrRepo       repos.OKRRepo
	journeyRepo   repos.JourneyRepo
}

func NewInceptionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	inceptionRepo repos.InceptionRepo,
	stepRepo repos.InceptionStepRepo,
	personaRepo repos.PersonaRepo,
	productRepo repos.ProductRepo,
	blueprintRepo repos.BlueprintRepo,
	okrRepo repos.OKRRepo,
	journeyRepo repos.JourneyRepo,
) InceptionService {
	return &inceptionService{
		db:            db,
		log:           baseLog.With("service", "InceptionService"),
		inceptionRepo: inceptionRepo,
		stepRepo:      stepRepo,
		personaRepo:   personaRepo,
		productRepo:   productRepo,
		blueprintRepo: blueprintRepo,
		okrRepo:       okrRepo,
		journeyRepo:   journeyRepo,
	}
}

func (is *inceptionService) CreateInception(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID, inceptionType, title, description string) (*types.Inception, error) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(inceptionType) == "" {
		return nil, apierr.Invalid("inception requires a type or title")
	}
	now := time.Now()
	inception := &types.Inception{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Type:        inceptionType,
		Title:       title,
		Description: description,
		Status:      types.InceptionStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := is.inceptionRepo.Create(ctx, tx, []*types.Inception{inception}); err != nil {
		is.log.Error("CreateInception failed", "error", err)
		return nil, apierr.Invalid("create inception: %v", err)
	}
	return inception, nil
}

func (is *inceptionService) ListInceptions(ctx context.Context, tx *gorm.DB, filter repos.InceptionListFilter) ([]*types.Inception, error) {
	return is.inceptionRepo.List(ctx, tx, filter)
}

func (is *inceptionService) GetInception(ctx context.Context, tx *gorm.DB, inceptionID uuid.UUID) (*types.Inception, error) {
	inception, err := is.loadInception(ctx, tx, inceptionID)
	if err != nil {
		return nil, err
	}
	steps, err := is.stepRepo.ListByInceptionIDs(ctx, tx, []uuid.UUID{inceptionID})
	if err != nil {
		return nil, err
	}
	inception.Steps = make([]types.InceptionStep, 0, len(steps))
	for _, s := range steps {
		inception.Steps = append(inception.Steps, *s)
	}
	return inception, nil
}

func (is *inceptionService) DeleteInception(ctx context.Context, inceptionID uuid.UUID) error {
	return is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := is.loadInception(ctx, tx, inceptionID); err != nil {
			return err
		}
		return is.inceptionRepo.Delete(ctx, tx, inceptionID)
	})
}

func (is *inceptionService) UpsertStep(ctx context.Context, tx *gorm.DB, inceptionID uuid.UUID, stepKey string, payload datatypes.JSON) (*types.InceptionStep, error) {
	stepKey = strings.TrimSpace(stepKey)
	if stepKey == "" {
		return nil, apierr.Invalid("step key is required")
	}
	if len(payload) == 0 {
		payload = datatypes.JSON([]byte("{}"))
	}
	if !json.Valid(payload) {
		return nil, apierr.Invalid("step payload must be a JSON document")
	}

	inception, err := is.loadInception(ctx, tx, inceptionID)
	if err != nil {
		return nil, err
	}
	if inception.Status == types.InceptionStatusArchived {
		return nil, apierr.Conflict("inception %s is archived; steps are frozen", inceptionID)
	}

	existing, err := is.stepRepo.GetByKey(ctx, tx, inceptionID, stepKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := is.stepRepo.UpdatePayload(ctx, tx, existing.ID, payload); err != nil {
			return nil, apierr.Invalid("update step payload: %v", err)
		}
		existing.Payload = payload
		existing.UpdatedAt = time.Now()
		return existing, nil
	}

	now := time.Now()
	step := &types.InceptionStep{
		ID:          uuid.New(),
		InceptionID: inceptionID,
		StepKey:     stepKey,
		Payload:     payload,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := is.stepRepo.Create(ctx, tx, []*types.InceptionStep{step}); err != nil {
		return nil, apierr.Invalid("create step: %v", err)
	}
	return step, nil
}

func (is *inceptionService) GetStep(ctx context.Context, tx *gorm.DB, inceptionID uuid.UUID, stepKey string) (*types.InceptionStep, error) {
	if _, err := is.loadInception(ctx, tx, inceptionID); err != nil {
		return nil, err
	}
	step, err := is.stepRepo.GetByKey(ctx, tx, inceptionID, stepKey)
	if err != nil {
		return nil, err
	}
	if step == nil {
		return nil, apierr.NotFound("step %q not found for inception %s", stepKey, inceptionID)
	}
	return step, nil
}

func (is *inceptionService) ListSteps(ctx context.Context, tx *gorm.DB, inceptionID uuid.UUID) ([]*types.InceptionStep, error) {
	if _, err := is.loadInception(ctx, tx, inceptionID); err != nil {
		return nil, err
	}
	return is.stepRepo.ListByInceptionIDs(ctx, tx, []uuid.UUID{inceptionID})
}

// PublishProduct materializes the inception's steps into a product,
// its blueprint and the derived OKR and journey rows, then archives
// the inception. Everything happens in one transaction; a failed
// publish leaves the inception active and no partial rows behind.
func (is *inceptionService) PublishProduct(ctx context.Context, inceptionID uuid.UUID, requestedName string) (*PublishResult, error) {
	var result *PublishResult
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inception, err := is.loadInception(ctx, tx, inceptionID)
		if err != nil {
			return err
		}
		if inception.Status == types.InceptionStatusArchived {
			return apierr.Conflict("inception %s is already published", inceptionID)
		}

		steps, err := is.stepRepo.ListByInceptionIDs(ctx, tx, []uuid.UUID{inceptionID})
		if err != nil {
			return err
		}
		stepMap := make(map[string]datatypes.JSON, len(steps))
		for _, s := range steps {
			stepMap[s.StepKey] = s.Payload
		}

		draft, err := SynthesizeBlueprint(ctx, stepMap, func(ctx context.Context, ids []uuid.UUID) ([]*types.Persona, error) {
			return is.personaRepo.GetByIDs(ctx, tx, ids)
		})
		if err != nil {
			return err
		}

		name := resolveProductName(requestedName, draft.ProductName, inception.Title)
		if name == "" {
			return apierr.Invalid("no product name in request, vision step or inception title")
		}

		product := &types.WorkspaceProduct{
			ID:          uuid.New(),
			WorkspaceID: inception.WorkspaceID,
			Name:        name,
			Description: draft.Vision,
			Status:      types.ProductStatusActive,
			CreatedAt:   time.Now(),
		}
		if _, err := is.productRepo.Create(ctx, tx, []*types.WorkspaceProduct{product}); err != nil {
			return apierr.Invalid("create product: %v", err)
		}

		blueprint, err := is.buildBlueprintRow(product.ID, inception.ID, draft)
		if err != nil {
			return err
		}
		if _, err := is.blueprintRepo.Create(ctx, tx, []*types.ProductBlueprint{blueprint}); err != nil {
			return apierr.Invalid("create blueprint: %v", err)
		}

		okrs := make([]*types.ProductOKR, 0, len(draft.OKRs))
		for _, d := range draft.OKRs {
			keyResults, err := json.Marshal(d.KeyResults)
			if err != nil {
				return apierr.Invalid("encode key results: %v", err)
			}
			okrs = append(okrs, &types.ProductOKR{
				ID:         uuid.New(),
				ProductID:  product.ID,
				Objective:  d.Objective,
				KeyResults: keyResults,
			})
		}
		if _, err := is.okrRepo.Create(ctx, tx, okrs); err != nil {
			return apierr.Invalid("create okrs: %v", err)
		}

		if err := is.mirrorJourneys(ctx, tx, draft); err != nil {
			return err
		}

		if err := is.inceptionRepo.UpdateStatus(ctx, tx, inception.ID, types.InceptionStatusArchived); err != nil {
			return fmt.Errorf("archive inception: %w", err)
		}

		result = &PublishResult{
			ProductID:   product.ID,
			WorkspaceID: inception.WorkspaceID,
			Name:        name,
			BlueprintID: blueprint.ID,
		}
		return nil
	})
	if err != nil {
		is.log.Error("PublishProduct failed", "error", err, "inception_id", inceptionID)
		return nil, err
	}
	is.log.Info("Published product from inception", "inception_id", inceptionID, "product_id", result.ProductID)
	return result, nil
}

// mirrorJourneys promotes synthesized journeys whose persona is part
// of the snapshot into first-class rows, skipping any (persona, name)
// pair already present. Name comparison is case-insensitive.
func (is *inceptionService) mirrorJourneys(ctx context.Context, tx *gorm.DB, draft *BlueprintDraft) error {
	snapshotIDs := make(map[uuid.UUID]bool, len(draft.Personas))
	personaIDs := make([]uuid.UUID, 0, len(draft.Personas))
	for _, p := range draft.Personas {
		snapshotIDs[p.ID] = true
		personaIDs = append(personaIDs, p.ID)
	}
	if len(personaIDs) == 0 {
		return nil
	}
	existing, err := is.journeyRepo.ListByPersonaIDs(ctx, tx, personaIDs)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(existing))
	for _, j := range existing {
		seen[journeyKey(j.PersonaID, j.Name)] = true
	}

	var rows []*types.UserJourney
	for _, j := range draft.Journeys {
		if j.Name == "" || j.PersonaID == nil {
			continue
		}
		personaID, err := uuid.Parse(*j.PersonaID)
		if err != nil || !snapshotIDs[personaID] {
			continue
		}
		key := journeyKey(personaID, j.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		stages, err := json.Marshal(j.Stages)
		if err != nil {
			return apierr.Invalid("encode journey stages: %v", err)
		}
		rows = append(rows, &types.UserJourney{
			ID:        uuid.New(),
			PersonaID: personaID,
			Name:      j.Name,
			Stages:    stages,
		})
	}
	if _, err := is.journeyRepo.Create(ctx, tx, rows); err != nil {
		return apierr.Invalid("create journeys: %v", err)
	}
	return nil
}

func (is *inceptionService) buildBlueprintRow(productID, inceptionID uuid.UUID, draft *BlueprintDraft) (*types.ProductBlueprint, error) {
	marshal := func(v interface{}) (datatypes.JSON, error) {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, apierr.Invalid("encode blueprint snapshot: %v", err)
		}
		return raw, nil
	}
	boundaries, err := marshal(draft.Boundaries)
	if err != nil {
		return nil, err
	}
	personas, err := marshal(draft.Personas)
	if err != nil {
		return nil, err
	}
	journeys, err := marshal(draft.Journeys)
	if err != nil {
		return nil, err
	}
	metrics, err := marshal(draft.Metrics)
	if err != nil {
		return nil, err
	}
	features, err := marshal(draft.Features)
	if err != nil {
		return nil, err
	}
	roadmap, err := marshal(draft.Roadmap)
	if err != nil {
		return nil, err
	}
	costTimeline, err := marshal(draft.CostTimeline)
	if err != nil {
		return nil, err
	}
	sourceID := inceptionID
	now := time.Now()
	return &types.ProductBlueprint{
		ID:                uuid.New(),
		ProductID:         productID,
		SourceInceptionID: &sourceID,
		Vision:            draft.Vision,
		Boundaries:        boundaries,
		Personas:          personas,
		Journeys:          journeys,
		Metrics:           metrics,
		Features:          features,
		Roadmap:           roadmap,
		ExpectedResult:    draft.ExpectedResult,
		CostTimeline:      costTimeline,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (is *inceptionService) loadInception(ctx context.Context, tx *gorm.DB, inceptionID uuid.UUID) (*types.Inception, error) {
	inceptions, err := is.inceptionRepo.GetByIDs(ctx, tx, []uuid.UUID{inceptionID})
	if err != nil {
		return nil, err
	}
	if len(inceptions) == 0 || inceptions[0] == nil {
		return nil, apierr.NotFound("inception %s not found", inceptionID)
	}
	return inceptions[0], nil
}

func resolveProductName(candidates ...string) string {
	for _, c := range candidates {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func journeyKey(personaID uuid.UUID, name string) string {
	return personaID.String() + "|" + strings.ToLower(strings.TrimSpace(name))
}
