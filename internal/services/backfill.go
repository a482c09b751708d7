package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/repos"
	"github.com/discoveros/backend/internal/types"
)

// BackfillService lazily repairs relational rows that older blueprints
// predate. Every operation is idempotent (natural-key dedup before
// insert) and skips malformed items instead of failing; callers run it
// on read paths and must not let it break the read.
type BackfillService interface {
	BackfillJourneys(ctx context.Context) error
	BackfillOKRs(ctx context.Context, productID *uuid.UUID) error
	BackfillBoundaries(ctx context.Context, blueprint *types.ProductBlueprint) error
}

type backfillService struct {
	db            *gorm.DB
	log           *logger.Logger
	blueprintRepo repos.BlueprintRepo
	personaRepo   repos.PersonaRepo
	journeyRepo   repos.JourneyRepo
	okrRepo       repos.OKRRepo
	stepRepo      repos.InceptionStepRepo
}

func NewBackfillService(
	db *gorm.DB,
	baseLog *logger.Logger,
	blueprintRepo repos.BlueprintRepo,
	personaRepo repos.PersonaRepo,
	journeyRepo repos.JourneyRepo,
	okrRepo repos.OKRRepo,
	stepRepo repos.InceptionStepRepo,
) BackfillService {
	return &backfillService{
		db:            db,
		log:           baseLog.With("service", "BackfillService"),
		blueprintRepo: blueprintRepo,
		personaRepo:   personaRepo,
		journeyRepo:   journeyRepo,
		okrRepo:       okrRepo,
		stepRepo:      stepRepo,
	}
}

// BackfillJourneys promotes journey snapshots from every blueprint into
// user_journeys rows for personas that still exist, unless a row with
// the same (persona, lower-cased name) is already present.
func (bs *backfillService) BackfillJourneys(ctx context.Context) error {
	blueprints, err := bs.blueprintRepo.ListWithJourneys(ctx, nil)
	if err != nil {
		return err
	}
	for _, bp := range blueprints {
		drafts := decodeJourneySnapshot(bp.Journeys)
		if len(drafts) == 0 {
			continue
		}
		candidateIDs := make([]uuid.UUID, 0, len(drafts))
		for _, d := range drafts {
			if d.PersonaID == nil || d.Name == "" {
				continue
			}
			id, err := uuid.Parse(*d.PersonaID)
			if err != nil {
				continue
			}
			candidateIDs = append(candidateIDs, id)
		}
		if len(candidateIDs) == 0 {
			continue
		}
		personas, err := bs.personaRepo.GetByIDs(ctx, nil, candidateIDs)
		if err != nil {
			return err
		}
		known := make(map[uuid.UUID]bool, len(personas))
		for _, p := range personas {
			known[p.ID] = true
		}
		existing, err := bs.journeyRepo.ListByPersonaIDs(ctx, nil, candidateIDs)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(existing))
		for _, j := range existing {
			seen[journeyKey(j.PersonaID, j.Name)] = true
		}

		var rows []*types.UserJourney
		for _, d := range drafts {
			if d.PersonaID == nil || d.Name == "" {
				continue
			}
			personaID, err := uuid.Parse(*d.PersonaID)
			if err != nil || !known[personaID] {
				continue
			}
			key := journeyKey(personaID, d.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			stages, err := json.Marshal(d.Stages)
			if err != nil {
				continue
			}
			rows = append(rows, &types.UserJourney{
				ID:        uuid.New(),
				PersonaID: personaID,
				Name:      d.Name,
				Stages:    stages,
			})
		}
		if len(rows) == 0 {
			continue
		}
		if _, err := bs.journeyRepo.Create(ctx, nil, rows); err != nil {
			bs.log.Warn("journey backfill insert failed; skipping blueprint", "error", err, "blueprint_id", bp.ID)
		}
	}
	return nil
}

// BackfillOKRs expands blueprint metrics (same dual-shape handling as
// synthesis) into product_okrs rows missing for the matching products.
func (bs *backfillService) BackfillOKRs(ctx context.Context, productID *uuid.UUID) error {
	var blueprints []*types.ProductBlueprint
	var err error
	if productID != nil {
		blueprints, err = bs.blueprintRepo.GetByProductIDs(ctx, nil, []uuid.UUID{*productID})
	} else {
		blueprints, err = bs.blueprintRepo.ListAll(ctx, nil)
	}
	if err != nil {
		return err
	}
	for _, bp := range blueprints {
		metrics := decodeObject(bp.Metrics)
		drafts := ExpandOKRDrafts(metrics)
		if len(drafts) == 0 {
			continue
		}
		existing, err := bs.okrRepo.ListByProductIDs(ctx, nil, []uuid.UUID{bp.ProductID})
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(existing))
		for _, okr := range existing {
			seen[strings.ToLower(strings.TrimSpace(okr.Objective))] = true
		}

		var rows []*types.ProductOKR
		for _, d := range drafts {
			key := strings.ToLower(d.Objective)
			if seen[key] {
				continue
			}
			seen[key] = true
			keyResults, err := json.Marshal(d.KeyResults)
			if err != nil {
				continue
			}
			rows = append(rows, &types.ProductOKR{
				ID:         uuid.New(),
				ProductID:  bp.ProductID,
				Objective:  d.Objective,
				KeyResults: keyResults,
			})
		}
		if len(rows) == 0 {
			continue
		}
		if _, err := bs.okrRepo.Create(ctx, nil, rows); err != nil {
			bs.log.Warn("okr backfill insert failed; skipping blueprint", "error", err, "blueprint_id", bp.ID)
		}
	}
	return nil
}

// BackfillBoundaries recovers the boundaries document for a blueprint
// that predates the boundaries column, reading the source inception's
// step payload and persisting the normalized value. Runs at most once
// per blueprint; mutates the passed row on success.
func (bs *backfillService) BackfillBoundaries(ctx context.Context, blueprint *types.ProductBlueprint) error {
	if blueprint == nil || hasJSONValue(blueprint.Boundaries) || blueprint.SourceInceptionID == nil {
		return nil
	}
	step, err := bs.stepRepo.GetByKey(ctx, nil, *blueprint.SourceInceptionID, types.StepBoundaries)
	if err != nil {
		return err
	}
	if step == nil || len(step.Payload) == 0 {
		return nil
	}
	boundaries := normalizeBoundaries(decodeObject(step.Payload))
	raw, err := json.Marshal(boundaries)
	if err != nil {
		return nil
	}
	if err := bs.blueprintRepo.UpdateFields(ctx, nil, blueprint.ID, map[string]interface{}{"boundaries": datatypes.JSON(raw)}); err != nil {
		bs.log.Warn("boundaries backfill persist failed", "error", err, "blueprint_id", blueprint.ID)
		return nil
	}
	blueprint.Boundaries = raw
	return nil
}

// decodeJourneySnapshot tolerates legacy snapshot shapes: stages may be
// plain strings or {"stage": ...} objects, persona_id may be absent.
func decodeJourneySnapshot(raw datatypes.JSON) []JourneyDraft {
	if !hasJSONValue(raw) {
		return nil
	}
	var items []interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	drafts := make([]JourneyDraft, 0, len(items))
	for _, raw := range items {
		item, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		var personaID *string
		if s := strings.TrimSpace(stringField(item, "persona_id")); s != "" {
			personaID = &s
		}
		drafts = append(drafts, JourneyDraft{
			Name:      strings.TrimSpace(stringField(item, "name")),
			PersonaID: personaID,
			Stages:    normalizeStages(listField(item, "stages")),
		})
	}
	return drafts
}

func decodeObject(raw datatypes.JSON) map[string]interface{} {
	if !hasJSONValue(raw) {
		return map[string]interface{}{}
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return map[string]interface{}{}
	}
	return obj
}

func hasJSONValue(raw datatypes.JSON) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed != "" && trimmed != "null"
}
