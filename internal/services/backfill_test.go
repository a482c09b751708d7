package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/discoveros/backend/internal/repos"
	"github.com/discoveros/backend/internal/types"
)

func newBackfillService(t *testing.T) (BackfillService, *gorm.DB) {
	t.Helper()
	db, log := newTestDB(t)
	svc := NewBackfillService(
		db,
		log,
		repos.NewBlueprintRepo(db, log),
		repos.NewPersonaRepo(db, log),
		repos.NewJourneyRepo(db, log),
		repos.NewOKRRepo(db, log),
		repos.NewInceptionStepRepo(db, log),
	)
	return svc, db
}

func seedBlueprint(t *testing.T, db *gorm.DB, bp *types.ProductBlueprint) *types.ProductBlueprint {
	t.Helper()
	if bp.ID == uuid.Nil {
		bp.ID = uuid.New()
	}
	if bp.ProductID == uuid.Nil {
		bp.ProductID = uuid.New()
	}
	if err := db.Create(bp).Error; err != nil {
		t.Fatalf("seed blueprint: %v", err)
	}
	return bp
}

func TestBackfillJourneys_PromotesSnapshotOnce(t *testing.T) {
	svc, db := newBackfillService(t)
	ctx := context.Background()

	persona := &types.Persona{ID: uuid.New(), Name: "Founder"}
	if err := db.Create(persona).Error; err != nil {
		t.Fatalf("seed persona: %v", err)
	}
	snapshot := `[{"name": "Onboarding", "persona_id": "` + persona.ID.String() + `", "stages": ["signup", {"stage": "first value"}]}]`
	seedBlueprint(t, db, &types.ProductBlueprint{Journeys: datatypes.JSON(snapshot)})

	if err := svc.BackfillJourneys(ctx); err != nil {
		t.Fatalf("backfill: %v", err)
	}
	var count int64
	if err := db.Model(&types.UserJourney{}).Where("persona_id = ?", persona.ID).Count(&count).Error; err != nil {
		t.Fatalf("count journeys: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 journey after first run, got %d", count)
	}

	// Second run is a no-op.
	if err := svc.BackfillJourneys(ctx); err != nil {
		t.Fatalf("second backfill: %v", err)
	}
	if err := db.Model(&types.UserJourney{}).Where("persona_id = ?", persona.ID).Count(&count).Error; err != nil {
		t.Fatalf("recount journeys: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected backfill to stay idempotent, got %d rows", count)
	}

	var journey types.UserJourney
	if err := db.First(&journey, "persona_id = ?", persona.ID).Error; err != nil {
		t.Fatalf("load journey: %v", err)
	}
	if journey.Name != "Onboarding" {
		t.Fatalf("unexpected journey name %q", journey.Name)
	}
	if string(journey.Stages) != `["signup","first value"]` {
		t.Fatalf("unexpected stages %s", journey.Stages)
	}
}

func TestBackfillJourneys_SkipsUnknownPersonas(t *testing.T) {
	svc, db := newBackfillService(t)

	snapshot := `[{"name": "Ghost", "persona_id": "` + uuid.New().String() + `", "stages": ["a"]}]`
	seedBlueprint(t, db, &types.ProductBlueprint{Journeys: datatypes.JSON(snapshot)})

	if err := svc.BackfillJourneys(context.Background()); err != nil {
		t.Fatalf("backfill: %v", err)
	}
	var count int64
	if err := db.Model(&types.UserJourney{}).Count(&count).Error; err != nil {
		t.Fatalf("count journeys: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no journeys for deleted persona, got %d", count)
	}
}

func TestBackfillJourneys_CaseInsensitiveNameDedup(t *testing.T) {
	svc, db := newBackfillService(t)

	persona := &types.Persona{ID: uuid.New(), Name: "Founder"}
	if err := db.Create(persona).Error; err != nil {
		t.Fatalf("seed persona: %v", err)
	}
	existing := &types.UserJourney{
		ID:        uuid.New(),
		PersonaID: persona.ID,
		Name:      "ONBOARDING",
		Stages:    datatypes.JSON(`[]`),
	}
	if err := db.Create(existing).Error; err != nil {
		t.Fatalf("seed journey: %v", err)
	}
	snapshot := `[{"name": "Onboarding", "persona_id": "` + persona.ID.String() + `", "stages": ["signup"]}]`
	seedBlueprint(t, db, &types.ProductBlueprint{Journeys: datatypes.JSON(snapshot)})

	if err := svc.BackfillJourneys(context.Background()); err != nil {
		t.Fatalf("backfill: %v", err)
	}
	var count int64
	if err := db.Model(&types.UserJourney{}).Where("persona_id = ?", persona.ID).Count(&count).Error; err != nil {
		t.Fatalf("count journeys: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected existing row to block insert, got %d rows", count)
	}
}

func TestBackfillOKRs_ExpandsMetricsIdempotently(t *testing.T) {
	svc, db := newBackfillService(t)
	ctx := context.Background()

	bp := seedBlueprint(t, db, &types.ProductBlueprint{
		Metrics: datatypes.JSON(`{"objectives": [{"objective": "Grow activation", "key_results": ["30%"]}, {"objective": "Reduce churn"}]}`),
	})

	if err := svc.BackfillOKRs(ctx, &bp.ProductID); err != nil {
		t.Fatalf("backfill: %v", err)
	}
	var count int64
	if err := db.Model(&types.ProductOKR{}).Where("product_id = ?", bp.ProductID).Count(&count).Error; err != nil {
		t.Fatalf("count okrs: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 okrs, got %d", count)
	}

	if err := svc.BackfillOKRs(ctx, &bp.ProductID); err != nil {
		t.Fatalf("second backfill: %v", err)
	}
	if err := db.Model(&types.ProductOKR{}).Where("product_id = ?", bp.ProductID).Count(&count).Error; err != nil {
		t.Fatalf("recount okrs: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected backfill to stay idempotent, got %d rows", count)
	}
}

func TestBackfillOKRs_DedupesByObjective(t *testing.T) {
	svc, db := newBackfillService(t)

	bp := seedBlueprint(t, db, &types.ProductBlueprint{
		Metrics: datatypes.JSON(`{"objective": "Grow Activation", "key_results": ["30%"]}`),
	})
	existing := &types.ProductOKR{
		ID:         uuid.New(),
		ProductID:  bp.ProductID,
		Objective:  "grow activation",
		KeyResults: datatypes.JSON(`[]`),
	}
	if err := db.Create(existing).Error; err != nil {
		t.Fatalf("seed okr: %v", err)
	}

	if err := svc.BackfillOKRs(context.Background(), &bp.ProductID); err != nil {
		t.Fatalf("backfill: %v", err)
	}
	var count int64
	if err := db.Model(&types.ProductOKR{}).Where("product_id = ?", bp.ProductID).Count(&count).Error; err != nil {
		t.Fatalf("count okrs: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected case-insensitive dedup, got %d rows", count)
	}
}

func TestBackfillBoundaries_RecoversFromStepOnce(t *testing.T) {
	svc, db := newBackfillService(t)
	ctx := context.Background()

	inceptionID := uuid.New()
	step := &types.InceptionStep{
		ID:          uuid.New(),
		InceptionID: inceptionID,
		StepKey:     types.StepBoundaries,
		Payload:     datatypes.JSON(`{"is": ["simple"], "does_not": ["billing"]}`),
	}
	if err := db.Create(step).Error; err != nil {
		t.Fatalf("seed step: %v", err)
	}
	bp := seedBlueprint(t, db, &types.ProductBlueprint{SourceInceptionID: &inceptionID})

	if err := svc.BackfillBoundaries(ctx, bp); err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if !hasJSONValue(bp.Boundaries) {
		t.Fatalf("expected in-memory row updated, got %s", bp.Boundaries)
	}
	boundaries := decodeObject(bp.Boundaries)
	for _, key := range []string{"is", "is_not", "does", "does_not"} {
		if _, ok := boundaries[key]; !ok {
			t.Fatalf("expected normalized key %q in %s", key, bp.Boundaries)
		}
	}

	var persisted types.ProductBlueprint
	if err := db.First(&persisted, "id = ?", bp.ID).Error; err != nil {
		t.Fatalf("reload blueprint: %v", err)
	}
	if !hasJSONValue(persisted.Boundaries) {
		t.Fatalf("expected persisted boundaries, got %s", persisted.Boundaries)
	}

	// A populated row is never touched again.
	if err := db.Model(&types.InceptionStep{}).Where("id = ?", step.ID).Update("payload", datatypes.JSON(`{"is": ["changed"]}`)).Error; err != nil {
		t.Fatalf("mutate step: %v", err)
	}
	if err := svc.BackfillBoundaries(ctx, &persisted); err != nil {
		t.Fatalf("second backfill: %v", err)
	}
	var again types.ProductBlueprint
	if err := db.First(&again, "id = ?", bp.ID).Error; err != nil {
		t.Fatalf("reload again: %v", err)
	}
	if string(again.Boundaries) != string(persisted.Boundaries) {
		t.Fatalf("expected boundaries untouched on second run")
	}
}

func TestBackfillBoundaries_SkipsWithoutSourceInception(t *testing.T) {
	svc, db := newBackfillService(t)

	bp := seedBlueprint(t, db, &types.ProductBlueprint{})
	if err := svc.BackfillBoundaries(context.Background(), bp); err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if hasJSONValue(bp.Boundaries) {
		t.Fatalf("expected boundaries left empty, got %s", bp.Boundaries)
	}
}
