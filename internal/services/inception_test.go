package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/discoveros/backend/internal/platform/apierr"
	"github.com/discoveros/backend/internal/repos"
	"github.com/discoveros/backend/internal/types"
)

func newInceptionService(t *testing.T) (InceptionService, *gorm.DB) {
	t.Helper()
	db, log := newTestDB(t)
	svc := NewInceptionService(
		db,
		log,
		repos.NewInceptionRepo(db, log),
		repos.NewInceptionStepRepo(db, log),
		repos.NewPersonaRepo(db, log),
		repos.NewProductRepo(db, log),
		repos.NewBlueprintRepo(db, log),
		repos.NewOKRRepo(db, log),
		repos.NewJourneyRepo(db, log),
	)
	return svc, db
}

func TestUpsertStep_CreateThenUpdateKeepsOneRow(t *testing.T) {
	svc, db := newInceptionService(t)
	ctx := context.Background()

	inception, err := svc.CreateInception(ctx, nil, uuid.New(), "lean_inception", "Acme discovery", "")
	if err != nil {
		t.Fatalf("create inception: %v", err)
	}

	first, err := svc.UpsertStep(ctx, nil, inception.ID, types.StepProductVision, datatypes.JSON(`{"product_name":"Acme"}`))
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := svc.UpsertStep(ctx, nil, inception.ID, types.StepProductVision, datatypes.JSON(`{"product_name":"Acme v2"}`))
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected update of existing row, got new id %s", second.ID)
	}

	var count int64
	if err := db.Model(&types.InceptionStep{}).Where("inception_id = ?", inception.ID).Count(&count).Error; err != nil {
		t.Fatalf("count steps: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 step row, got %d", count)
	}

	step, err := svc.GetStep(ctx, nil, inception.ID, types.StepProductVision)
	if err != nil {
		t.Fatalf("get step: %v", err)
	}
	if string(step.Payload) != `{"product_name":"Acme v2"}` {
		t.Fatalf("expected latest payload, got %s", step.Payload)
	}
}

func TestUpsertStep_RejectsInvalidPayload(t *testing.T) {
	svc, _ := newInceptionService(t)
	ctx := context.Background()

	inception, err := svc.CreateInception(ctx, nil, uuid.New(), "lean_inception", "t", "")
	if err != nil {
		t.Fatalf("create inception: %v", err)
	}
	_, err = svc.UpsertStep(ctx, nil, inception.ID, types.StepProductVision, datatypes.JSON(`{not json`))
	if !apierr.IsCode(err, apierr.CodeInvalidInput) {
		t.Fatalf("expected invalid_input, got %v", err)
	}
}

func TestUpsertStep_UnknownInceptionNotFound(t *testing.T) {
	svc, _ := newInceptionService(t)
	_, err := svc.UpsertStep(context.Background(), nil, uuid.New(), types.StepProductVision, datatypes.JSON(`{}`))
	if !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestUpsertStep_ArchivedInceptionConflicts(t *testing.T) {
	svc, db := newInceptionService(t)
	ctx := context.Background()

	inception, err := svc.CreateInception(ctx, nil, uuid.New(), "lean_inception", "t", "")
	if err != nil {
		t.Fatalf("create inception: %v", err)
	}
	if err := db.Model(&types.Inception{}).Where("id = ?", inception.ID).Update("status", types.InceptionStatusArchived).Error; err != nil {
		t.Fatalf("archive: %v", err)
	}
	_, err = svc.UpsertStep(ctx, nil, inception.ID, types.StepProductVision, datatypes.JSON(`{}`))
	if !apierr.IsCode(err, apierr.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestPublishProduct_MaterializesAndArchives(t *testing.T) {
	svc, db := newInceptionService(t)
	ctx := context.Background()

	persona := &types.Persona{ID: uuid.New(), Name: "Founder", Goal: "ship fast"}
	if err := db.Create(persona).Error; err != nil {
		t.Fatalf("seed persona: %v", err)
	}

	inception, err := svc.CreateInception(ctx, nil, uuid.New(), "lean_inception", "Fallback title", "")
	if err != nil {
		t.Fatalf("create inception: %v", err)
	}
	steps := map[string]string{
		types.StepProductVision: `{
			"product_name": "Acme",
			"target_audience": "founders",
			"problem_statement": "losing time",
			"product_category": "a tool",
			"key_benefit": "speed",
			"alternatives": "spreadsheets",
			"differential": "automation"
		}`,
		types.StepPersonas:       `{"persona_ids": ["` + persona.ID.String() + `"]}`,
		types.StepJourneyMap:     `{"journeys": [{"name": "Onboarding", "persona_id": "` + persona.ID.String() + `", "stages": ["signup", "first value"]}]}`,
		types.StepProductMetrics: `{"objective": "Grow activation", "key_results": ["30% activation"]}`,
		types.StepBoundaries:     `{"is": ["simple"]}`,
	}
	for key, payload := range steps {
		if _, err := svc.UpsertStep(ctx, nil, inception.ID, key, datatypes.JSON(payload)); err != nil {
			t.Fatalf("upsert %s: %v", key, err)
		}
	}

	result, err := svc.PublishProduct(ctx, inception.ID, "")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if result.Name != "Acme" {
		t.Fatalf("expected vision-step product name, got %q", result.Name)
	}
	if result.WorkspaceID != inception.WorkspaceID {
		t.Fatalf("expected workspace %s, got %s", inception.WorkspaceID, result.WorkspaceID)
	}

	var product types.WorkspaceProduct
	if err := db.First(&product, "id = ?", result.ProductID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	wantVision := "Para founders, o Acme, resolve losing time, como a tool, trazendo speed. Diferentemente de spreadsheets, o nosso produto automation."
	if product.Description != wantVision {
		t.Fatalf("product description mismatch:\n got: %q\nwant: %q", product.Description, wantVision)
	}

	var blueprint types.ProductBlueprint
	if err := db.First(&blueprint, "product_id = ?", result.ProductID).Error; err != nil {
		t.Fatalf("load blueprint: %v", err)
	}
	if blueprint.SourceInceptionID == nil || *blueprint.SourceInceptionID != inception.ID {
		t.Fatalf("expected source inception %s, got %v", inception.ID, blueprint.SourceInceptionID)
	}
	if blueprint.Vision != wantVision {
		t.Fatalf("blueprint vision mismatch: %q", blueprint.Vision)
	}

	var okrCount int64
	if err := db.Model(&types.ProductOKR{}).Where("product_id = ?", result.ProductID).Count(&okrCount).Error; err != nil {
		t.Fatalf("count okrs: %v", err)
	}
	if okrCount != 1 {
		t.Fatalf("expected 1 okr row, got %d", okrCount)
	}

	var journeyCount int64
	if err := db.Model(&types.UserJourney{}).Where("persona_id = ?", persona.ID).Count(&journeyCount).Error; err != nil {
		t.Fatalf("count journeys: %v", err)
	}
	if journeyCount != 1 {
		t.Fatalf("expected 1 journey row, got %d", journeyCount)
	}

	var reloaded types.Inception
	if err := db.First(&reloaded, "id = ?", inception.ID).Error; err != nil {
		t.Fatalf("reload inception: %v", err)
	}
	if reloaded.Status != types.InceptionStatusArchived {
		t.Fatalf("expected archived inception, got %q", reloaded.Status)
	}

	_, err = svc.PublishProduct(ctx, inception.ID, "")
	if !apierr.IsCode(err, apierr.CodeConflict) {
		t.Fatalf("expected conflict on second publish, got %v", err)
	}
}

func TestPublishProduct_RequestedNameWins(t *testing.T) {
	svc, _ := newInceptionService(t)
	ctx := context.Background()

	inception, err := svc.CreateInception(ctx, nil, uuid.New(), "lean_inception", "Title", "")
	if err != nil {
		t.Fatalf("create inception: %v", err)
	}
	if _, err := svc.UpsertStep(ctx, nil, inception.ID, types.StepProductVision, datatypes.JSON(`{"product_name":"From vision"}`)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	result, err := svc.PublishProduct(ctx, inception.ID, "  Explicit  ")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if result.Name != "Explicit" {
		t.Fatalf("expected requested name to win, got %q", result.Name)
	}
}

func TestPublishProduct_NoNameFailsAtomically(t *testing.T) {
	svc, db := newInceptionService(t)
	ctx := context.Background()

	inception, err := svc.CreateInception(ctx, nil, uuid.New(), "lean_inception", "   ", "")
	if err != nil {
		t.Fatalf("create inception: %v", err)
	}

	_, err = svc.PublishProduct(ctx, inception.ID, "")
	if !apierr.IsCode(err, apierr.CodeInvalidInput) {
		t.Fatalf("expected invalid_input, got %v", err)
	}

	var productCount int64
	if err := db.Model(&types.WorkspaceProduct{}).Count(&productCount).Error; err != nil {
		t.Fatalf("count products: %v", err)
	}
	if productCount != 0 {
		t.Fatalf("expected no products after failed publish, got %d", productCount)
	}

	var reloaded types.Inception
	if err := db.First(&reloaded, "id = ?", inception.ID).Error; err != nil {
		t.Fatalf("reload inception: %v", err)
	}
	if reloaded.Status != types.InceptionStatusActive {
		t.Fatalf("expected inception still active, got %q", reloaded.Status)
	}
}

func TestDeleteInception_RemovesSteps(t *testing.T) {
	svc, db := newInceptionService(t)
	ctx := context.Background()

	inception, err := svc.CreateInception(ctx, nil, uuid.New(), "lean_inception", "t", "")
	if err != nil {
		t.Fatalf("create inception: %v", err)
	}
	if _, err := svc.UpsertStep(ctx, nil, inception.ID, types.StepBoundaries, datatypes.JSON(`{"is":["x"]}`)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := svc.DeleteInception(ctx, inception.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var stepCount int64
	if err := db.Model(&types.InceptionStep{}).Where("inception_id = ?", inception.ID).Count(&stepCount).Error; err != nil {
		t.Fatalf("count steps: %v", err)
	}
	if stepCount != 0 {
		t.Fatalf("expected steps removed, got %d", stepCount)
	}
	if _, err := svc.GetInception(ctx, nil, inception.ID); !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}
