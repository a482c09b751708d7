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

func newWorkspaceService(t *testing.T) (WorkspaceService, *gorm.DB) {
	t.Helper()
	db, log := newTestDB(t)
	backfill := NewBackfillService(
		db,
		log,
		repos.NewBlueprintRepo(db, log),
		repos.NewPersonaRepo(db, log),
		repos.NewJourneyRepo(db, log),
		repos.NewOKRRepo(db, log),
		repos.NewInceptionStepRepo(db, log),
	)
	svc := NewWorkspaceService(
		db,
		log,
		repos.NewWorkspaceRepo(db, log),
		repos.NewProductRepo(db, log),
		repos.NewBlueprintRepo(db, log),
		backfill,
	)
	return svc, db
}

func seedProductWithBlueprint(t *testing.T, db *gorm.DB, svc WorkspaceService) (*types.Workspace, *types.WorkspaceProduct, *types.ProductBlueprint) {
	t.Helper()
	ctx := context.Background()
	workspace, err := svc.CreateWorkspace(ctx, "Acme Inc "+uuid.New().String(), uuid.New())
	if err != nil {
		t.Fatalf("create workspace: %v", err)
	}
	product := &types.WorkspaceProduct{
		ID:          uuid.New(),
		WorkspaceID: workspace.ID,
		Name:        "Acme",
		Description: "old vision",
		Status:      types.ProductStatusActive,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	blueprint := &types.ProductBlueprint{
		ID:        uuid.New(),
		ProductID: product.ID,
		Vision:    "old vision",
	}
	if err := db.Create(blueprint).Error; err != nil {
		t.Fatalf("seed blueprint: %v", err)
	}
	return workspace, product, blueprint
}

func TestCreateWorkspace_AddsOwnerMember(t *testing.T) {
	svc, db := newWorkspaceService(t)
	ownerID := uuid.New()

	workspace, err := svc.CreateWorkspace(context.Background(), "  Acme Inc  ", ownerID)
	if err != nil {
		t.Fatalf("create workspace: %v", err)
	}
	if workspace.Name != "Acme Inc" {
		t.Fatalf("expected trimmed name, got %q", workspace.Name)
	}

	var member types.WorkspaceMember
	if err := db.First(&member, "workspace_id = ? AND user_id = ?", workspace.ID, ownerID).Error; err != nil {
		t.Fatalf("expected owner membership row: %v", err)
	}
}

func TestCreateWorkspace_BlankNameInvalid(t *testing.T) {
	svc, _ := newWorkspaceService(t)
	_, err := svc.CreateWorkspace(context.Background(), "   ", uuid.New())
	if !apierr.IsCode(err, apierr.CodeInvalidInput) {
		t.Fatalf("expected invalid_input, got %v", err)
	}
}

func TestGetProductDetail_WrongWorkspaceNotFound(t *testing.T) {
	svc, db := newWorkspaceService(t)
	_, product, _ := seedProductWithBlueprint(t, db, svc)

	other, err := svc.CreateWorkspace(context.Background(), "Other "+uuid.New().String(), uuid.New())
	if err != nil {
		t.Fatalf("create workspace: %v", err)
	}
	_, err = svc.GetProductDetail(context.Background(), other.ID, product.ID)
	if !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestGetProductDetail_RepairsBoundaries(t *testing.T) {
	svc, db := newWorkspaceService(t)
	workspace, product, blueprint := seedProductWithBlueprint(t, db, svc)

	inceptionID := uuid.New()
	if err := db.Model(&types.ProductBlueprint{}).Where("id = ?", blueprint.ID).Update("source_inception_id", inceptionID).Error; err != nil {
		t.Fatalf("set source inception: %v", err)
	}
	step := &types.InceptionStep{
		ID:          uuid.New(),
		InceptionID: inceptionID,
		StepKey:     types.StepBoundaries,
		Payload:     datatypes.JSON(`{"is": ["simple"]}`),
	}
	if err := db.Create(step).Error; err != nil {
		t.Fatalf("seed step: %v", err)
	}

	detail, err := svc.GetProductDetail(context.Background(), workspace.ID, product.ID)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if detail.Blueprint == nil {
		t.Fatalf("expected blueprint in detail")
	}
	boundaries := decodeObject(detail.Blueprint.Boundaries)
	if len(boundaries) == 0 {
		t.Fatalf("expected boundaries repaired from step, got %s", detail.Blueprint.Boundaries)
	}
}

func TestUpdateProduct_VisionUpdatesBlueprintAndDescription(t *testing.T) {
	svc, db := newWorkspaceService(t)
	workspace, product, blueprint := seedProductWithBlueprint(t, db, svc)

	vision := "  new vision  "
	detail, err := svc.UpdateProduct(context.Background(), workspace.ID, product.ID, ProductUpdate{Vision: &vision})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if detail.Blueprint.Vision != "new vision" {
		t.Fatalf("expected trimmed vision, got %q", detail.Blueprint.Vision)
	}
	if detail.Product.Description != "new vision" {
		t.Fatalf("expected description synced, got %q", detail.Product.Description)
	}

	var persisted types.ProductBlueprint
	if err := db.First(&persisted, "id = ?", blueprint.ID).Error; err != nil {
		t.Fatalf("reload blueprint: %v", err)
	}
	if persisted.Vision != "new vision" {
		t.Fatalf("expected persisted vision, got %q", persisted.Vision)
	}
	var persistedProduct types.WorkspaceProduct
	if err := db.First(&persistedProduct, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if persistedProduct.Description != "new vision" {
		t.Fatalf("expected persisted description, got %q", persistedProduct.Description)
	}
}

func TestUpdateProduct_BoundariesNormalized(t *testing.T) {
	svc, db := newWorkspaceService(t)
	workspace, product, blueprint := seedProductWithBlueprint(t, db, svc)

	detail, err := svc.UpdateProduct(context.Background(), workspace.ID, product.ID, ProductUpdate{
		Boundaries: map[string]interface{}{"is": []interface{}{"a tool"}},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	boundaries := decodeObject(detail.Blueprint.Boundaries)
	for _, key := range []string{"is", "is_not", "does", "does_not"} {
		if _, ok := boundaries[key]; !ok {
			t.Fatalf("expected normalized key %q", key)
		}
	}

	var persisted types.ProductBlueprint
	if err := db.First(&persisted, "id = ?", blueprint.ID).Error; err != nil {
		t.Fatalf("reload blueprint: %v", err)
	}
	if persisted.Vision != "old vision" {
		t.Fatalf("expected vision untouched, got %q", persisted.Vision)
	}
}

func TestUpdateProduct_RejectsEmptyAndBlank(t *testing.T) {
	svc, db := newWorkspaceService(t)
	workspace, product, _ := seedProductWithBlueprint(t, db, svc)

	_, err := svc.UpdateProduct(context.Background(), workspace.ID, product.ID, ProductUpdate{})
	if !apierr.IsCode(err, apierr.CodeInvalidInput) {
		t.Fatalf("expected invalid_input for empty update, got %v", err)
	}

	blank := "   "
	_, err = svc.UpdateProduct(context.Background(), workspace.ID, product.ID, ProductUpdate{Vision: &blank})
	if !apierr.IsCode(err, apierr.CodeInvalidInput) {
		t.Fatalf("expected invalid_input for blank vision, got %v", err)
	}
}

func TestUpdateProduct_NoBlueprintNotFound(t *testing.T) {
	svc, db := newWorkspaceService(t)
	workspace, err := svc.CreateWorkspace(context.Background(), "Bare "+uuid.New().String(), uuid.New())
	if err != nil {
		t.Fatalf("create workspace: %v", err)
	}
	product := &types.WorkspaceProduct{
		ID:          uuid.New(),
		WorkspaceID: workspace.ID,
		Name:        "Bare",
		Status:      types.ProductStatusActive,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	vision := "v"
	_, err = svc.UpdateProduct(context.Background(), workspace.ID, product.ID, ProductUpdate{Vision: &vision})
	if !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}
