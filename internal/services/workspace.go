package services

import (
	"context"
	"encoding/json"
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

type ProductDetail struct {
	Product   *types.WorkspaceProduct `json:"product"`
	Blueprint *types.ProductBlueprint `json:"blueprint,omitempty"`
}

type ProductUpdate struct {
	Vision     *string
	Boundaries map[string]interface{}
}

type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, name string, ownerID uuid.UUID) (*types.Workspace, error)
	ListWorkspaces(ctx context.Context, tx *gorm.DB) ([]*types.Workspace, error)
	ListProducts(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID) ([]*types.WorkspaceProduct, error)
	GetProductDetail(ctx context.Context, workspaceID, productID uuid.UUID) (*ProductDetail, error)
	UpdateProduct(ctx context.Context, workspaceID, productID uuid.UUID, update ProductUpdate) (*ProductDetail, error)
}

type workspaceService struct {
	db            *gorm.DB
	log           *logger.Logger
	workspaceRepo repos.WorkspaceRepo
	productRepo   repos.ProductRepo
	blueprintRepo repos.BlueprintRepo
	backfill      BackfillService
}

func NewWorkspaceService(
	db *gorm.DB,
	baseLog *logger.Logger,
	workspaceRepo repos.WorkspaceRepo,
	productRepo repos.ProductRepo,
	blueprintRepo repos.BlueprintRepo,
	backfill BackfillService,
) WorkspaceService {
	return &workspaceService{
		db:            db,
		log:           baseLog.With("service", "WorkspaceService"),
		workspaceRepo: workspaceRepo,
		productRepo:   productRepo,
		blueprintRepo: blueprintRepo,
		backfill:      backfill,
	}
}

func (ws *workspaceService) CreateWorkspace(ctx context.Context, name string, ownerID uuid.UUID) (*types.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.Invalid("workspace name is required")
	}
	now := time.Now()
	workspace := &types.Workspace{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := ws.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ws.workspaceRepo.Create(ctx, tx, []*types.Workspace{workspace}); err != nil {
			return apierr.Invalid("create workspace: %v", err)
		}
		member := &types.WorkspaceMember{
			WorkspaceID: workspace.ID,
			UserID:      ownerID,
			CreatedAt:   now,
		}
		return ws.workspaceRepo.AddMembers(ctx, tx, []*types.WorkspaceMember{member})
	})
	if err != nil {
		ws.log.Error("CreateWorkspace failed", "error", err)
		return nil, err
	}
	return workspace, nil
}

func (ws *workspaceService) ListWorkspaces(ctx context.Context, tx *gorm.DB) ([]*types.Workspace, error) {
	return ws.workspaceRepo.List(ctx, tx)
}

func (ws *workspaceService) ListProducts(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID) ([]*types.WorkspaceProduct, error) {
	if _, err := ws.loadWorkspace(ctx, tx, workspaceID); err != nil {
		return nil, err
	}
	return ws.productRepo.ListByWorkspaceIDs(ctx, tx, []uuid.UUID{workspaceID})
}

// GetProductDetail returns the product with its blueprint, running the
// boundaries backfill first so legacy blueprints come back whole.
func (ws *workspaceService) GetProductDetail(ctx context.Context, workspaceID, productID uuid.UUID) (*ProductDetail, error) {
	product, err := ws.loadProduct(ctx, workspaceID, productID)
	if err != nil {
		return nil, err
	}
	blueprints, err := ws.blueprintRepo.GetByProductIDs(ctx, nil, []uuid.UUID{productID})
	if err != nil {
		return nil, err
	}
	detail := &ProductDetail{Product: product}
	if len(blueprints) > 0 {
		detail.Blueprint = blueprints[0]
		if err := ws.backfill.BackfillBoundaries(ctx, detail.Blueprint); err != nil {
			ws.log.Warn("boundaries backfill failed; serving unrepaired blueprint", "error", err, "product_id", productID)
		}
	}
	return detail, nil
}

// UpdateProduct is the only write path into a published blueprint, and
// it only touches the vision and boundaries fields.
func (ws *workspaceService) UpdateProduct(ctx context.Context, workspaceID, productID uuid.UUID, update ProductUpdate) (*ProductDetail, error) {
	if update.Vision == nil && update.Boundaries == nil {
		return nil, apierr.Invalid("nothing to update: provide vision and/or boundaries")
	}
	product, err := ws.loadProduct(ctx, workspaceID, productID)
	if err != nil {
		return nil, err
	}
	blueprints, err := ws.blueprintRepo.GetByProductIDs(ctx, nil, []uuid.UUID{productID})
	if err != nil {
		return nil, err
	}
	if len(blueprints) == 0 {
		return nil, apierr.NotFound("product %s has no blueprint", productID)
	}
	blueprint := blueprints[0]

	fields := map[string]interface{}{}
	if update.Vision != nil {
		vision := strings.TrimSpace(*update.Vision)
		if vision == "" {
			return nil, apierr.Invalid("vision must not be blank")
		}
		fields["vision"] = vision
		blueprint.Vision = vision
	}
	if update.Boundaries != nil {
		boundaries := normalizeBoundaries(update.Boundaries)
		raw, err := json.Marshal(boundaries)
		if err != nil {
			return nil, apierr.Invalid("encode boundaries: %v", err)
		}
		fields["boundaries"] = datatypes.JSON(raw)
		blueprint.Boundaries = raw
	}

	err = ws.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ws.blueprintRepo.UpdateFields(ctx, tx, blueprint.ID, fields); err != nil {
			return apierr.Invalid("update blueprint: %v", err)
		}
		if update.Vision != nil {
			if err := ws.productRepo.UpdateDescription(ctx, tx, product.ID, blueprint.Vision); err != nil {
				return apierr.Invalid("update product description: %v", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if update.Vision != nil {
		product.Description = blueprint.Vision
	}
	return &ProductDetail{Product: product, Blueprint: blueprint}, nil
}

func (ws *workspaceService) loadWorkspace(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID) (*types.Workspace, error) {
	workspaces, err := ws.workspaceRepo.GetByIDs(ctx, tx, []uuid.UUID{workspaceID})
	if err != nil {
		return nil, err
	}
	if len(workspaces) == 0 {
		return nil, apierr.NotFound("workspace %s not found", workspaceID)
	}
	return workspaces[0], nil
}

func (ws *workspaceService) loadProduct(ctx context.Context, workspaceID, productID uuid.UUID) (*types.WorkspaceProduct, error) {
	if _, err := ws.loadWorkspace(ctx, nil, workspaceID); err != nil {
		return nil, err
	}
	products, err := ws.productRepo.GetByIDs(ctx, nil, []uuid.UUID{productID})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 || products[0].WorkspaceID != workspaceID {
		return nil, apierr.NotFound("product %s not found in workspace %s", productID, workspaceID)
	}
	return products[0], nil
}
