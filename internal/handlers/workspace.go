package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/requestdata"
	"github.com/discoveros/backend/internal/services"
)

type WorkspaceHandler struct {
	log              *logger.Logger
	workspaceService services.WorkspaceService
}

func NewWorkspaceHandler(log *logger.Logger, workspaceService services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{
		log:              log.With("handler", "WorkspaceHandler"),
		workspaceService: workspaceService,
	}
}

type createWorkspaceRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req createWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	workspace, err := h.workspaceService.CreateWorkspace(c.Request.Context(), req.Name, rd.UserID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, workspace)
}

func (h *WorkspaceHandler) ListWorkspaces(c *gin.Context) {
	workspaces, err := h.workspaceService.ListWorkspaces(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("ListWorkspaces failed", "error", err)
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, workspaces)
}

func (h *WorkspaceHandler) ListProducts(c *gin.Context) {
	workspaceID, ok := pathUUID(c, "wsid")
	if !ok {
		return
	}
	products, err := h.workspaceService.ListProducts(c.Request.Context(), nil, workspaceID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, products)
}

// GetProduct returns the product detail with its blueprint; legacy
// blueprints get their boundaries backfilled on the way out.
func (h *WorkspaceHandler) GetProduct(c *gin.Context) {
	workspaceID, ok := pathUUID(c, "wsid")
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "pid")
	if !ok {
		return
	}
	detail, err := h.workspaceService.GetProductDetail(c.Request.Context(), workspaceID, productID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, detail)
}

type updateProductRequest struct {
	Vision     *string                `json:"vision"`
	Boundaries map[string]interface{} `json:"boundaries"`
}

func (h *WorkspaceHandler) UpdateProduct(c *gin.Context) {
	workspaceID, ok := pathUUID(c, "wsid")
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "pid")
	if !ok {
		return
	}
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	detail, err := h.workspaceService.UpdateProduct(c.Request.Context(), workspaceID, productID, services.ProductUpdate{
		Vision:     req.Vision,
		Boundaries: req.Boundaries,
	})
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, detail)
}
