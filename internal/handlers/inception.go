package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/repos"
	"github.com/discoveros/backend/internal/services"
)

type InceptionHandler struct {
	log              *logger.Logger
	inceptionService services.InceptionService
}

func NewInceptionHandler(log *logger.Logger, inceptionService services.InceptionService) *InceptionHandler {
	return &InceptionHandler{
		log:              log.With("handler", "InceptionHandler"),
		inceptionService: inceptionService,
	}
}

type createInceptionRequest struct {
	WorkspaceID uuid.UUID `json:"workspace_id" binding:"required"`
	Type        string    `json:"type" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
}

func (h *InceptionHandler) CreateInception(c *gin.Context) {
	var req createInceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	inception, err := h.inceptionService.CreateInception(c.Request.Context(), nil, req.WorkspaceID, req.Type, req.Title, req.Description)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, inception)
}

func (h *InceptionHandler) ListInceptions(c *gin.Context) {
	filter := repos.InceptionListFilter{
		Type:            c.Query("type"),
		IncludeArchived: c.Query("include_archived") == "true",
	}
	inceptions, err := h.inceptionService.ListInceptions(c.Request.Context(), nil, filter)
	if err != nil {
		h.log.Error("ListInceptions failed", "error", err)
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, inceptions)
}

func (h *InceptionHandler) GetInception(c *gin.Context) {
	inceptionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	inception, err := h.inceptionService.GetInception(c.Request.Context(), nil, inceptionID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, inception)
}

func (h *InceptionHandler) DeleteInception(c *gin.Context) {
	inceptionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.inceptionService.DeleteInception(c.Request.Context(), inceptionID); err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}

func (h *InceptionHandler) ListSteps(c *gin.Context) {
	inceptionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	steps, err := h.inceptionService.ListSteps(c.Request.Context(), nil, inceptionID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, steps)
}

func (h *InceptionHandler) GetStep(c *gin.Context) {
	inceptionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	step, err := h.inceptionService.GetStep(c.Request.Context(), nil, inceptionID, c.Param("step_key"))
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, step)
}

type upsertStepRequest struct {
	Payload map[string]interface{} `json:"payload" binding:"required"`
}

func (h *InceptionHandler) UpsertStep(c *gin.Context) {
	inceptionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req upsertStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	payload, err := json.Marshal(req.Payload)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	step, err := h.inceptionService.UpsertStep(c.Request.Context(), nil, inceptionID, c.Param("step_key"), datatypes.JSON(payload))
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, step)
}

type publishProductRequest struct {
	Name string `json:"name"`
}

func (h *InceptionHandler) PublishProduct(c *gin.Context) {
	inceptionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req publishProductRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_input", err)
			return
		}
	}
	result, err := h.inceptionService.PublishProduct(c.Request.Context(), inceptionID, req.Name)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, result)
}

func pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return uuid.Nil, false
	}
	return id, true
}
