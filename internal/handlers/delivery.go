package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/services"
	"github.com/discoveros/backend/internal/types"
)

type DeliveryHandler struct {
	log             *logger.Logger
	deliveryService services.DeliveryService
}

func NewDeliveryHandler(log *logger.Logger, deliveryService services.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{
		log:             log.With("handler", "DeliveryHandler"),
		deliveryService: deliveryService,
	}
}

type createFeatureRequest struct {
	ProductID        *uuid.UUID `json:"product_id"`
	PersonaID        *uuid.UUID `json:"persona_id"`
	JourneyID        *uuid.UUID `json:"journey_id"`
	Title            string     `json:"title" binding:"required"`
	Description      string     `json:"description"`
	BusinessValue    string     `json:"business_value"`
	Status           string     `json:"status"`
	Complexity       string     `json:"complexity"`
	BusinessEstimate *int       `json:"business_estimate"`
	EffortEstimate   *int       `json:"effort_estimate"`
	UXEstimate       *int       `json:"ux_estimate"`
}

func (h *DeliveryHandler) CreateFeature(c *gin.Context) {
	var req createFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	feature, err := h.deliveryService.CreateFeature(c.Request.Context(), nil, &types.Feature{
		ProductID:        req.ProductID,
		PersonaID:        req.PersonaID,
		JourneyID:        req.JourneyID,
		Title:            req.Title,
		Description:      req.Description,
		BusinessValue:    req.BusinessValue,
		Status:           req.Status,
		Complexity:       req.Complexity,
		BusinessEstimate: req.BusinessEstimate,
		EffortEstimate:   req.EffortEstimate,
		UXEstimate:       req.UXEstimate,
	})
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, feature)
}

func (h *DeliveryHandler) ListFeatures(c *gin.Context) {
	features, err := h.deliveryService.ListFeatures(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("ListFeatures failed", "error", err)
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, features)
}

type createStoryRequest struct {
	FeatureID          *uuid.UUID `json:"feature_id"`
	WorkspaceID        *uuid.UUID `json:"workspace_id"`
	Title              string     `json:"title" binding:"required"`
	Description        string     `json:"description"`
	AcceptanceCriteria string     `json:"acceptance_criteria"`
	Estimate           *int       `json:"estimate"`
	Status             string     `json:"status"`
}

func (h *DeliveryHandler) CreateStory(c *gin.Context) {
	var req createStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	story, err := h.deliveryService.CreateStory(c.Request.Context(), nil, &types.Story{
		FeatureID:          req.FeatureID,
		WorkspaceID:        req.WorkspaceID,
		Title:              req.Title,
		Description:        req.Description,
		AcceptanceCriteria: req.AcceptanceCriteria,
		Estimate:           req.Estimate,
		Status:             req.Status,
	})
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, story)
}

func (h *DeliveryHandler) ListStories(c *gin.Context) {
	stories, err := h.deliveryService.ListStories(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("ListStories failed", "error", err)
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, stories)
}
