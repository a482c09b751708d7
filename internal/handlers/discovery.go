package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/services"
	"github.com/discoveros/backend/internal/types"
)

type DiscoveryHandler struct {
	log              *logger.Logger
	discoveryService services.DiscoveryService
}

func NewDiscoveryHandler(log *logger.Logger, discoveryService services.DiscoveryService) *DiscoveryHandler {
	return &DiscoveryHandler{
		log:              log.With("handler", "DiscoveryHandler"),
		discoveryService: discoveryService,
	}
}

type createProblemRequest struct {
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
}

func (h *DiscoveryHandler) CreateProblem(c *gin.Context) {
	var req createProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	problem, err := h.discoveryService.CreateProblem(c.Request.Context(), nil, &types.Problem{
		WorkspaceID: req.WorkspaceID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, problem)
}

func (h *DiscoveryHandler) ListProblems(c *gin.Context) {
	problems, err := h.discoveryService.ListProblems(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("ListProblems failed", "error", err)
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, problems)
}

type createPersonaRequest struct {
	ProblemID *uuid.UUID `json:"problem_id"`
	Name      string     `json:"name" binding:"required"`
	Context   string     `json:"context"`
	Goal      string     `json:"goal"`
	MainPain  string     `json:"main_pain"`
}

func (h *DiscoveryHandler) CreatePersona(c *gin.Context) {
	var req createPersonaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	persona, err := h.discoveryService.CreatePersona(c.Request.Context(), nil, &types.Persona{
		ProblemID: req.ProblemID,
		Name:      req.Name,
		Context:   req.Context,
		Goal:      req.Goal,
		MainPain:  req.MainPain,
	})
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, persona)
}

func (h *DiscoveryHandler) ListPersonas(c *gin.Context) {
	personas, err := h.discoveryService.ListPersonas(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("ListPersonas failed", "error", err)
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, personas)
}

type createJourneyRequest struct {
	PersonaID uuid.UUID `json:"persona_id" binding:"required"`
	Name      string    `json:"name" binding:"required"`
	Stages    []string  `json:"stages"`
}

func (h *DiscoveryHandler) CreateJourney(c *gin.Context) {
	var req createJourneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	journey, err := h.discoveryService.CreateJourney(c.Request.Context(), nil, req.PersonaID, req.Name, req.Stages)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, journey)
}

// ListJourneys repairs legacy blueprint data before answering.
func (h *DiscoveryHandler) ListJourneys(c *gin.Context) {
	journeys, err := h.discoveryService.ListJourneys(c.Request.Context())
	if err != nil {
		h.log.Error("ListJourneys failed", "error", err)
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, journeys)
}

type createOKRRequest struct {
	ProductID  uuid.UUID `json:"product_id" binding:"required"`
	Objective  string    `json:"objective" binding:"required"`
	KeyResults []string  `json:"key_results"`
}

func (h *DiscoveryHandler) CreateOKR(c *gin.Context) {
	var req createOKRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	okr, err := h.discoveryService.CreateOKR(c.Request.Context(), nil, req.ProductID, req.Objective, req.KeyResults)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, okr)
}

// ListOKRs repairs legacy blueprint data for the requested product
// scope before answering.
func (h *DiscoveryHandler) ListOKRs(c *gin.Context) {
	var productID *uuid.UUID
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_input", err)
			return
		}
		productID = &id
	}
	okrs, err := h.discoveryService.ListOKRs(c.Request.Context(), productID)
	if err != nil {
		h.log.Error("ListOKRs failed", "error", err)
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, okrs)
}
