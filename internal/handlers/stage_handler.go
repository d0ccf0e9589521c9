package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"primaries-backend/internal/models"
	"primaries-backend/internal/service"
)

// StageHandler exposes the global election stage
type StageHandler struct {
	stageService *service.StageService
}

// NewStageHandler creates a new stage handler
func NewStageHandler(stageService *service.StageService) *StageHandler {
	return &StageHandler{
		stageService: stageService,
	}
}

// Get returns the current election stage
// @Summary Get the current election stage
// @Tags Stage
// @Produce json
// @Success 200 {object} map[string]string "Stage value and display name"
// @Router /stage [get]
func (h *StageHandler) Get(w http.ResponseWriter, r *http.Request) {
	stage, err := h.stageService.Current()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"stage": stage,
		"name":  models.StageName(stage),
	})
}

// StageRequest represents a stage transition
type StageRequest struct {
	Stage string `json:"stage"`
}

// Set transitions the election to a new stage (staff only)
// @Summary Set the election stage
// @Description Transitions the election. Entering a registration or discussion stage resets voter eligibility.
// @Tags Stage
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body StageRequest true "Target stage, empty string deactivates"
// @Success 200 {object} map[string]string "Stage updated"
// @Failure 400 {object} map[string]string "Invalid stage"
// @Router /admin/stage [put]
func (h *StageHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req StageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	if err := h.stageService.Set(req.Stage); err != nil {
		if errors.Is(err, service.ErrInvalidStage) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"stage": req.Stage,
		"name":  models.StageName(req.Stage),
	})
}
