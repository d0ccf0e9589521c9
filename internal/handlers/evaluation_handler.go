package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"primaries-backend/internal/middleware"
	"primaries-backend/internal/models"
	"primaries-backend/internal/repository"
	"primaries-backend/internal/service"
)

// EvaluationHandler handles trust-mark assignment and results
type EvaluationHandler struct {
	evaluationService *service.EvaluationService
	profileService    *service.ProfileService
}

// NewEvaluationHandler creates a new evaluation handler
func NewEvaluationHandler(evaluationService *service.EvaluationService, profileService *service.ProfileService) *EvaluationHandler {
	return &EvaluationHandler{
		evaluationService: evaluationService,
		profileService:    profileService,
	}
}

// Marks returns the trust-mark catalog
// @Summary List trust-mark options
// @Tags Evaluation
// @Produce json
// @Success 200 {array} models.MarkOption
// @Router /marks [get]
func (h *EvaluationHandler) Marks(w http.ResponseWriter, r *http.Request) {
	marks, err := h.evaluationService.Marks()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	respondWithJSON(w, http.StatusOK, marks)
}

// EvaluationRequest represents a trust-mark submission
type EvaluationRequest struct {
	Candidate uint `json:"candidate"`
	Poll      uint `json:"poll"`
}

// Submit records the caller's trust-mark for a candidate
// @Summary Submit a trust-mark
// @Description Assigns one mark from the catalog to a candidate; re-submission replaces the previous mark
// @Tags Evaluation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EvaluationRequest true "Candidate and mark"
// @Success 200 {object} models.Evaluation
// @Failure 423 {object} map[string]string "Evaluation closed"
// @Router /evaluate [post]
func (h *EvaluationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	profile, err := h.profileService.GetVoterProfile(userID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, ErrMsgVoterNotFound)
		return
	}

	var req EvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if req.Candidate == 0 || req.Poll == 0 {
		respondWithError(w, http.StatusBadRequest, "candidate and poll are required")
		return
	}

	eval, err := h.evaluationService.Submit(profile.ID, req.Candidate, req.Poll)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEvaluationClosed):
			respondWithError(w, http.StatusLocked, err.Error())
		case errors.Is(err, service.ErrNotEligibleForMarks),
			errors.Is(err, repository.ErrCandidateNotFound),
			errors.Is(err, repository.ErrMarkNotFound):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrVoterNotFound):
			respondWithError(w, http.StatusNotFound, ErrMsgVoterNotFound)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, eval)
}

// OwnMarks returns the marks the caller has assigned so far
// @Summary List own trust-marks
// @Tags Evaluation
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Evaluation
// @Router /evaluate [get]
func (h *EvaluationHandler) OwnMarks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	profile, err := h.profileService.GetVoterProfile(userID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, ErrMsgVoterNotFound)
		return
	}

	marks, err := h.evaluationService.OwnMarks(profile.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	// An optional candidate filter narrows the answer to one mark
	if raw := r.URL.Query().Get("candidate"); raw != "" {
		candidateID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid candidate ID")
			return
		}
		for _, m := range marks {
			if m.CandidateID == uint(candidateID) {
				respondWithJSON(w, http.StatusOK, []models.Evaluation{m})
				return
			}
		}
		respondWithJSON(w, http.StatusOK, []models.Evaluation{})
		return
	}

	respondWithJSON(w, http.StatusOK, marks)
}

// Results returns the aggregated trust scores
// @Summary Get evaluation results
// @Description Trust-score sums are public only during the primary discussion stage
// @Tags Evaluation
// @Produce json
// @Success 200 {array} models.CandidateScore
// @Failure 409 {object} map[string]string "Results not available"
// @Router /evaluate-result [get]
func (h *EvaluationHandler) Results(w http.ResponseWriter, r *http.Request) {
	scores, err := h.evaluationService.Results()
	if err != nil {
		if errors.Is(err, service.ErrEvaluationResultsGate) {
			respondWithError(w, http.StatusConflict, err.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	respondWithJSON(w, http.StatusOK, scores)
}
