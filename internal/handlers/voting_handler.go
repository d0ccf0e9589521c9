package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"primaries-backend/internal/middleware"
	"primaries-backend/internal/repository"
	"primaries-backend/internal/service"
)

// VotingHandler handles ballot submission and results
type VotingHandler struct {
	votingService  *service.VotingService
	profileService *service.ProfileService
}

// NewVotingHandler creates a new voting handler
func NewVotingHandler(votingService *service.VotingService, profileService *service.ProfileService) *VotingHandler {
	return &VotingHandler{
		votingService:  votingService,
		profileService: profileService,
	}
}

// BallotRequest represents a ranked ballot, most preferred candidate first
type BallotRequest struct {
	Votes []uint `json:"votes"`
}

// Submit records the caller's ranked ballot
// @Summary Submit a ballot
// @Description Records the voter's ranked candidate list for the current voting stage
// @Tags Voting
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BallotRequest true "Ranked candidate IDs"
// @Success 200 {object} map[string]string "Ballot recorded"
// @Failure 400 {object} map[string]string "Ballot rule violation"
// @Failure 409 {object} map[string]string "Already voted"
// @Router /vote [post]
func (h *VotingHandler) Submit(w http.ResponseWriter, r *http.Request) {
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

	var req BallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	if err := h.votingService.SubmitBallot(profile.ID, req.Votes); err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyVoted):
			respondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrVotingClosed):
			respondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, repository.ErrVoterNotFound):
			respondWithError(w, http.StatusNotFound, ErrMsgVoterNotFound)
		case errors.Is(err, service.ErrNotPaid),
			errors.Is(err, service.ErrEmptyBallot),
			errors.Is(err, service.ErrWrongBallotSize),
			errors.Is(err, service.ErrDuplicateCandidate),
			errors.Is(err, service.ErrInvalidCandidate),
			errors.Is(err, service.ErrGenderQuota),
			errors.Is(err, service.ErrPositionOutOfRange):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "OK",
	})
}

// Results returns the published point sums
// @Summary Get voting results
// @Description Primary-round sums are public during the final discussion stage, final-round sums once the election is over
// @Tags Voting
// @Produce json
// @Success 200 {array} models.CandidatePoints
// @Failure 409 {object} map[string]string "Results not available"
// @Router /vote-result [get]
func (h *VotingHandler) Results(w http.ResponseWriter, r *http.Request) {
	results, err := h.votingService.Results()
	if err != nil {
		if errors.Is(err, service.ErrResultsUnavailable) {
			respondWithError(w, http.StatusConflict, err.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	respondWithJSON(w, http.StatusOK, results)
}
