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
	"primaries-backend/pkg/validator"
)

// CandidateHandler serves the public candidate directory and campaign posts
type CandidateHandler struct {
	candidateRepo  *repository.CandidateRepository
	postRepo       *repository.PostRepository
	profileService *service.ProfileService
}

// NewCandidateHandler creates a new candidate handler
func NewCandidateHandler(
	candidateRepo *repository.CandidateRepository,
	postRepo *repository.PostRepository,
	profileService *service.ProfileService,
) *CandidateHandler {
	return &CandidateHandler{
		candidateRepo:  candidateRepo,
		postRepo:       postRepo,
		profileService: profileService,
	}
}

// List returns all approved candidates
// @Summary List approved candidates
// @Tags Candidates
// @Produce json
// @Success 200 {array} models.CandidateProfile
// @Router /candidates [get]
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.candidateRepo.GetApproved()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	respondWithJSON(w, http.StatusOK, candidates)
}

// Get returns one approved candidate by ID
// @Summary Get a candidate
// @Tags Candidates
// @Produce json
// @Param id path int true "Candidate profile ID"
// @Success 200 {object} models.CandidateProfile
// @Failure 404 {object} map[string]string "Candidate not found"
// @Router /candidates/{id} [get]
func (h *CandidateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	candidate, err := h.candidateRepo.GetByID(uint(id))
	if err != nil || !candidate.IsApproved || !candidate.IsEmailVerified {
		respondWithError(w, http.StatusNotFound, ErrMsgCandidateNotFound)
		return
	}

	respondWithJSON(w, http.StatusOK, candidate)
}

// Parties returns the distinct parties of approved candidates
// @Summary List candidate parties
// @Tags Candidates
// @Produce json
// @Success 200 {array} string
// @Router /candidates/parties [get]
func (h *CandidateHandler) Parties(w http.ResponseWriter, r *http.Request) {
	parties, err := h.candidateRepo.GetParties()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	respondWithJSON(w, http.StatusOK, parties)
}

// Posts returns a candidate's campaign posts
// @Summary List a candidate's posts
// @Tags Candidates
// @Produce json
// @Param id path int true "Candidate profile ID"
// @Success 200 {array} models.CandidatePost
// @Router /candidates/{id}/posts [get]
func (h *CandidateHandler) Posts(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	posts, err := h.postRepo.GetByProfile(uint(id))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	respondWithJSON(w, http.StatusOK, posts)
}

// PostRequest represents a campaign post submission
type PostRequest struct {
	Title     string  `json:"title" validate:"required"`
	Text      string  `json:"text"`
	MediaURL  *string `json:"media_url"`
	Photo     *string `json:"photo"`
	Important bool    `json:"important"`
}

// CreatePost publishes a campaign post on the caller's candidate profile
// @Summary Create a campaign post
// @Tags Candidates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PostRequest true "Post content"
// @Success 201 {object} models.CandidatePost
// @Router /candidates/posts [post]
func (h *CandidateHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	profile, err := h.profileService.GetCandidateProfile(userID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, ErrMsgCandidateNotFound)
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	post := &models.CandidatePost{
		ProfileID: profile.ID,
		Title:     validator.SanitizeString(req.Title),
		Text:      req.Text,
		MediaURL:  req.MediaURL,
		Photo:     req.Photo,
		Important: req.Important,
	}
	if err := h.postRepo.Create(post); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	respondWithJSON(w, http.StatusCreated, post)
}

// DeletePost removes one of the caller's campaign posts
// @Summary Delete a campaign post
// @Tags Candidates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} map[string]string "Post deleted"
// @Router /candidates/posts/{id} [delete]
func (h *CandidateHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	profile, err := h.profileService.GetCandidateProfile(userID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, ErrMsgCandidateNotFound)
		return
	}

	if err := h.postRepo.Delete(uint(id), profile.ID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			respondWithError(w, http.StatusNotFound, "Post not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Post deleted",
	})
}
