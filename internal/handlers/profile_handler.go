package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"primaries-backend/internal/middleware"
	"primaries-backend/internal/models"
	"primaries-backend/internal/repository"
	"primaries-backend/internal/service"
	"primaries-backend/pkg/validator"
)

// ProfileHandler handles voter and candidate profile requests
type ProfileHandler struct {
	profileService *service.ProfileService
	authService    *service.AuthService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *service.ProfileService, authService *service.AuthService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		authService:    authService,
	}
}

// VoterProfileRequest represents a voter profile submission
type VoterProfileRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	BirthDate   string `json:"birth_date" validate:"required"`
	Address     string `json:"address" validate:"required"`
	SocialURL   string `json:"soc_url" validate:"required"`
}

func (req *VoterProfileRequest) toModel() (*models.VoterProfile, error) {
	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, errors.New("birth_date must be formatted as YYYY-MM-DD")
	}
	return &models.VoterProfile{
		FirstName:   validator.SanitizeString(req.FirstName),
		LastName:    validator.SanitizeString(req.LastName),
		PhoneNumber: validator.SanitizeString(req.PhoneNumber),
		BirthDate:   birthDate,
		Address:     validator.SanitizeString(req.Address),
		SocialURL:   validator.SanitizeString(req.SocialURL),
	}, nil
}

// CandidateProfileRequest represents a candidate profile submission
type CandidateProfileRequest struct {
	FirstName           string  `json:"first_name" validate:"required"`
	LastName            string  `json:"last_name" validate:"required"`
	BirthDate           string  `json:"birth_date" validate:"required"`
	Picture             string  `json:"picture"`
	Gender              string  `json:"gender" validate:"required,oneof=male female"`
	PhoneNumber         string  `json:"phone_number" validate:"required"`
	Region              string  `json:"region" validate:"required"`
	Address             string  `json:"address" validate:"required"`
	FacebookURL         string  `json:"facebook_url" validate:"required"`
	YoutubeURL          *string `json:"youtube_url"`
	AdditionalURL       *string `json:"additional_url"`
	Party               string  `json:"party"`
	Education           string  `json:"education"`
	WorkExperience      string  `json:"work_experience"`
	PoliticalExperience string  `json:"political_experience"`
	MaritalStatus       string  `json:"marital_status"`
	PoliticalOpinion    string  `json:"political_opinion"`
	CityProgram         string  `json:"city_program"`
}

func (req *CandidateProfileRequest) toModel() (*models.CandidateProfile, error) {
	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, errors.New("birth_date must be formatted as YYYY-MM-DD")
	}
	party := req.Party
	if party == "" {
		party = "Independent"
	}
	return &models.CandidateProfile{
		FirstName:           validator.SanitizeString(req.FirstName),
		LastName:            validator.SanitizeString(req.LastName),
		BirthDate:           birthDate,
		Picture:             req.Picture,
		Gender:              req.Gender,
		PhoneNumber:         validator.SanitizeString(req.PhoneNumber),
		Region:              validator.SanitizeString(req.Region),
		Address:             validator.SanitizeString(req.Address),
		FacebookURL:         validator.SanitizeString(req.FacebookURL),
		YoutubeURL:          req.YoutubeURL,
		AdditionalURL:       req.AdditionalURL,
		Party:               party,
		Education:           req.Education,
		WorkExperience:      req.WorkExperience,
		PoliticalExperience: req.PoliticalExperience,
		MaritalStatus:       req.MaritalStatus,
		PoliticalOpinion:    req.PoliticalOpinion,
		CityProgram:         req.CityProgram,
	}, nil
}

// CreateVoterProfile registers the caller's voter profile
// @Summary Create voter profile
// @Description Registers a voter profile for the authenticated user and sends a verification email
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body VoterProfileRequest true "Voter profile data"
// @Success 201 {object} models.VoterProfile
// @Failure 409 {object} map[string]string "Profile already exists"
// @Router /profiles/voter [post]
func (h *ProfileHandler) CreateVoterProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	var req VoterProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := req.toModel()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.User(userID)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	created, err := h.profileService.CreateVoterProfile(user, profile)
	if err != nil {
		if errors.Is(err, service.ErrProfileExists) {
			respondWithError(w, http.StatusConflict, "Voter profile already exists")
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// GetVoterProfile returns the caller's voter profile
// @Summary Get own voter profile
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.VoterProfile
// @Failure 404 {object} map[string]string "Profile not found"
// @Router /profiles/voter [get]
func (h *ProfileHandler) GetVoterProfile(w http.ResponseWriter, r *http.Request) {
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

	respondWithJSON(w, http.StatusOK, profile)
}

// UpdateVoterProfile updates the caller's voter profile
// @Summary Update own voter profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body VoterProfileRequest true "Voter profile data"
// @Success 200 {object} models.VoterProfile
// @Router /profiles/voter [put]
func (h *ProfileHandler) UpdateVoterProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	var req VoterProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	update, err := req.toModel()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.profileService.UpdateVoterProfile(userID, update)
	if err != nil {
		if errors.Is(err, repository.ErrVoterNotFound) {
			respondWithError(w, http.StatusNotFound, ErrMsgVoterNotFound)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// CreateCandidateProfile registers the caller's candidate profile
// @Summary Create candidate profile
// @Description Registers a candidate profile awaiting admin approval and sends a verification email
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CandidateProfileRequest true "Candidate profile data"
// @Success 201 {object} models.CandidateProfile
// @Failure 409 {object} map[string]string "Profile already exists"
// @Router /profiles/candidate [post]
func (h *ProfileHandler) CreateCandidateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	var req CandidateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := req.toModel()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.User(userID)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	created, err := h.profileService.CreateCandidateProfile(user, profile)
	if err != nil {
		if errors.Is(err, service.ErrProfileExists) {
			respondWithError(w, http.StatusConflict, "Candidate profile already exists")
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// GetCandidateProfile returns the caller's candidate profile
// @Summary Get own candidate profile
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.CandidateProfile
// @Failure 404 {object} map[string]string "Profile not found"
// @Router /profiles/candidate [get]
func (h *ProfileHandler) GetCandidateProfile(w http.ResponseWriter, r *http.Request) {
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

	respondWithJSON(w, http.StatusOK, profile)
}

// UpdateCandidateProfile updates the caller's candidate profile
// @Summary Update own candidate profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CandidateProfileRequest true "Candidate profile data"
// @Success 200 {object} models.CandidateProfile
// @Router /profiles/candidate [put]
func (h *ProfileHandler) UpdateCandidateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	var req CandidateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	update, err := req.toModel()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.profileService.UpdateCandidateProfile(userID, update)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			respondWithError(w, http.StatusNotFound, ErrMsgCandidateNotFound)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// ResendVerification re-sends a profile verification email
// @Summary Resend verification email
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Param kind query string true "Profile kind: voter or candidate"
// @Success 200 {object} map[string]string "Email sent"
// @Router /profiles/resend-verification [post]
func (h *ProfileHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	kind := r.URL.Query().Get("kind")
	if kind != models.TokenKindVoter && kind != models.TokenKindCandidate {
		respondWithError(w, http.StatusBadRequest, "kind must be voter or candidate")
		return
	}

	if err := h.profileService.ResendVerification(userID, kind); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to send verification email")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Verification email sent",
	})
}

// ApproveCandidate sets a candidate's approval flag (staff only)
// @Summary Approve or reject a candidate
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Candidate profile ID"
// @Param request body map[string]bool true "Approval flag"
// @Success 200 {object} map[string]string "Approval updated"
// @Router /admin/candidates/{id}/approve [post]
func (h *ProfileHandler) ApproveCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	var req struct {
		Approved bool `json:"approved"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	if err := h.profileService.ApproveCandidate(uint(candidateID), req.Approved); err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			respondWithError(w, http.StatusNotFound, ErrMsgCandidateNotFound)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Approval updated",
	})
}
