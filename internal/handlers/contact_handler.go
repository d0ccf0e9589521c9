package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"primaries-backend/internal/email"
	"primaries-backend/pkg/validator"
)

// ContactHandler forwards contact-form messages to the site administrators
type ContactHandler struct {
	emailService *email.Service
}

// NewContactHandler creates a new contact handler
func NewContactHandler(emailService *email.Service) *ContactHandler {
	return &ContactHandler{
		emailService: emailService,
	}
}

// ContactRequest is the contact-form payload
type ContactRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Name    string `json:"name" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// Submit forwards a contact-form message
// @Summary Send a contact message
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body ContactRequest true "Contact message"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /contact [post]
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	if err := validator.ValidateStruct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.Email = validator.SanitizeEmail(req.Email)
	req.Name = validator.SanitizeString(req.Name)
	req.Message = validator.SanitizeString(req.Message)

	if err := h.emailService.SendContactEmail(req.Email, req.Name, req.Message); err != nil {
		slog.Error("Failed to send contact email", "error", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "OK"})
}
