package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"primaries-backend/internal/models"
	"primaries-backend/internal/repository"
	"primaries-backend/pkg/validator"
)

const defaultNewsPageSize = 20

// NewsHandler serves published news items
type NewsHandler struct {
	newsRepo *repository.NewsRepository
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(newsRepo *repository.NewsRepository) *NewsHandler {
	return &NewsHandler{
		newsRepo: newsRepo,
	}
}

// List returns news items newest first
// @Summary List news
// @Tags News
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.News
// @Router /news [get]
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = defaultNewsPageSize
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	items, err := h.newsRepo.GetAll(limit, offset)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}

// Get returns one news item
// @Summary Get a news item
// @Tags News
// @Produce json
// @Param id path int true "News ID"
// @Success 200 {object} models.News
// @Failure 404 {object} map[string]string "News not found"
// @Router /news/{id} [get]
func (h *NewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid news ID")
		return
	}

	item, err := h.newsRepo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNewsNotFound) {
			respondWithError(w, http.StatusNotFound, "News item not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	respondWithJSON(w, http.StatusOK, item)
}

// NewsRequest represents a news submission
type NewsRequest struct {
	Title    string  `json:"title" validate:"required"`
	Text     string  `json:"text"`
	Picture  *string `json:"picture"`
	MediaURL *string `json:"media_url"`
}

// Create publishes a news item (staff only)
// @Summary Publish a news item
// @Tags News
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body NewsRequest true "News content"
// @Success 201 {object} models.News
// @Router /admin/news [post]
func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req NewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	item := &models.News{
		Title:    validator.SanitizeString(req.Title),
		Text:     req.Text,
		Picture:  req.Picture,
		MediaURL: req.MediaURL,
	}
	if err := h.newsRepo.Create(item); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	respondWithJSON(w, http.StatusCreated, item)
}

// Delete removes a news item (staff only)
// @Summary Delete a news item
// @Tags News
// @Produce json
// @Security BearerAuth
// @Param id path int true "News ID"
// @Success 200 {object} map[string]string "News deleted"
// @Router /admin/news/{id} [delete]
func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid news ID")
		return
	}

	if err := h.newsRepo.Delete(uint(id)); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternalError)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "News deleted",
	})
}
