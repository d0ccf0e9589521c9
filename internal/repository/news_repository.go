package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"primaries-backend/internal/models"
)

var ErrNewsNotFound = errors.New("news item not found")

// NewsRepository handles news database operations
type NewsRepository struct {
	db *sql.DB
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(db *sql.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// Create creates a news item
func (r *NewsRepository) Create(item *models.News) error {
	now := time.Now()
	err := r.db.QueryRow(`
		INSERT INTO news (title, text, picture, media_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id
	`, item.Title, item.Text, item.Picture, item.MediaURL, now).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to create news item: %w", err)
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

// GetByID retrieves a news item by ID
func (r *NewsRepository) GetByID(id uint) (*models.News, error) {
	item := &models.News{}
	err := r.db.QueryRow(`
		SELECT id, title, text, picture, media_url, created_at, updated_at
		FROM news
		WHERE id = $1
	`, id).Scan(&item.ID, &item.Title, &item.Text, &item.Picture, &item.MediaURL, &item.CreatedAt, &item.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNewsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get news item: %w", err)
	}

	return item, nil
}

// GetAll retrieves news items newest first with pagination
func (r *NewsRepository) GetAll(limit, offset int) ([]models.News, error) {
	rows, err := r.db.Query(`
		SELECT id, title, text, picture, media_url, created_at, updated_at
		FROM news
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get news: %w", err)
	}
	defer rows.Close()

	var items []models.News
	for rows.Next() {
		var item models.News
		if err := rows.Scan(&item.ID, &item.Title, &item.Text, &item.Picture, &item.MediaURL, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan news item: %w", err)
		}
		items = append(items, item)
	}

	return items, nil
}

// Delete deletes a news item
func (r *NewsRepository) Delete(id uint) error {
	_, err := r.db.Exec(`DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete news item: %w", err)
	}
	return nil
}
