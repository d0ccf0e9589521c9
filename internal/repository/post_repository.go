package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"primaries-backend/internal/models"
)

var ErrPostNotFound = errors.New("post not found")

// PostRepository handles candidate campaign posts
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create creates a campaign post
func (r *PostRepository) Create(post *models.CandidatePost) error {
	post.CreatedAt = time.Now()
	err := r.db.QueryRow(`
		INSERT INTO candidate_posts (profile_id, title, text, media_url, photo, important, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, post.ProfileID, post.Title, post.Text, post.MediaURL, post.Photo, post.Important, post.CreatedAt).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(id uint) (*models.CandidatePost, error) {
	post := &models.CandidatePost{}
	err := r.db.QueryRow(`
		SELECT id, profile_id, title, text, media_url, photo, important, created_at
		FROM candidate_posts
		WHERE id = $1
	`, id).Scan(&post.ID, &post.ProfileID, &post.Title, &post.Text, &post.MediaURL, &post.Photo, &post.Important, &post.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// GetByProfile retrieves a candidate's posts newest first
func (r *PostRepository) GetByProfile(profileID uint) ([]models.CandidatePost, error) {
	rows, err := r.db.Query(`
		SELECT id, profile_id, title, text, media_url, photo, important, created_at
		FROM candidate_posts
		WHERE profile_id = $1
		ORDER BY important DESC, created_at DESC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	defer rows.Close()

	var posts []models.CandidatePost
	for rows.Next() {
		var post models.CandidatePost
		if err := rows.Scan(&post.ID, &post.ProfileID, &post.Title, &post.Text, &post.MediaURL, &post.Photo, &post.Important, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	return posts, nil
}

// Delete deletes a post owned by the given profile
func (r *PostRepository) Delete(id, profileID uint) error {
	result, err := r.db.Exec(`DELETE FROM candidate_posts WHERE id = $1 AND profile_id = $2`, id, profileID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrPostNotFound
	}
	return nil
}
