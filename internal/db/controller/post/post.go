// Package post provides operations for posts with media attachments.
package post

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/castboard/castboard/internal/db/controller/search"
	"github.com/castboard/castboard/internal/db/models"
)

var (
	// ErrPostNotFound is returned when no post matches.
	ErrPostNotFound = errors.New("post not found")
	// ErrTitleEmpty is returned when a post would be stored without a title.
	ErrTitleEmpty = errors.New("post title cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Media holds the references produced by the upload step.
type Media struct {
	Images []string
	Videos []string
	Audio  []string
}

func orEmpty(refs []string) []string {
	if refs == nil {
		return []string{}
	}

	return refs
}

// List returns all posts, newest first.
func List(db *gorm.DB) ([]models.Post, error) {
	return Search(db, "")
}

// Search returns posts whose title or body contains q. An empty q returns every post.
func Search(db *gorm.DB, q string) ([]models.Post, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	posts := []models.Post{}
	if err := search.Contains(db, q, "title_fold", "body_fold").
		Order("created_at DESC").Order("seq DESC").Find(&posts).Error; err != nil {
		return nil, err
	}

	return posts, nil
}

// Get retrieves a post by ID.
func Get(db *gorm.DB, id string) (*models.Post, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if !models.ValidID(id) {
		return nil, ErrPostNotFound
	}

	var p models.Post
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}

		return nil, err
	}

	return &p, nil
}

// Create stores a post. Media lists are fixed from here on.
func Create(db *gorm.DB, title, body string, media Media) (*models.Post, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if title == "" {
		return nil, ErrTitleEmpty
	}

	p := &models.Post{
		Title:  title,
		Body:   body,
		Images: orEmpty(media.Images),
		Videos: orEmpty(media.Videos),
		Audio:  orEmpty(media.Audio),
	}

	if err := db.Create(p).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return p, nil
}

// Delete removes a post by ID and returns it so callers can release its media.
func Delete(db *gorm.DB, id string) (*models.Post, error) {
	p, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	result := db.Delete(&models.Post{}, "id = ?", id)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, ErrPostNotFound
	}

	return p, nil
}
