// Package podcast provides CRUD operations for podcasts and their questions.
package podcast

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/castboard/castboard/internal/db/controller/rows"
	"github.com/castboard/castboard/internal/db/controller/search"
	"github.com/castboard/castboard/internal/db/models"
)

const (
	idQueryPattern      = "id = ?"
	podcastQueryPattern = "podcast_id = ?"
)

var (
	// ErrPodcastNotFound is returned when no podcast matches.
	ErrPodcastNotFound = errors.New("podcast not found")
	// ErrQuestionNotFound is returned when the podcast has no such question.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrTitleEmpty is returned when a podcast would be stored without a title.
	ErrTitleEmpty = errors.New("podcast title cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Patch is a sparse podcast update. Nil or empty fields are left untouched.
type Patch struct {
	Title   *string
	Content *string
	Image   *string
}

// QuestionPatch is a sparse question update.
type QuestionPatch struct {
	Question *string
	Answer   *string
}

func set(s *string) bool {
	return s != nil && *s != ""
}

// withQuestions preloads questions in insertion order.
func withQuestions(db *gorm.DB) *gorm.DB {
	return db.Preload("Questions", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	})
}

// List returns all podcasts, newest first.
func List(db *gorm.DB) ([]models.Podcast, error) {
	return Search(db, "")
}

// Search returns podcasts whose title or content contains q, newest first.
// An empty q returns every podcast.
func Search(db *gorm.DB, q string) ([]models.Podcast, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	podcasts := []models.Podcast{}
	tx := search.Contains(withQuestions(db), q, "title_fold", "content_fold")

	if err := tx.Order("created_at DESC").Order("seq DESC").Find(&podcasts).Error; err != nil {
		return nil, err
	}

	return podcasts, nil
}

// Get retrieves a podcast with its questions.
func Get(db *gorm.DB, id string) (*models.Podcast, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if !models.ValidID(id) {
		return nil, ErrPodcastNotFound
	}

	var p models.Podcast
	if err := withQuestions(db).First(&p, idQueryPattern, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPodcastNotFound
		}

		return nil, err
	}

	return &p, nil
}

// Create stores a new podcast without questions.
func Create(db *gorm.DB, title, content, image string) (*models.Podcast, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if title == "" {
		return nil, ErrTitleEmpty
	}

	p := &models.Podcast{
		Title:     title,
		Content:   content,
		Image:     image,
		Questions: []models.Question{},
	}

	if err := db.Create(p).Error; err != nil {
		return nil, fmt.Errorf("failed to create podcast: %w", err)
	}

	return p, nil
}

// Update applies patch to the podcast and returns the stored result.
// Questions are not touched. A podcast deleted meanwhile is not recreated.
func Update(db *gorm.DB, id string, patch Patch) (*models.Podcast, error) {
	p, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if set(patch.Title) {
		p.Title = *patch.Title
	}

	if set(patch.Content) {
		p.Content = *patch.Content
	}

	if set(patch.Image) {
		p.Image = *patch.Image
	}

	found, err := rows.Update(db, p, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update podcast: %w", err)
	}

	if !found {
		return nil, ErrPodcastNotFound
	}

	return p, nil
}

// Delete removes a podcast and its questions.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	if !models.ValidID(id) {
		return ErrPodcastNotFound
	}

	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Podcast{}, idQueryPattern, id)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrPodcastNotFound
		}

		return tx.Where(podcastQueryPattern, id).Delete(&models.Question{}).Error
	})
}

// AddQuestion appends a question to the podcast and returns the updated podcast.
func AddQuestion(db *gorm.DB, podcastID, question, answer string) (*models.Podcast, error) {
	if _, err := Get(db, podcastID); err != nil {
		return nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&models.Question{}).
			Where(podcastQueryPattern, podcastID).
			Select("COALESCE(MAX(position), -1) + 1").
			Scan(&next).Error; err != nil {
			return err
		}

		return tx.Create(&models.Question{
			PodcastID: podcastID,
			Position:  next,
			Question:  question,
			Answer:    answer,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add question: %w", err)
	}

	return Get(db, podcastID)
}

// UpdateQuestion applies patch to one question and returns the updated podcast.
func UpdateQuestion(db *gorm.DB, podcastID, questionID string, patch QuestionPatch) (*models.Podcast, error) {
	q, err := getQuestion(db, podcastID, questionID)
	if err != nil {
		return nil, err
	}

	if set(patch.Question) {
		q.Question = *patch.Question
	}

	if set(patch.Answer) {
		q.Answer = *patch.Answer
	}

	found, err := rows.Update(db, q, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	if !found {
		return nil, ErrQuestionNotFound
	}

	return Get(db, podcastID)
}

// DeleteQuestion removes one question and returns the updated podcast.
func DeleteQuestion(db *gorm.DB, podcastID, questionID string) (*models.Podcast, error) {
	q, err := getQuestion(db, podcastID, questionID)
	if err != nil {
		return nil, err
	}

	if err = db.Delete(q).Error; err != nil {
		return nil, fmt.Errorf("failed to delete question: %w", err)
	}

	return Get(db, podcastID)
}

func getQuestion(db *gorm.DB, podcastID, questionID string) (*models.Question, error) {
	if _, err := Get(db, podcastID); err != nil {
		return nil, err
	}

	if !models.ValidID(questionID) {
		return nil, ErrQuestionNotFound
	}

	var q models.Question
	err := db.Where(podcastQueryPattern, podcastID).First(&q, idQueryPattern, questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}

		return nil, err
	}

	return &q, nil
}
