package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Podcast is an episode with an optional cover image and its questions.
type Podcast struct {
	Model
	Title   string `gorm:"size:255;not null" json:"title"`
	Content string `gorm:"type:text" json:"content"`
	Image   string `gorm:"size:1024" json:"image"`
	// TitleFold and ContentFold are the lower-cased search columns.
	TitleFold   string `gorm:"size:255" json:"-"`
	ContentFold string `gorm:"type:text" json:"-"`
	// Questions are owned by the podcast and ordered by Position.
	Questions []Question `gorm:"foreignKey:PodcastID" json:"questions"`
}

// BeforeSave refreshes the search columns.
func (p *Podcast) BeforeSave(_ *gorm.DB) error {
	p.TitleFold = Fold(p.Title)
	p.ContentFold = Fold(p.Content)

	return nil
}

// Question is a question/answer pair embedded in a podcast.
type Question struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	PodcastID string `gorm:"size:36;not null;index" json:"-"`
	Position  int    `gorm:"not null" json:"-"`
	Question  string `gorm:"type:text" json:"question"`
	Answer    string `gorm:"type:text" json:"answer"`
}

// TableName keeps questions namespaced under podcasts.
func (Question) TableName() string {
	return "podcast_questions"
}

// BeforeCreate assigns a new ID unless one was set.
func (q *Question) BeforeCreate(_ *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}

	return nil
}
