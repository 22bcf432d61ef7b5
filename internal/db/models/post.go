package models

import "gorm.io/gorm"

// Post is an article with media attachments.
// Media lists are set on create and never updated.
type Post struct {
	Model
	Title  string   `gorm:"size:255;not null" json:"title"`
	Body   string   `gorm:"type:text" json:"body"`
	Images []string `gorm:"type:text;serializer:json" json:"images"`
	Videos []string `gorm:"type:text;serializer:json" json:"videos"`
	Audio  []string `gorm:"type:text;serializer:json" json:"audio"`
	// TitleFold and BodyFold are the lower-cased search columns.
	TitleFold string `gorm:"size:255" json:"-"`
	BodyFold  string `gorm:"type:text" json:"-"`
}

// BeforeSave refreshes the search columns.
func (p *Post) BeforeSave(_ *gorm.DB) error {
	p.TitleFold = Fold(p.Title)
	p.BodyFold = Fold(p.Body)

	return nil
}
