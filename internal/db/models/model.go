// Package models contains database model definitions.
package models

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model is embedded by every stored document.
type Model struct {
	// ID is a random UUID assigned on create.
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// CreatedAt is managed by GORM.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is managed by GORM.
	UpdatedAt time.Time `json:"updatedAt"`
	// Seq orders rows created within the same timestamp tick.
	Seq int64 `gorm:"not null;default:0;index" json:"-"`
}

var lastSeq atomic.Int64

// nextSeq returns a clock based value that is strictly increasing within the process.
func nextSeq() int64 {
	for {
		last := lastSeq.Load()

		next := time.Now().UnixNano()
		if next <= last {
			next = last + 1
		}

		if lastSeq.CompareAndSwap(last, next) {
			return next
		}
	}
}

// BeforeCreate assigns a new ID unless one was set, and the creation sequence.
func (m *Model) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	if m.Seq == 0 {
		m.Seq = nextSeq()
	}

	return nil
}

// Fold returns the form of s stored in search columns.
func Fold(s string) string {
	return strings.ToLower(s)
}

// ValidID reports whether id has the shape of a document ID.
// Malformed IDs are treated like missing documents by the controllers.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36 //nolint:mnd
}

// All returns every model for auto migration.
func All() []any {
	return []any{
		&User{},
		&Podcast{},
		&Question{},
		&Post{},
		&Font{},
		&Platform{},
		&Contact{},
	}
}
