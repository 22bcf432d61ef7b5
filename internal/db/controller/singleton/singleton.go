// Package singleton provides operations for settings tables that hold at most one live row.
package singleton

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/castboard/castboard/internal/db/controller/rows"
	"github.com/castboard/castboard/internal/db/models"
)

var (
	// ErrNotFound is returned when no row matches, or the table is empty.
	ErrNotFound = errors.New("setting not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Row is implemented by the singleton models.
type Row interface {
	models.Font | models.Platform | models.Contact
}

// Patch applies a sparse update to a row.
type Patch[T Row] interface {
	Apply(row *T)
}

// Current returns the live row of T.
func Current[T Row](db *gorm.DB) (*T, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var row T
	if err := db.Order("created_at DESC").Order("seq DESC").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return &row, nil
}

// Get returns the row of T with the given ID.
func Get[T Row](db *gorm.DB, id string) (*T, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if !models.ValidID(id) {
		return nil, ErrNotFound
	}

	var row T
	if err := db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return &row, nil
}

// Replace deletes every row of T and inserts row, in one transaction.
func Replace[T Row](db *gorm.DB, row *T) error {
	if db == nil {
		return ErrDBNil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(new(T)).Error; err != nil {
			return err
		}

		return tx.Create(row).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace setting: %w", err)
	}

	return nil
}

// Update applies patch to the row of T with the given ID and returns the stored result.
// The read and the write share a transaction, a row replaced meanwhile is reported as not found.
func Update[T Row](db *gorm.DB, id string, patch Patch[T]) (*T, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var row *T

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if row, err = Get[T](tx, id); err != nil {
			return err
		}

		patch.Apply(row)

		found, err := rows.Update(tx, row, id)
		if err != nil {
			return fmt.Errorf("failed to update setting: %w", err)
		}

		if !found {
			return ErrNotFound
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return row, nil
}

// Delete removes the row of T with the given ID and returns it.
func Delete[T Row](db *gorm.DB, id string) (*T, error) {
	row, err := Get[T](db, id)
	if err != nil {
		return nil, err
	}

	result := db.Delete(row)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return row, nil
}

// FontPatch is a sparse font update. A zero size leaves the size untouched.
type FontPatch struct {
	FontColor  *string
	FontSize   *float64
	FontFamily *string
}

// Apply implements Patch.
func (p FontPatch) Apply(f *models.Font) {
	if set(p.FontColor) {
		f.FontColor = *p.FontColor
	}

	if p.FontSize != nil && *p.FontSize != 0 {
		f.FontSize = *p.FontSize
	}

	if set(p.FontFamily) {
		f.FontFamily = *p.FontFamily
	}
}

// PlatformPatch is a sparse platform update.
type PlatformPatch struct {
	Text  *string
	Image *string
}

// Apply implements Patch.
func (p PlatformPatch) Apply(pl *models.Platform) {
	if set(p.Text) {
		pl.Text = *p.Text
	}

	if set(p.Image) {
		pl.Image = *p.Image
	}
}

// ContactPatch is a sparse contact update.
type ContactPatch struct {
	Text *string
}

// Apply implements Patch.
func (p ContactPatch) Apply(c *models.Contact) {
	if set(p.Text) {
		c.Text = *p.Text
	}
}

func set(s *string) bool {
	return s != nil && *s != ""
}
