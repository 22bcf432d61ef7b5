package settings

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/castboard/castboard/internal/db/controller/singleton"
	"github.com/castboard/castboard/internal/db/models"
	"github.com/castboard/castboard/internal/upload"
	"github.com/castboard/castboard/internal/web/handler"
)

const platformName = "Platform"

type platformRequest struct {
	Text *string `json:"text" form:"text"`
}

// GetPlatform returns the platform setting or null.
func (s *Service) GetPlatform(c *fiber.Ctx) error {
	return current[models.Platform](c, s.deps.DB, platformName)
}

// CreatePlatform replaces the platform setting, with an optional image.
func (s *Service) CreatePlatform(c *fiber.Ctx) error {
	var req platformRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	previous := previousPlatform(s.deps.DB)

	files, err := s.deps.Collect(c, s.deps.ImageSpec(ImageField, folder))
	if err != nil {
		return err
	}

	row := &models.Platform{Image: files.First(ImageField)}
	singleton.PlatformPatch{Text: req.Text}.Apply(row)

	if err = replace(c, s.deps.DB, row, platformName); err != nil {
		s.deps.Discard(c, files)
		return err
	}

	if previous != nil && previous.Image != "" && previous.Image != row.Image {
		s.deps.Discard(c, upload.Result{ImageField: {previous.Image}})
	}

	return nil
}

// previousPlatform returns the live platform row or nil.
// A failed lookup is logged and the old image stays in the store.
func previousPlatform(db *gorm.DB) *models.Platform {
	row, err := singleton.Current[models.Platform](db)
	if err != nil && !errors.Is(err, singleton.ErrNotFound) {
		log.Error().Err(err).Msg("failed to load previous platform, its image is kept")
	}

	return row
}

// UpdatePlatform applies a sparse update, replacing the image when one is uploaded.
func (s *Service) UpdatePlatform(c *fiber.Ctx) error {
	var req platformRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	existing, err := singleton.Get[models.Platform](s.deps.DB, c.Params("id"))
	if err != nil {
		return translate(err, platformName)
	}

	files, err := s.deps.Collect(c, s.deps.ImageSpec(ImageField, folder))
	if err != nil {
		return err
	}

	patch := singleton.PlatformPatch{Text: req.Text}
	if image := files.First(ImageField); image != "" {
		patch.Image = &image
	}

	if err = update[models.Platform](c, s.deps.DB, patch, platformName); err != nil {
		s.deps.Discard(c, files)
		return err
	}

	if patch.Image != nil && existing.Image != "" {
		s.deps.Discard(c, upload.Result{ImageField: {existing.Image}})
	}

	return nil
}

// DeletePlatform removes the platform setting and its image.
func (s *Service) DeletePlatform(c *fiber.Ctx) error {
	row, err := remove[models.Platform](c, s.deps.DB, platformName)
	if err != nil {
		return err
	}

	if row.Image != "" {
		s.deps.Discard(c, upload.Result{ImageField: {row.Image}})
	}

	return nil
}
