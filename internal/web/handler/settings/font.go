package settings

import (
	"github.com/gofiber/fiber/v2"

	"github.com/castboard/castboard/internal/db/controller/singleton"
	"github.com/castboard/castboard/internal/db/models"
	"github.com/castboard/castboard/internal/web/handler"
)

const fontName = "Font"

type fontRequest struct {
	FontColor  string  `json:"fontColor" form:"fontColor"`
	FontSize   float64 `json:"fontSize" form:"fontSize" validate:"gte=0"`
	FontFamily string  `json:"fontFamily" form:"fontFamily"`
}

type fontUpdateRequest struct {
	FontColor  *string  `json:"fontColor" form:"fontColor"`
	FontSize   *float64 `json:"fontSize" form:"fontSize" validate:"omitempty,gte=0"`
	FontFamily *string  `json:"fontFamily" form:"fontFamily"`
}

// GetFont returns the font setting or null.
func (s *Service) GetFont(c *fiber.Ctx) error {
	return current[models.Font](c, s.deps.DB, fontName)
}

// CreateFont replaces the font setting.
func (s *Service) CreateFont(c *fiber.Ctx) error {
	var req fontRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	return replace(c, s.deps.DB, &models.Font{
		FontColor:  req.FontColor,
		FontSize:   req.FontSize,
		FontFamily: req.FontFamily,
	}, fontName)
}

// UpdateFont applies a sparse update to the font setting.
func (s *Service) UpdateFont(c *fiber.Ctx) error {
	var req fontUpdateRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	return update[models.Font](c, s.deps.DB, singleton.FontPatch{
		FontColor:  req.FontColor,
		FontSize:   req.FontSize,
		FontFamily: req.FontFamily,
	}, fontName)
}

// DeleteFont removes the font setting.
func (s *Service) DeleteFont(c *fiber.Ctx) error {
	_, err := remove[models.Font](c, s.deps.DB, fontName)
	return err
}
