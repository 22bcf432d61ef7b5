package settings

import (
	"github.com/gofiber/fiber/v2"

	"github.com/castboard/castboard/internal/db/controller/singleton"
	"github.com/castboard/castboard/internal/db/models"
	"github.com/castboard/castboard/internal/web/handler"
)

const contactName = "Contact"

type contactRequest struct {
	Text *string `json:"text" form:"text"`
}

// GetContact returns the contact setting or null.
func (s *Service) GetContact(c *fiber.Ctx) error {
	return current[models.Contact](c, s.deps.DB, contactName)
}

// CreateContact replaces the contact setting.
func (s *Service) CreateContact(c *fiber.Ctx) error {
	var req contactRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	row := &models.Contact{}
	singleton.ContactPatch{Text: req.Text}.Apply(row)

	return replace(c, s.deps.DB, row, contactName)
}

// UpdateContact applies a sparse update to the contact setting.
func (s *Service) UpdateContact(c *fiber.Ctx) error {
	var req contactRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	return update[models.Contact](c, s.deps.DB, singleton.ContactPatch{Text: req.Text}, contactName)
}

// DeleteContact removes the contact setting.
func (s *Service) DeleteContact(c *fiber.Ctx) error {
	_, err := remove[models.Contact](c, s.deps.DB, contactName)
	return err
}
