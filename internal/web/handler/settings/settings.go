// Package settings provides handlers for the singleton font, platform and contact settings.
package settings

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/castboard/castboard/internal/apperr"
	"github.com/castboard/castboard/internal/db/controller/singleton"
	"github.com/castboard/castboard/internal/web/handler"
)

const (
	// FontPath is the path of the font setting.
	FontPath = handler.RootPath + "fonts"
	// PlatformPath is the path of the platform setting.
	PlatformPath = handler.RootPath + "platform"
	// ContactPath is the path of the contact setting.
	ContactPath = handler.RootPath + "contact"

	// ImageField is the multipart field carrying the platform image.
	ImageField = "image"

	folder = "platform"
)

// Service provides settings handlers.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app fiber.Router, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return nil
	}

	s.deps = deps

	app.Get(FontPath, s.GetFont)
	app.Post(FontPath, deps.Admin(s.CreateFont)...)
	app.Put(FontPath+"/:id", deps.Admin(s.UpdateFont)...)
	app.Delete(FontPath+"/:id", deps.Admin(s.DeleteFont)...)

	app.Get(PlatformPath, s.GetPlatform)
	app.Post(PlatformPath, deps.Admin(s.CreatePlatform)...)
	app.Put(PlatformPath+"/:id", deps.Admin(s.UpdatePlatform)...)
	app.Delete(PlatformPath+"/:id", deps.Admin(s.DeletePlatform)...)

	app.Get(ContactPath, s.GetContact)
	app.Post(ContactPath, deps.Admin(s.CreateContact)...)
	app.Put(ContactPath+"/:id", deps.Admin(s.UpdateContact)...)
	app.Delete(ContactPath+"/:id", deps.Admin(s.DeleteContact)...)

	return nil
}

func translate(err error, name string) error {
	if errors.Is(err, singleton.ErrNotFound) {
		return apperr.NewNotFound(name + " not found")
	}

	return apperr.NewInternal(err)
}

// current writes the live row of T, or null when there is none.
func current[T singleton.Row](c *fiber.Ctx, db *gorm.DB, name string) error {
	row, err := singleton.Current[T](db)
	if errors.Is(err, singleton.ErrNotFound) {
		return c.JSON(nil)
	}

	if err != nil {
		return translate(err, name)
	}

	return c.JSON(row)
}

// replace stores row as the only row of T.
func replace[T singleton.Row](c *fiber.Ctx, db *gorm.DB, row *T, name string) error {
	if err := singleton.Replace(db, row); err != nil {
		return translate(err, name)
	}

	return c.Status(fiber.StatusCreated).JSON(row)
}

func update[T singleton.Row](c *fiber.Ctx, db *gorm.DB, patch singleton.Patch[T], name string) error {
	row, err := singleton.Update[T](db, c.Params("id"), patch)
	if err != nil {
		return translate(err, name)
	}

	return c.JSON(row)
}

func remove[T singleton.Row](c *fiber.Ctx, db *gorm.DB, name string) (*T, error) {
	row, err := singleton.Delete[T](db, c.Params("id"))
	if err != nil {
		return nil, translate(err, name)
	}

	return row, c.JSON(handler.Message{Message: name + " deleted"})
}
