package handler

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/castboard/castboard/internal/auth"
	"github.com/castboard/castboard/internal/config"
	"github.com/castboard/castboard/internal/upload"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app fiber.Router, deps *Deps) error
}

// Deps is the application context handed to every handler on Init.
type Deps struct {
	Cfg     *config.Config
	DB      *gorm.DB
	Auth    *auth.Service
	Uploads upload.Materializer
}

// Valid reports whether all dependencies are set.
func (d *Deps) Valid() bool {
	return d != nil && d.Cfg != nil && d.DB != nil && d.Auth != nil && d.Uploads != nil
}

// Admin returns the middleware chain guarding admin only routes, followed by h.
func (d *Deps) Admin(h ...fiber.Handler) []fiber.Handler {
	return append([]fiber.Handler{auth.Authenticate(d.Auth), auth.RequireRole(AdminRole)}, h...)
}

// UploadContext derives the context used to materialize uploads of one request.
func (d *Deps) UploadContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if d.Cfg.Upload.Timeout > 0 {
		return context.WithTimeout(c.UserContext(), d.Cfg.Upload.Timeout)
	}

	return context.WithCancel(c.UserContext())
}

// Collect materializes the files of a multipart request.
// Requests that are not multipart yield an empty result.
func (d *Deps) Collect(c *fiber.Ctx, specs ...upload.FieldSpec) (upload.Result, error) {
	var form *multipart.Form

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		var err error
		if form, err = c.MultipartForm(); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid multipart form")
		}
	}

	ctx, cancel := d.UploadContext(c)
	defer cancel()

	return upload.Collect(ctx, d.Uploads, form, specs...)
}

// Discard removes uploads after the owning document could not be stored.
func (d *Deps) Discard(c *fiber.Ctx, result upload.Result) {
	upload.Discard(c.UserContext(), d.Uploads, result)
}

// ImageSpec is the single image field used by podcasts and the platform setting.
func (d *Deps) ImageSpec(field, folder string) upload.FieldSpec {
	return upload.FieldSpec{
		Field:      field,
		Folder:     folder,
		Extensions: upload.ImageExtensions,
		MaxFiles:   1,
		MaxBytes:   d.Cfg.Upload.MaxImageBytes,
	}
}
