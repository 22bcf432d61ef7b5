// Package post provides handlers for posts with media attachments.
package post

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/castboard/castboard/internal/apperr"
	postctl "github.com/castboard/castboard/internal/db/controller/post"
	"github.com/castboard/castboard/internal/upload"
	"github.com/castboard/castboard/internal/web/handler"
)

const (
	// Path is the base path for posts.
	Path = handler.RootPath + "posts"

	// Multipart field names.
	ImagesField = "images[]"
	VideosField = "videos[]"
	AudioField  = "audio[]"

	folder = "posts"

	maxImages = 10
	maxVideos = 5
	maxAudio  = 5
)

// Service provides post handlers.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the exported instance.
var Handler = Service{}

type createRequest struct {
	Title string `json:"title" form:"title" validate:"required"`
	Body  string `json:"body" form:"body"`
}

// Init registers routes.
func (s *Service) Init(app fiber.Router, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return nil
	}

	s.deps = deps

	app.Get(Path, s.List)
	app.Get(Path+"/search", s.Search)
	app.Get(Path+"/:id", s.Get)
	app.Get(handler.RootPath+"post/:id", s.Get)
	app.Post(Path, deps.Admin(s.Create)...)
	app.Delete(Path+"/:id", deps.Admin(s.Delete)...)

	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, postctl.ErrPostNotFound):
		return apperr.NewNotFound("Post not found")
	case errors.Is(err, postctl.ErrTitleEmpty):
		return apperr.NewValidation("Title is required")
	default:
		return apperr.NewInternal(err)
	}
}

func (s *Service) specs() []upload.FieldSpec {
	media := s.deps.Cfg.Upload.MaxMediaBytes

	return []upload.FieldSpec{
		{
			Field:      ImagesField,
			Folder:     folder,
			Extensions: upload.ImageExtensions,
			MaxFiles:   maxImages,
			MaxBytes:   s.deps.Cfg.Upload.MaxImageBytes,
		},
		{Field: VideosField, Folder: folder, Extensions: upload.VideoExtensions, MaxFiles: maxVideos, MaxBytes: media},
		{Field: AudioField, Folder: folder, Extensions: upload.AudioExtensions, MaxFiles: maxAudio, MaxBytes: media},
	}
}

// List returns all posts, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	posts, err := postctl.List(s.deps.DB)
	if err != nil {
		return translate(err)
	}

	return c.JSON(posts)
}

// Search matches q against title and body. An empty q lists everything.
func (s *Service) Search(c *fiber.Ctx) error {
	posts, err := postctl.Search(s.deps.DB, c.Query("q"))
	if err != nil {
		return translate(err)
	}

	return c.JSON(posts)
}

// Get returns one post.
func (s *Service) Get(c *fiber.Ctx) error {
	p, err := postctl.Get(s.deps.DB, c.Params("id"))
	if err != nil {
		return translate(err)
	}

	return c.JSON(p)
}

// Create stores a post with its media. Media can not be changed afterwards.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	files, err := s.deps.Collect(c, s.specs()...)
	if err != nil {
		return err
	}

	p, err := postctl.Create(s.deps.DB, req.Title, req.Body, postctl.Media{
		Images: files[ImagesField],
		Videos: files[VideosField],
		Audio:  files[AudioField],
	})
	if err != nil {
		s.deps.Discard(c, files)
		return translate(err)
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

// Delete removes a post and its media.
func (s *Service) Delete(c *fiber.Ctx) error {
	p, err := postctl.Delete(s.deps.DB, c.Params("id"))
	if err != nil {
		return translate(err)
	}

	s.deps.Discard(c, upload.Result{
		ImagesField: p.Images,
		VideosField: p.Videos,
		AudioField:  p.Audio,
	})

	return c.JSON(handler.Message{Message: "Post deleted"})
}
