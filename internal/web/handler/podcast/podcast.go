// Package podcast provides handlers for podcasts and their questions.
package podcast

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/castboard/castboard/internal/apperr"
	podcastctl "github.com/castboard/castboard/internal/db/controller/podcast"
	"github.com/castboard/castboard/internal/upload"
	"github.com/castboard/castboard/internal/web/handler"
)

const (
	// Path is the base path for podcasts.
	Path = handler.RootPath + "podcasts"

	// ImageField is the multipart field carrying the cover image.
	ImageField = "image"

	folder = "podcasts"
)

// Service provides podcast handlers.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the exported instance.
var Handler = Service{}

// createRequest accepts the legacy "name" field as title.
type createRequest struct {
	Title   string `json:"title" form:"title" validate:"required"`
	Name    string `json:"name" form:"name"`
	Content string `json:"content" form:"content"`
}

type updateRequest struct {
	Title   *string `json:"title" form:"title"`
	Name    *string `json:"name" form:"name"`
	Content *string `json:"content" form:"content"`
}

type questionRequest struct {
	Question string `json:"question" form:"question" validate:"required"`
	Answer   string `json:"answer" form:"answer"`
}

type questionUpdateRequest struct {
	Question *string `json:"question" form:"question"`
	Answer   *string `json:"answer" form:"answer"`
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
	app.Post(Path, deps.Admin(s.Create)...)
	app.Put(Path+"/:id", deps.Admin(s.Update)...)
	app.Delete(Path+"/:id", deps.Admin(s.Delete)...)

	app.Post(Path+"/:id/questions", deps.Admin(s.AddQuestion)...)
	app.Put(Path+"/:id/questions/:qId", deps.Admin(s.UpdateQuestion)...)
	app.Delete(Path+"/:id/questions/:qId", deps.Admin(s.DeleteQuestion)...)

	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, podcastctl.ErrPodcastNotFound):
		return apperr.NewNotFound("Podcast not found")
	case errors.Is(err, podcastctl.ErrQuestionNotFound):
		return apperr.NewNotFound("Question not found")
	case errors.Is(err, podcastctl.ErrTitleEmpty):
		return apperr.NewValidation("Title is required")
	default:
		return apperr.NewInternal(err)
	}
}

func (s *Service) imageSpec() upload.FieldSpec {
	return s.deps.ImageSpec(ImageField, folder)
}

// List returns all podcasts, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	podcasts, err := podcastctl.List(s.deps.DB)
	if err != nil {
		return translate(err)
	}

	return c.JSON(podcasts)
}

// Search matches q against title and content. An empty q lists everything.
func (s *Service) Search(c *fiber.Ctx) error {
	podcasts, err := podcastctl.Search(s.deps.DB, c.Query("q"))
	if err != nil {
		return translate(err)
	}

	return c.JSON(podcasts)
}

// Get returns one podcast.
func (s *Service) Get(c *fiber.Ctx) error {
	p, err := podcastctl.Get(s.deps.DB, c.Params("id"))
	if err != nil {
		return translate(err)
	}

	return c.JSON(p)
}

// Create stores a podcast with an optional cover image.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest

	if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return apperr.Wrap(apperr.Validation, err, "invalid request body")
	}

	if req.Title == "" {
		req.Title = req.Name
	}

	if err := handler.Validate(&req); err != nil {
		return err
	}

	files, err := s.deps.Collect(c, s.imageSpec())
	if err != nil {
		return err
	}

	p, err := podcastctl.Create(s.deps.DB, req.Title, req.Content, files.First(ImageField))
	if err != nil {
		s.deps.Discard(c, files)
		return translate(err)
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

// Update applies a sparse update, replacing the image when one is uploaded.
func (s *Service) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	if req.Title == nil || *req.Title == "" {
		req.Title = req.Name
	}

	current, err := podcastctl.Get(s.deps.DB, c.Params("id"))
	if err != nil {
		return translate(err)
	}

	files, err := s.deps.Collect(c, s.imageSpec())
	if err != nil {
		return err
	}

	patch := podcastctl.Patch{Title: req.Title, Content: req.Content}
	if image := files.First(ImageField); image != "" {
		patch.Image = &image
	}

	p, err := podcastctl.Update(s.deps.DB, current.ID, patch)
	if err != nil {
		s.deps.Discard(c, files)
		return translate(err)
	}

	if patch.Image != nil && current.Image != "" {
		s.deps.Discard(c, upload.Result{ImageField: {current.Image}})
	}

	return c.JSON(p)
}

// Delete removes a podcast, its questions and its image.
func (s *Service) Delete(c *fiber.Ctx) error {
	p, err := podcastctl.Get(s.deps.DB, c.Params("id"))
	if err != nil {
		return translate(err)
	}

	if err = podcastctl.Delete(s.deps.DB, p.ID); err != nil {
		return translate(err)
	}

	if p.Image != "" {
		s.deps.Discard(c, upload.Result{ImageField: {p.Image}})
	}

	return c.JSON(handler.Message{Message: "Podcast deleted"})
}

// AddQuestion appends a question and returns the podcast.
func (s *Service) AddQuestion(c *fiber.Ctx) error {
	var req questionRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	p, err := podcastctl.AddQuestion(s.deps.DB, c.Params("id"), req.Question, req.Answer)
	if err != nil {
		return translate(err)
	}

	return c.JSON(p)
}

// UpdateQuestion applies a sparse update to one question and returns the podcast.
func (s *Service) UpdateQuestion(c *fiber.Ctx) error {
	var req questionUpdateRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	p, err := podcastctl.UpdateQuestion(s.deps.DB, c.Params("id"), c.Params("qId"), podcastctl.QuestionPatch{
		Question: req.Question,
		Answer:   req.Answer,
	})
	if err != nil {
		return translate(err)
	}

	return c.JSON(p)
}

// DeleteQuestion removes one question and returns the podcast.
func (s *Service) DeleteQuestion(c *fiber.Ctx) error {
	p, err := podcastctl.DeleteQuestion(s.deps.DB, c.Params("id"), c.Params("qId"))
	if err != nil {
		return translate(err)
	}

	return c.JSON(p)
}
