// Package account provides sign up, sign in and user management handlers.
package account

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/castboard/castboard/internal/apperr"
	"github.com/castboard/castboard/internal/auth"
	"github.com/castboard/castboard/internal/db/controller/user"
	"github.com/castboard/castboard/internal/db/models"
	"github.com/castboard/castboard/internal/web/handler"
)

const (
	// UsersPath is the base path for user management.
	UsersPath = handler.RootPath + "users"
)

// Service provides account handlers.
type Service struct {
	handler.Service
	deps  *handler.Deps
	local *auth.LocalProvider
}

// Handler is the exported instance.
var Handler = Service{}

type signupRequest struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type signinRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type updateRequest struct {
	Name     *string `json:"name" form:"name"`
	Email    *string `json:"email" form:"email" validate:"omitempty,email"`
	Password *string `json:"password" form:"password"`
}

type signinResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type logoutResponse struct {
	Message string  `json:"message"`
	Token   *string `json:"token"`
}

// Init registers routes.
func (s *Service) Init(app fiber.Router, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return nil
	}

	s.deps = deps
	s.local = auth.NewLocalProvider(deps.DB)

	authenticate := auth.Authenticate(deps.Auth)

	app.Post("/signup", s.Signup)
	app.Post("/signin", s.Signin)
	app.Post("/logout", authenticate, s.Logout)
	app.Get("/get-current-user", authenticate, s.Current)

	app.Get(UsersPath, deps.Admin(s.List)...)
	app.Get(UsersPath+"/:id", deps.Admin(s.Get)...)
	app.Delete(UsersPath+"/:id", deps.Admin(s.Delete)...)
	app.Put(UsersPath+"/:id/admin", deps.Admin(s.Promote)...)
	app.Put(UsersPath+"/:id",
		authenticate,
		auth.RequireSelfOrRole("id", handler.AdminRole),
		s.Update,
	)

	return nil
}

// translate maps controller errors to application errors.
func translate(err error) error {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return apperr.NewNotFound("User not found")
	case errors.Is(err, user.ErrEmailExists):
		return apperr.Wrap(apperr.Conflict, err, "User with email already exists")
	case errors.Is(err, user.ErrNoFields):
		return apperr.NewValidation("No fields provided for update")
	default:
		return apperr.NewInternal(err)
	}
}

// Signup creates a normal account.
func (s *Service) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	u, err := user.Create(s.deps.DB, req.Name, req.Email, req.Password)
	if err != nil {
		return translate(err)
	}

	log.Info().Str("user_id", u.ID).Msg("user signed up")

	return c.Status(fiber.StatusCreated).JSON(handler.Message{Message: "User created"})
}

// Signin checks credentials and returns a token.
func (s *Service) Signin(c *fiber.Ctx) error {
	var req signinRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	u, err := s.local.Authenticate(req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return apperr.Wrap(apperr.Unauthenticated, err, "Invalid credentials")
	}

	if err != nil {
		return apperr.NewInternal(err)
	}

	token, err := s.deps.Auth.Issue(u)
	if err != nil {
		return apperr.NewInternal(err)
	}

	return c.JSON(signinResponse{User: u, Token: token})
}

// Logout acknowledges the logout. Tokens are stateless, the client drops it.
func (s *Service) Logout(c *fiber.Ctx) error {
	return c.JSON(logoutResponse{Message: "Logout successful"})
}

// Current returns the account of the request principal.
func (s *Service) Current(c *fiber.Ctx) error {
	principal := auth.PrincipalFromContext(c)
	if principal == nil {
		return apperr.New(apperr.Unauthenticated, "Unauthorized")
	}

	u, err := user.GetByID(s.deps.DB, principal.ID)
	if errors.Is(err, user.ErrUserNotFound) {
		return apperr.New(apperr.Unauthenticated, "Unauthorized")
	}

	if err != nil {
		return apperr.NewInternal(err)
	}

	return c.JSON(u)
}

// List returns every account.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := user.List(s.deps.DB)
	if err != nil {
		return translate(err)
	}

	return c.JSON(users)
}

// Get returns one account.
func (s *Service) Get(c *fiber.Ctx) error {
	u, err := user.GetByID(s.deps.DB, c.Params("id"))
	if err != nil {
		return translate(err)
	}

	return c.JSON(u)
}

// Delete removes an account. Content is not touched.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := user.Delete(s.deps.DB, c.Params("id")); err != nil {
		return translate(err)
	}

	return c.JSON(handler.Message{Message: "User deleted"})
}

// Promote grants the admin role.
func (s *Service) Promote(c *fiber.Ctx) error {
	u, err := user.Promote(s.deps.DB, c.Params("id"))
	if err != nil {
		return translate(err)
	}

	log.Info().Str("user_id", u.ID).Str("by", auth.PrincipalFromContext(c).ID).Msg("user promoted to admin")

	return c.JSON(u)
}

// Update applies a sparse update of name, email and password.
func (s *Service) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := handler.Bind(c, &req); err != nil {
		return err
	}

	u, err := user.Update(s.deps.DB, c.Params("id"), user.Patch{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return translate(err)
	}

	return c.JSON(u)
}
