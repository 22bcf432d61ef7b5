// Package handlertest wires handlers to an in-memory database for HTTP tests.
package handlertest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/castboard/castboard/internal/auth"
	"github.com/castboard/castboard/internal/config"
	"github.com/castboard/castboard/internal/db/controller/user"
	"github.com/castboard/castboard/internal/db/dbtest"
	"github.com/castboard/castboard/internal/db/models"
	"github.com/castboard/castboard/internal/upload/uploadtest"
	"github.com/castboard/castboard/internal/web/handler"
)

// Env is a ready to use app with its dependencies.
type Env struct {
	App     *fiber.App
	DB      *gorm.DB
	Deps    *handler.Deps
	Uploads *uploadtest.Fake
}

// New builds an app, initializes h on it and returns the environment.
func New(t *testing.T, h handler.Service) *Env {
	t.Helper()

	cfg := &config.Config{
		Auth: config.Auth{JWTSecret: "handler-test-secret", TokenTTL: time.Hour, Header: "token"},
		Upload: config.Upload{
			Timeout:       time.Minute,
			MaxImageBytes: 1024,
		},
	}

	authService, err := auth.NewService(cfg.Auth)
	require.NoError(t, err)

	env := &Env{
		App:     fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler}),
		DB:      dbtest.Open(t),
		Uploads: uploadtest.NewFake(),
	}

	env.Deps = &handler.Deps{
		Cfg:     cfg,
		DB:      env.DB,
		Auth:    authService,
		Uploads: env.Uploads,
	}

	require.NoError(t, h.Init(env.App, env.Deps))

	return env
}

// Token creates an account with role and returns it with a signed token.
func (e *Env) Token(t *testing.T, email string, role models.Role) (*models.User, string) {
	t.Helper()

	u, err := user.Create(e.DB, "Test", email, "password")
	require.NoError(t, err)

	if role == models.RoleAdmin {
		u, err = user.Promote(e.DB, u.ID)
		require.NoError(t, err)
	}

	token, err := e.Deps.Auth.Issue(u)
	require.NoError(t, err)

	return u, token
}

// Response is a drained HTTP response.
type Response struct {
	Status int
	Body   []byte
}

// Decode unmarshals the body into out.
func (r Response) Decode(t *testing.T, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, out), string(r.Body))
}

// Do sends a request with an optional body and token.
func (e *Env) Do(t *testing.T, method, path string, body io.Reader, contentType, token string) Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}

	if token != "" {
		req.Header.Set("token", token)
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return Response{Status: resp.StatusCode, Body: b}
}

// JSON sends v as a JSON body. A nil v sends no body.
func (e *Env) JSON(t *testing.T, method, path string, v any, token string) Response {
	t.Helper()

	if v == nil {
		return e.Do(t, method, path, nil, "", token)
	}

	b, err := json.Marshal(v)
	require.NoError(t, err)

	return e.Do(t, method, path, bytes.NewReader(b), fiber.MIMEApplicationJSON, token)
}

// Multipart sends fields and files as multipart/form-data.
func (e *Env) Multipart(t *testing.T, method, path string, fields map[string]string, token string, files ...uploadtest.File) Response {
	t.Helper()

	body, contentType := uploadtest.Body(t, fields, files...)

	return e.Do(t, method, path, body, contentType, token)
}
