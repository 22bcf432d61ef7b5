package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castboard/castboard/internal/apperr"
	"github.com/castboard/castboard/internal/db/models"
)

func testApp(s *Service) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperr.KindOf(err).Status())
		},
	})

	ok := func(c *fiber.Ctx) error {
		return c.SendString(PrincipalFromContext(c).ID)
	}

	app.Get("/me", Authenticate(s), ok)
	app.Get("/admin", Authenticate(s), RequireRole(models.RoleAdmin), ok)
	app.Put("/users/:id", Authenticate(s), RequireSelfOrRole("id", models.RoleAdmin), ok)
	app.Get("/unguarded", RequireRole(models.RoleAdmin), ok)

	return app
}

func signedToken(t *testing.T, s *Service, claims Claims) string {
	t.Helper()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	require.NoError(t, err)

	return raw
}

func TestMiddleware(t *testing.T) {
	s := newTestService(t, time.Hour)
	app := testApp(s)

	normal := testUser(models.RoleNormal)
	normalToken, err := s.Issue(normal)
	require.NoError(t, err)

	admin := testUser(models.RoleAdmin)
	admin.ID = "a1b2c3d4-0000-4000-8000-000000000001"
	adminToken, err := s.Issue(admin)
	require.NoError(t, err)

	expiredToken := signedToken(t, s, Claims{
		UserID: normal.ID,
		Role:   normal.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	testCases := []struct {
		name       string
		method     string
		path       string
		headers    map[string]string
		wantStatus int
	}{
		{name: "no token", method: http.MethodGet, path: "/me", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", method: http.MethodGet, path: "/me", headers: map[string]string{"token": "bogus"}, wantStatus: http.StatusForbidden},
		{name: "expired token", method: http.MethodGet, path: "/me", headers: map[string]string{"token": expiredToken}, wantStatus: http.StatusForbidden},
		{name: "expired bearer token", method: http.MethodGet, path: "/me", headers: map[string]string{"Authorization": "Bearer " + expiredToken}, wantStatus: http.StatusForbidden},
		{name: "token header", method: http.MethodGet, path: "/me", headers: map[string]string{"token": normalToken}, wantStatus: http.StatusOK},
		{name: "bearer header", method: http.MethodGet, path: "/me", headers: map[string]string{"Authorization": "Bearer " + normalToken}, wantStatus: http.StatusOK},
		{name: "basic auth is ignored", method: http.MethodGet, path: "/me", headers: map[string]string{"Authorization": "Basic " + normalToken}, wantStatus: http.StatusUnauthorized},
		{name: "normal on admin route", method: http.MethodGet, path: "/admin", headers: map[string]string{"token": normalToken}, wantStatus: http.StatusForbidden},
		{name: "admin on admin route", method: http.MethodGet, path: "/admin", headers: map[string]string{"token": adminToken}, wantStatus: http.StatusOK},
		{name: "self update", method: http.MethodPut, path: "/users/" + normal.ID, headers: map[string]string{"token": normalToken}, wantStatus: http.StatusOK},
		{name: "foreign update", method: http.MethodPut, path: "/users/" + admin.ID, headers: map[string]string{"token": normalToken}, wantStatus: http.StatusForbidden},
		{name: "admin updates anyone", method: http.MethodPut, path: "/users/" + normal.ID, headers: map[string]string{"token": adminToken}, wantStatus: http.StatusOK},
		{name: "role check without principal", method: http.MethodGet, path: "/unguarded", wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			resp, errTest := app.Test(req)
			require.NoError(t, errTest)
			defer resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}
