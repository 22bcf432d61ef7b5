package settings

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castboard/castboard/internal/db/dbtest"
	"github.com/castboard/castboard/internal/db/models"
	"github.com/castboard/castboard/internal/upload/uploadtest"
	"github.com/castboard/castboard/internal/web/handler/handlertest"
)

const missingID = "0b0e7ad8-6d3c-4a4f-9bb2-7e1c1f4d2a10"

func setup(t *testing.T) (*handlertest.Env, string) {
	t.Helper()

	env := handlertest.New(t, &Service{})
	_, adminToken := env.Token(t, "admin@x.com", models.RoleAdmin)

	return env, adminToken
}

func TestFontLifecycle(t *testing.T) {
	env, adminToken := setup(t)

	resp := env.JSON(t, http.MethodGet, FontPath, nil, "")
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "null", string(resp.Body))

	resp = env.JSON(t, http.MethodPost, FontPath, map[string]any{"fontColor": "#000", "fontSize": 12, "fontFamily": "Inter"}, adminToken)
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))

	resp = env.JSON(t, http.MethodPost, FontPath, map[string]any{"fontColor": "#fff", "fontSize": 14, "fontFamily": "Mono"}, adminToken)
	require.Equal(t, http.StatusCreated, resp.Status)

	var font models.Font
	resp.Decode(t, &font)

	var count int64
	require.NoError(t, env.DB.Model(&models.Font{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "create replaces")

	resp = env.JSON(t, http.MethodGet, FontPath, nil, "")
	var got models.Font
	resp.Decode(t, &got)
	assert.Equal(t, font.ID, got.ID)
	assert.Equal(t, "Mono", got.FontFamily)

	resp = env.JSON(t, http.MethodPut, FontPath+"/"+font.ID, map[string]any{"fontSize": 12.5}, adminToken)
	require.Equal(t, http.StatusOK, resp.Status)
	resp.Decode(t, &got)
	assert.InDelta(t, 12.5, got.FontSize, 0.001)
	assert.Equal(t, "#fff", got.FontColor)

	resp = env.JSON(t, http.MethodPost, FontPath, map[string]any{"fontSize": -1}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	resp = env.JSON(t, http.MethodPut, FontPath+"/"+missingID, map[string]any{"fontSize": 18}, adminToken)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.JSONEq(t, `{"message":"Font not found"}`, string(resp.Body))

	resp = env.JSON(t, http.MethodDelete, FontPath+"/"+font.ID, nil, adminToken)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.JSONEq(t, `{"message":"Font deleted"}`, string(resp.Body))

	resp = env.JSON(t, http.MethodDelete, FontPath+"/"+font.ID, nil, adminToken)
	assert.Equal(t, http.StatusNotFound, resp.Status)
}

func TestContact(t *testing.T) {
	env, adminToken := setup(t)
	_, normalToken := env.Token(t, "n@x.com", models.RoleNormal)

	resp := env.JSON(t, http.MethodPost, ContactPath, map[string]string{"text": "mail us"}, normalToken)
	assert.Equal(t, http.StatusForbidden, resp.Status)

	resp = env.JSON(t, http.MethodPost, ContactPath, map[string]string{"text": "mail us"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Status)

	resp = env.JSON(t, http.MethodPost, ContactPath, map[string]string{"text": "mail us"}, adminToken)
	require.Equal(t, http.StatusCreated, resp.Status)

	var contact models.Contact
	resp.Decode(t, &contact)
	assert.Equal(t, "mail us", contact.Text)

	resp = env.JSON(t, http.MethodPut, ContactPath+"/"+contact.ID, map[string]string{"text": ""}, adminToken)
	require.Equal(t, http.StatusOK, resp.Status)
	resp.Decode(t, &contact)
	assert.Equal(t, "mail us", contact.Text, "empty values are ignored")

	resp = env.JSON(t, http.MethodDelete, ContactPath+"/bad-id", nil, adminToken)
	assert.Equal(t, http.StatusNotFound, resp.Status)
}

func TestPlatformImages(t *testing.T) {
	env, adminToken := setup(t)

	resp := env.Multipart(t, http.MethodPost, PlatformPath, map[string]string{"text": "v1"}, adminToken,
		uploadtest.File{Field: ImageField, Name: "one.png", Content: []byte("1")})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))

	resp = env.Multipart(t, http.MethodPost, PlatformPath, map[string]string{"text": "v2"}, adminToken,
		uploadtest.File{Field: ImageField, Name: "two.png", Content: []byte("2")})
	require.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, []string{"/uploads/platform/two.png"}, env.Uploads.Refs(), "replaced image is removed")

	var platform models.Platform
	resp.Decode(t, &platform)

	resp = env.Multipart(t, http.MethodPut, PlatformPath+"/"+platform.ID, map[string]string{"text": "v3"}, adminToken,
		uploadtest.File{Field: ImageField, Name: "three.jpeg", Content: []byte("3")})
	require.Equal(t, http.StatusOK, resp.Status)
	resp.Decode(t, &platform)
	assert.Equal(t, "v3", platform.Text)
	assert.Equal(t, "/uploads/platform/three.jpeg", platform.Image)
	assert.Equal(t, []string{"/uploads/platform/three.jpeg"}, env.Uploads.Refs())

	resp = env.Multipart(t, http.MethodPut, PlatformPath+"/"+missingID, map[string]string{"text": "x"}, adminToken,
		uploadtest.File{Field: ImageField, Name: "four.png", Content: []byte("4")})
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Len(t, env.Uploads.Refs(), 1, "nothing stored for a missing row")

	resp = env.JSON(t, http.MethodDelete, PlatformPath+"/"+platform.ID, nil, adminToken)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Empty(t, env.Uploads.Refs())

	resp = env.JSON(t, http.MethodGet, PlatformPath, nil, "")
	assert.Equal(t, "null", string(resp.Body))
}

func TestPreviousPlatformLogsLookupFailure(t *testing.T) {
	var buf bytes.Buffer

	saved := log.Logger
	log.Logger = zerolog.New(&buf)

	t.Cleanup(func() { log.Logger = saved })

	db := dbtest.Open(t)
	assert.Nil(t, previousPlatform(db))
	assert.Empty(t, buf.String(), "an empty table is not an error")

	require.NoError(t, db.Migrator().DropTable(&models.Platform{}))
	assert.Nil(t, previousPlatform(db))
	assert.Contains(t, buf.String(), "failed to load previous platform")
}
