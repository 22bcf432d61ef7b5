package disk

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castboard/castboard/internal/upload/uploadtest"
)

func TestPutAndRemove(t *testing.T) {
	dir := t.TempDir()

	s, err := New(dir, "uploads/")
	require.NoError(t, err)
	assert.Equal(t, "/uploads", s.URLPrefix())
	assert.Equal(t, "disk", s.Name())

	form := uploadtest.Form(t, uploadtest.File{Field: "image", Name: "Cover.PNG", Content: []byte("png-bytes")})

	ref, err := s.Put(context.Background(), "podcasts", form.File["image"][0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/uploads/podcasts/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	stored := filepath.Join(dir, "podcasts", filepath.Base(ref))
	content, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))

	require.NoError(t, s.Remove(context.Background(), ref))
	_, err = os.Stat(stored)
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, s.Remove(context.Background(), ref), "removing twice is not an error")
}

func TestPutCancelled(t *testing.T) {
	s, err := New(t.TempDir(), "/uploads")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	form := uploadtest.Form(t, uploadtest.File{Field: "f", Name: "a.png", Content: []byte("x")})
	_, err = s.Put(ctx, "x", form.File["f"][0])
	require.ErrorIs(t, err, context.Canceled)
}

func TestRemoveOutsideRoot(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(filepath.Dir(dir), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))
	t.Cleanup(func() { _ = os.Remove(outside) })

	s, err := New(dir, "/uploads")
	require.NoError(t, err)

	testCases := []string{
		"https://cdn.example.com/a.png",
		"/uploads/",
		"/other/a.png",
	}

	for _, ref := range testCases {
		require.ErrorIs(t, s.Remove(context.Background(), ref), ErrOutsideRoot, ref)
	}

	require.NoError(t, s.Remove(context.Background(), "/uploads/../../keep.txt"))
	_, err = os.Stat(outside)
	require.NoError(t, err, "traversal must stay inside the upload dir")
}

func TestFileName(t *testing.T) {
	a := FileName("clip.MP4")
	b := FileName("clip.MP4")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".mp4"))
}
