package upload_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castboard/castboard/internal/config"
	"github.com/castboard/castboard/internal/upload"
	"github.com/castboard/castboard/internal/upload/uploadtest"
)

func postSpecs() []upload.FieldSpec {
	return []upload.FieldSpec{
		{Field: "images[]", Folder: "posts", Extensions: upload.ImageExtensions, MaxFiles: 3, MaxBytes: 8},
		{Field: "audio[]", Folder: "posts", Extensions: upload.AudioExtensions, MaxFiles: 1},
	}
}

func TestCollect(t *testing.T) {
	testCases := []struct {
		name       string
		files      []uploadtest.File
		specs      []upload.FieldSpec
		failAfter  int
		wantReason upload.Reason
		wantField  string
		wantRefs   map[string]int
	}{
		{
			name: "stores every field",
			files: []uploadtest.File{
				{Field: "images[]", Name: "a.png", Content: []byte("a")},
				{Field: "images[]", Name: "b.JPG", Content: []byte("b")},
				{Field: "audio[]", Name: "c.mp3", Content: []byte("c")},
			},
			specs:    postSpecs(),
			wantRefs: map[string]int{"images[]": 2, "audio[]": 1},
		},
		{
			name:     "no files is fine",
			specs:    postSpecs(),
			wantRefs: map[string]int{},
		},
		{
			name:       "extension rejected",
			files:      []uploadtest.File{{Field: "images[]", Name: "a.gif", Content: []byte("a")}},
			specs:      postSpecs(),
			wantReason: upload.ReasonType,
			wantField:  "images[]",
		},
		{
			name:       "file too large",
			files:      []uploadtest.File{{Field: "images[]", Name: "a.png", Content: []byte("123456789")}},
			specs:      postSpecs(),
			wantReason: upload.ReasonSize,
			wantField:  "images[]",
		},
		{
			name: "too many files",
			files: []uploadtest.File{
				{Field: "audio[]", Name: "a.mp3", Content: []byte("a")},
				{Field: "audio[]", Name: "b.mp3", Content: []byte("b")},
			},
			specs:      postSpecs(),
			wantReason: upload.ReasonCount,
			wantField:  "audio[]",
		},
		{
			name:       "required field missing",
			specs:      []upload.FieldSpec{{Field: "image", Folder: "x", Required: true}},
			wantReason: upload.ReasonRequired,
			wantField:  "image",
		},
		{
			name: "storage failure removes earlier files",
			files: []uploadtest.File{
				{Field: "images[]", Name: "a.png", Content: []byte("a")},
				{Field: "audio[]", Name: "c.mp3", Content: []byte("c")},
			},
			specs:      postSpecs(),
			failAfter:  1,
			wantReason: upload.ReasonStore,
			wantField:  "audio[]",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fake := uploadtest.NewFake()
			if tc.failAfter > 0 {
				fake.FailAfter = tc.failAfter
			}

			form := uploadtest.Form(t, tc.files...)

			result, err := upload.Collect(context.Background(), fake, form, tc.specs...)

			if tc.wantReason != "" {
				ue, ok := upload.AsError(err)
				require.True(t, ok, "expected *upload.Error, got %v", err)
				assert.Equal(t, tc.wantReason, ue.Reason)
				assert.Equal(t, tc.wantField, ue.Field)
				assert.Nil(t, result)
				assert.Empty(t, fake.Refs(), "nothing may be left behind")

				return
			}

			require.NoError(t, err)

			for field, n := range tc.wantRefs {
				assert.Len(t, result[field], n, field)
			}

			assert.Len(t, fake.Refs(), len(tc.files))
		})
	}
}

func TestCollectNilForm(t *testing.T) {
	result, err := upload.Collect(context.Background(), uploadtest.NewFake(), nil,
		upload.FieldSpec{Field: "image", Folder: "podcasts"})
	require.NoError(t, err)
	assert.Empty(t, result.First("image"))
}

func TestNewBackend(t *testing.T) {
	m, err := upload.New(context.Background(), config.Upload{
		Backend: config.UploadBackendDisk,
		Disk:    config.DiskUpload{Dir: t.TempDir(), URLPrefix: "/uploads"},
	})
	require.NoError(t, err)
	assert.Equal(t, "disk", m.Name())

	_, err = upload.New(context.Background(), config.Upload{Backend: "ftp"})
	require.ErrorIs(t, err, config.ErrUnknownUploadBackend)

	_, err = upload.New(context.Background(), config.Upload{Backend: config.UploadBackendS3})
	require.Error(t, err)
}
